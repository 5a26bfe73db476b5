package domain

import "github.com/samber/lo"

// Sink: исходящая очередь живого соединения. Push не блокируется,
// false означает, что сообщение отброшено.
type Sink interface {
	Push(msg []byte) bool
}

// Handle связывает участника с его исходящей очередью.
type Handle struct {
	ID          ParticipantID
	ConnectedAt Timestamp
	Sink        Sink
}

func HandleIDs(hs []Handle) []ParticipantID {
	return lo.Map(hs, func(h Handle, _ int) ParticipantID { return h.ID })
}
