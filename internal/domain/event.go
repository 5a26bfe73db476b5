package domain

import "github.com/google/uuid"

type EventKind string

const (
	EventJoined EventKind = "participant-joined"
	EventLeft   EventKind = "participant-left"
	EventChat   EventKind = "chat"
)

// Event: запись журнала комнаты. Seq проставляет бэкенд журнала.
type Event struct {
	ID          string
	Seq         int64
	RoomID      RoomID
	Kind        EventKind
	Participant ParticipantID
	Text        MessageText
	At          Timestamp
}

func NewEvent(room RoomID, kind EventKind, who ParticipantID, text MessageText, at Timestamp) Event {
	return Event{
		ID:          uuid.NewString(),
		RoomID:      room,
		Kind:        kind,
		Participant: who,
		Text:        text,
		At:          at,
	}
}
