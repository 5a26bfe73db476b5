package domain

import "github.com/samber/lo"

type Participant struct {
	ID       ParticipantID
	JoinedAt Timestamp
}

func ParticipantIDsOf(ps []Participant) []ParticipantID {
	return lo.Map(ps, func(p Participant, _ int) ParticipantID { return p.ID })
}
