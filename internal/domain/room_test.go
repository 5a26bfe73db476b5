package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/chat-room/internal/domain"
)

func participant(id string) domain.Participant {
	return domain.Participant{ID: domain.ParticipantID(id), JoinedAt: 1}
}

func Test_NewRoom_Defaults(t *testing.T) {
	req := require.New(t)

	room := domain.NewRoom(domain.DefaultRoomID, 0, 0, -1)

	req.Equal(domain.DefaultParticipantCapacity, room.ParticipantCapacity())
	req.Equal(domain.DefaultMessageCapacity, room.MessageCapacity())
	req.Empty(room.Participants())
	req.Empty(room.Messages())
}

func Test_AddParticipant_Rejects_When_Full(t *testing.T) {
	req := require.New(t)

	// Given a room with capacity 2 holding two participants
	room := domain.NewRoom(domain.DefaultRoomID, 0, 2, 10)
	req.NoError(room.AddParticipant(participant("alice")))
	req.NoError(room.AddParticipant(participant("bob")))

	// When a third joins
	err := room.AddParticipant(participant("charlie"))

	// Then the room reports capacity and stays unchanged
	var capErr *domain.CapacityError
	req.True(errors.As(err, &capErr))
	req.Equal(2, capErr.Capacity)
	req.Equal(2, capErr.Current)
	req.ErrorIs(err, domain.ErrRoomFull)
	req.Equal(2, room.ParticipantCount())
	_, found := room.FindParticipant("charlie")
	req.False(found)
}

func Test_RemoveParticipant_Keeps_Order_And_Ignores_Unknown(t *testing.T) {
	req := require.New(t)

	room := domain.NewRoom(domain.DefaultRoomID, 0, 5, 10)
	for _, id := range []string{"alice", "bob", "charlie"} {
		req.NoError(room.AddParticipant(participant(id)))
	}

	room.RemoveParticipant("bob")
	room.RemoveParticipant("nobody")

	ids := domain.ParticipantIDsOf(room.Participants())
	req.Equal([]domain.ParticipantID{"alice", "charlie"}, ids)
}

func Test_AddMessage_Rejects_At_Ceiling(t *testing.T) {
	req := require.New(t)

	room := domain.NewRoom(domain.DefaultRoomID, 0, 5, 2)
	req.NoError(room.AddMessage(domain.Message{From: "alice", Text: "m1", SentAt: 1}))
	req.NoError(room.AddMessage(domain.Message{From: "alice", Text: "m2", SentAt: 2}))

	err := room.AddMessage(domain.Message{From: "alice", Text: "m3", SentAt: 3})

	var capErr *domain.MessageCapacityError
	req.True(errors.As(err, &capErr))
	req.Equal(domain.MessageCapacityError{Capacity: 2, Current: 2}, *capErr)
	req.ErrorIs(err, domain.ErrHistoryFull)

	msgs := room.Messages()
	req.Len(msgs, 2)
	req.Equal(domain.MessageText("m1"), msgs[0].Text)
	req.Equal(domain.MessageText("m2"), msgs[1].Text)
}

func Test_Clone_Is_Independent(t *testing.T) {
	req := require.New(t)

	room := domain.NewRoom(domain.DefaultRoomID, 0, 5, 5)
	req.NoError(room.AddParticipant(participant("alice")))
	req.NoError(room.AddMessage(domain.Message{From: "alice", Text: "hi", SentAt: 1}))

	clone := room.Clone()
	req.NoError(room.AddParticipant(participant("bob")))
	req.NoError(room.AddMessage(domain.Message{From: "bob", Text: "yo", SentAt: 2}))

	req.Equal(1, clone.ParticipantCount())
	req.Equal(1, clone.MessageCount())
	req.Equal(room.ID, clone.ID)
	req.Equal(5, clone.MessageCapacity())
}

func Test_Participants_Returns_Copy(t *testing.T) {
	req := require.New(t)

	room := domain.NewRoom(domain.DefaultRoomID, 0, 5, 5)
	req.NoError(room.AddParticipant(participant("alice")))

	ps := room.Participants()
	ps[0].ID = "mallory"

	_, found := room.FindParticipant("alice")
	req.True(found)
}
