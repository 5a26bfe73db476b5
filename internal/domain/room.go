package domain

import "github.com/google/uuid"

const (
	DefaultParticipantCapacity = 10
	DefaultMessageCapacity     = 100
)

// Room: агрегат комнаты. Участники и сообщения хранятся в порядке добавления,
// сообщения не вытесняются.
type Room struct {
	ID        RoomID
	CreatedAt Timestamp

	participants        []Participant
	messages            []Message
	participantCapacity int
	messageCapacity     int
}

// NewRoom создаёт пустую комнату; лимиты <= 0 заменяются дефолтными.
func NewRoom(id RoomID, createdAt Timestamp, participantCapacity, messageCapacity int) *Room {
	if participantCapacity <= 0 {
		participantCapacity = DefaultParticipantCapacity
	}
	if messageCapacity <= 0 {
		messageCapacity = DefaultMessageCapacity
	}
	return &Room{
		ID:                  id,
		CreatedAt:           createdAt,
		participants:        make([]Participant, 0, participantCapacity),
		participantCapacity: participantCapacity,
		messageCapacity:     messageCapacity,
	}
}

// NewRoomID генерирует случайный id комнаты (uuid v4).
func NewRoomID() RoomID { return RoomID(uuid.NewString()) }

func (r *Room) AddParticipant(p Participant) error {
	if len(r.participants) >= r.participantCapacity {
		return &CapacityError{Capacity: r.participantCapacity, Current: len(r.participants)}
	}
	r.participants = append(r.participants, p)
	return nil
}

// RemoveParticipant: неизвестный id игнорируется.
func (r *Room) RemoveParticipant(id ParticipantID) {
	for i, p := range r.participants {
		if p.ID == id {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			return
		}
	}
}

func (r *Room) AddMessage(m Message) error {
	if len(r.messages) >= r.messageCapacity {
		return &MessageCapacityError{Capacity: r.messageCapacity, Current: len(r.messages)}
	}
	r.messages = append(r.messages, m)
	return nil
}

func (r *Room) FindParticipant(id ParticipantID) (Participant, bool) {
	for _, p := range r.participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

func (r *Room) Participants() []Participant {
	out := make([]Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

func (r *Room) Messages() []Message {
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Room) ParticipantCount() int { return len(r.participants) }
func (r *Room) MessageCount() int { return len(r.messages) }
func (r *Room) ParticipantCapacity() int { return r.participantCapacity }
func (r *Room) MessageCapacity() int { return r.messageCapacity }

// Clone: глубокая копия, слайсы не разделяются с r.
func (r *Room) Clone() *Room {
	return &Room{
		ID:                  r.ID,
		CreatedAt:           r.CreatedAt,
		participants:        r.Participants(),
		messages:            r.Messages(),
		participantCapacity: r.participantCapacity,
		messageCapacity:     r.messageCapacity,
	}
}
