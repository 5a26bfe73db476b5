package memory

import (
	"context"
	"sync"

	"github.com/cwrk-planet/chat-room/internal/domain"
)

// RoomStore держит комнату и реестр хэндлов под одним mutex.
// Внутри критической секции нет I/O: только изменение состояния и снимок
// списка получателей.
type RoomStore struct {
	mu        sync.Mutex
	room      *domain.Room
	handles   map[domain.ParticipantID]domain.Handle
	observers []Observer
}

// Observer получает каждое применённое изменение под блокировкой store,
// строго в порядке применения. Реализация не должна блокироваться.
type Observer interface {
	Committed(ev domain.Event, participants int)
}

func NewRoomStore(room *domain.Room, observers ...Observer) *RoomStore {
	return &RoomStore{
		room:      room,
		handles:   make(map[domain.ParticipantID]domain.Handle, room.ParticipantCapacity()),
		observers: observers,
	}
}

func (s *RoomStore) TryConnect(ctx context.Context, id domain.ParticipantID, sink domain.Sink, at domain.Timestamp) ([]domain.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handles[id]; ok {
		return nil, domain.ErrAlreadyJoined
	}
	if _, ok := s.room.FindParticipant(id); ok {
		return nil, domain.ErrAlreadyJoined
	}
	if err := s.room.AddParticipant(domain.Participant{ID: id, JoinedAt: at}); err != nil {
		return nil, err
	}

	peers := s.peersLocked(id)
	s.handles[id] = domain.Handle{ID: id, ConnectedAt: at, Sink: sink}
	s.commitLocked(domain.EventJoined, id, "", at)
	return peers, nil
}

func (s *RoomStore) Disconnect(ctx context.Context, id domain.ParticipantID, at domain.Timestamp) ([]domain.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.room.FindParticipant(id); !ok {
		return nil, domain.ErrNotInRoom
	}
	s.room.RemoveParticipant(id)
	delete(s.handles, id)
	s.commitLocked(domain.EventLeft, id, "", at)

	return s.peersLocked(id), nil
}

// Send не проверяет членство отправителя: это делает транспорт, который
// передаёт только id своего соединения.
func (s *RoomStore) Send(ctx context.Context, from domain.ParticipantID, text domain.MessageText, at domain.Timestamp) ([]domain.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.AddMessage(domain.Message{From: from, Text: text, SentAt: at}); err != nil {
		return nil, err
	}
	s.commitLocked(domain.EventChat, from, text, at)
	return s.peersLocked(from), nil
}

func (s *RoomStore) Snapshot(ctx context.Context) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Clone(), nil
}

func (s *RoomStore) ParticipantIDs(ctx context.Context) ([]domain.ParticipantID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ParticipantIDsOf(s.room.Participants()), nil
}

func (s *RoomStore) commitLocked(kind domain.EventKind, id domain.ParticipantID, text domain.MessageText, at domain.Timestamp) {
	if len(s.observers) == 0 {
		return
	}
	ev := domain.NewEvent(s.room.ID, kind, id, text, at)
	n := s.room.ParticipantCount()
	for _, o := range s.observers {
		o.Committed(ev, n)
	}
}

// peersLocked: хэндлы в порядке входа участников, без exclude.
func (s *RoomStore) peersLocked(exclude domain.ParticipantID) []domain.Handle {
	ps := s.room.Participants()
	out := make([]domain.Handle, 0, len(ps))
	for _, p := range ps {
		if p.ID == exclude {
			continue
		}
		if h, ok := s.handles[p.ID]; ok {
			out = append(out, h)
		}
	}
	return out
}
