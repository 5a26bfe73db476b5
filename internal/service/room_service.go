package service

import (
	"context"
	"fmt"

	"github.com/cwrk-planet/chat-room/internal/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// RoomService: чтение комнаты для HTTP (список, детали, журнал).
type RoomService struct {
	roomID  domain.RoomID
	store   RoomStore
	journal Journal
}

// NewRoomService: journal может быть nil, тогда History отдаёт ErrJournalDisabled.
func NewRoomService(roomID domain.RoomID, store RoomStore, journal Journal) *RoomService {
	return &RoomService{roomID: roomID, store: store, journal: journal}
}

// ListRooms возвращает все комнаты сервера (ровно одну).
func (s *RoomService) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	room, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.Snapshot: %w", err)
	}
	return []*domain.Room{room}, nil
}

// GetRoom возвращает комнату по ID.
func (s *RoomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	if domain.RoomID(id) != s.roomID {
		return nil, domain.ErrRoomNotFound
	}
	room, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.Snapshot: %w", err)
	}
	return room, nil
}

// History возвращает журнал событий комнаты с курсорной пагинацией.
func (s *RoomService) History(ctx context.Context, id, cursor string, limit int) ([]domain.Event, string, error) {
	if domain.RoomID(id) != s.roomID {
		return nil, "", domain.ErrRoomNotFound
	}
	if s.journal == nil {
		return nil, "", ErrJournalDisabled
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.journal.History(ctx, s.roomID, cursor, limit)
}
