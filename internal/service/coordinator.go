package service

import (
	"errors"
	"time"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/metrics"
)

// Coordinator управляет жизненным циклом подключений: Connect, Disconnect,
// Send, ListParticipants. Всё состояние живёт в RoomStore; журнал и gauge
// участников подписаны на store, см. memory.Observer.
type Coordinator struct {
	roomID  domain.RoomID
	store   RoomStore
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Coordinator)

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(roomID domain.RoomID, store RoomStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		roomID: roomID,
		store:  store,
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Coordinator) RoomID() domain.RoomID { return c.roomID }

func (c *Coordinator) timestamp() domain.Timestamp { return domain.TimestampOf(c.now()) }

func (c *Coordinator) reject(reason string) { c.metrics.Rejected(reason) }

// RejectReason: метка для метрик и логов.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentity):
		return "invalid_identity"
	case errors.Is(err, domain.ErrInvalidMessage):
		return "invalid_message"
	case errors.Is(err, domain.ErrAlreadyJoined):
		return "duplicate"
	case errors.Is(err, domain.ErrRoomFull):
		return "room_full"
	case errors.Is(err, domain.ErrHistoryFull):
		return "history_full"
	case errors.Is(err, domain.ErrNotInRoom):
		return "not_found"
	default:
		return "internal"
	}
}
