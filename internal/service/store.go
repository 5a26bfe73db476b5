package service

import (
	"context"
	"errors"

	"github.com/cwrk-planet/chat-room/internal/domain"
)

var ErrJournalDisabled = errors.New("event journal is disabled")

// RoomStore: единственная точка сериализации. Комната и реестр хэндлов
// меняются вместе под одной блокировкой, чтобы множество id с хэндлом
// всегда совпадало со списком участников.
type RoomStore interface {
	// TryConnect добавляет участника и хэндл атомарно, либо не меняет ничего.
	// Возвращает хэндлы остальных участников.
	TryConnect(ctx context.Context, id domain.ParticipantID, sink domain.Sink, at domain.Timestamp) ([]domain.Handle, error)
	// Disconnect возвращает хэндлы, оставшиеся после удаления.
	Disconnect(ctx context.Context, id domain.ParticipantID, at domain.Timestamp) ([]domain.Handle, error)
	// Send сохраняет сообщение и возвращает всех, кроме отправителя.
	Send(ctx context.Context, from domain.ParticipantID, text domain.MessageText, at domain.Timestamp) ([]domain.Handle, error)
	Snapshot(ctx context.Context) (*domain.Room, error)
	ParticipantIDs(ctx context.Context) ([]domain.ParticipantID, error)
}

// Journal: чтение журнала событий (postgres или badger). Пишет в журнал
// journal.Writer, подписанный на store.
type Journal interface {
	// History отдаёт события от новых к старым, cursor пустой для первой страницы.
	History(ctx context.Context, roomID domain.RoomID, cursor string, limit int) ([]domain.Event, string, error)
}
