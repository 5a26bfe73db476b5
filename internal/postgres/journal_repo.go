package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/journal"
)

// JournalRepository: журнал событий комнаты в таблице room_events.
type JournalRepository struct {
	db *pgxpool.Pool
}

func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

// EnsureSchema создаёт таблицу, если её нет.
func (r *JournalRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaEvents); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *JournalRepository) Append(ctx context.Context, ev domain.Event) error {
	row := r.db.QueryRow(ctx, insertEvent,
		ev.ID, string(ev.RoomID), string(ev.Kind), string(ev.Participant), string(ev.Text), int64(ev.At))

	var seq int64
	if err := row.Scan(&seq); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// History возвращает события комнаты с курсорной пагинацией (seq DESC).
func (r *JournalRepository) History(ctx context.Context, roomID domain.RoomID, cursor string, limit int) ([]domain.Event, string, error) {
	cur, err := journal.DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	var before any
	if cur != nil {
		before = cur.Seq
	}

	rows, err := r.db.Query(ctx, selectEvents, string(roomID), before, limit)
	if err != nil {
		return nil, "", fmt.Errorf("select events: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanEvent)
	if err != nil {
		return nil, "", fmt.Errorf("scan events: %w", err)
	}

	var last int64
	if len(out) > 0 {
		last = out[len(out)-1].Seq
	}
	return out, journal.NextCursor(last, len(out), limit), nil
}

func (r *JournalRepository) Close() error {
	r.db.Close()
	return nil
}

func scanEvent(row pgx.CollectableRow) (domain.Event, error) {
	var ev domain.Event
	var roomID, kind, participant, text string
	var at int64
	if err := row.Scan(&ev.Seq, &ev.ID, &roomID, &kind, &participant, &text, &at); err != nil {
		return domain.Event{}, err
	}
	ev.RoomID = domain.RoomID(roomID)
	ev.Kind = domain.EventKind(kind)
	ev.Participant = domain.ParticipantID(participant)
	ev.Text = domain.MessageText(text)
	ev.At = domain.Timestamp(at)
	return ev, nil
}
