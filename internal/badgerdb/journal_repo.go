package badgerdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/journal"
)

const seqBandwidth = 100

// JournalRepository хранит события в BadgerDB.
// Ключ "evt:{room_id}:{seq_padded}" с 19-значным seq, поэтому
// лексикографический порядок совпадает с порядком записи.
type JournalRepository struct {
	db  *badger.DB
	log *slog.Logger

	mu   sync.Mutex
	seqs map[domain.RoomID]*badger.Sequence
}

type diskEvent struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Room        string `json:"room"`
	Kind        string `json:"kind"`
	Participant string `json:"participant"`
	Text        string `json:"text,omitempty"`
	At          int64  `json:"at"`
}

// Open открывает базу по пути; пустой путь: in-memory (для тестов).
func Open(path string, log *slog.Logger) (*JournalRepository, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return NewJournalRepository(db, log), nil
}

func NewJournalRepository(db *badger.DB, log *slog.Logger) *JournalRepository {
	return &JournalRepository{db: db, log: log, seqs: make(map[domain.RoomID]*badger.Sequence)}
}

// prefix: длина id перед самим id, иначе "evt:a:" совпало бы с ключами комнаты "a:b".
func prefix(room domain.RoomID) string { return fmt.Sprintf("evt:%03d:%s:", len(room), room) }

func eventKey(room domain.RoomID, seq int64) []byte {
	return []byte(fmt.Sprintf("%s%019d", prefix(room), seq))
}

// nextSeq: seq начинается с 1, как BIGSERIAL в postgres.
func (r *JournalRepository) nextSeq(room domain.RoomID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.seqs[room]
	if !ok {
		var err error
		s, err = r.db.GetSequence([]byte(fmt.Sprintf("seq:%03d:%s", len(room), room)), seqBandwidth)
		if err != nil {
			return 0, err
		}
		r.seqs[room] = s
	}
	n, err := s.Next()
	if err != nil {
		return 0, err
	}
	return int64(n) + 1, nil
}

func (r *JournalRepository) Append(ctx context.Context, ev domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seq, err := r.nextSeq(ev.RoomID)
	if err != nil {
		return fmt.Errorf("next seq: %w", err)
	}
	data, err := json.Marshal(diskEvent{
		ID:          ev.ID,
		Seq:         seq,
		Room:        string(ev.RoomID),
		Kind:        string(ev.Kind),
		Participant: string(ev.Participant),
		Text:        string(ev.Text),
		At:          int64(ev.At),
	})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(eventKey(ev.RoomID, seq), data)
	})
}

// History: обратный проход по префиксу, от новых к старым.
func (r *JournalRepository) History(ctx context.Context, roomID domain.RoomID, cursor string, limit int) ([]domain.Event, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	cur, err := journal.DecodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	pfx := []byte(prefix(roomID))
	seek := append(append([]byte{}, pfx...), []byte("9999999999999999999")...)
	if cur != nil {
		seek = eventKey(roomID, cur.Seq-1)
	}

	var out []domain.Event
	err = r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = pfx
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(pfx) && len(out) < limit; it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var de diskEvent
				if err := json.Unmarshal(v, &de); err != nil {
					return fmt.Errorf("unmarshal event: %w", err)
				}
				out = append(out, toEvent(de))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	var last int64
	if len(out) > 0 {
		last = out[len(out)-1].Seq
	}
	return out, journal.NextCursor(last, len(out), limit), nil
}

func (r *JournalRepository) Close() error {
	r.mu.Lock()
	for room, s := range r.seqs {
		if err := s.Release(); err != nil && r.log != nil {
			r.log.Warn("release badger sequence", slog.String("room_id", string(room)), slog.Any("err", err))
		}
	}
	r.seqs = map[domain.RoomID]*badger.Sequence{}
	r.mu.Unlock()
	return r.db.Close()
}

func toEvent(de diskEvent) domain.Event {
	return domain.Event{
		ID:          de.ID,
		Seq:         de.Seq,
		RoomID:      domain.RoomID(de.Room),
		Kind:        domain.EventKind(de.Kind),
		Participant: domain.ParticipantID(de.Participant),
		Text:        domain.MessageText(de.Text),
		At:          domain.Timestamp(de.At),
	}
}
