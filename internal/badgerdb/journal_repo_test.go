package badgerdb_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/chat-room/internal/badgerdb"
	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/journal"
)

func newRepo(t *testing.T) *badgerdb.JournalRepository {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	repo := badgerdb.NewJournalRepository(db, slog.Default())
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func Test_Append_And_Read_Newest_First(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)

	// Given three events
	req.NoError(repo.Append(ctx, domain.NewEvent(domain.DefaultRoomID, domain.EventJoined, "alice", "", 1)))
	req.NoError(repo.Append(ctx, domain.NewEvent(domain.DefaultRoomID, domain.EventChat, "alice", "hello", 2)))
	req.NoError(repo.Append(ctx, domain.NewEvent(domain.DefaultRoomID, domain.EventLeft, "alice", "", 3)))

	// When reading a page bigger than the journal
	events, next, err := repo.History(ctx, domain.DefaultRoomID, "", 10)

	// Then all events are returned newest first with no next page
	req.NoError(err)
	req.Empty(next)
	req.Len(events, 3)
	req.Equal([]domain.EventKind{domain.EventLeft, domain.EventChat, domain.EventJoined},
		[]domain.EventKind{events[0].Kind, events[1].Kind, events[2].Kind})
	req.Equal([]int64{3, 2, 1}, []int64{events[0].Seq, events[1].Seq, events[2].Seq})
	req.Equal(domain.MessageText("hello"), events[1].Text)
	req.Equal(domain.Timestamp(2), events[1].At)
}

func Test_Pagination_Walks_Whole_Journal(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)

	for i := 0; i < 7; i++ {
		req.NoError(repo.Append(ctx, domain.NewEvent(domain.DefaultRoomID, domain.EventChat, "bob", "m", domain.Timestamp(i))))
	}

	var (
		seen   []int64
		cursor string
		pages  int
	)
	for {
		events, next, err := repo.History(ctx, domain.DefaultRoomID, cursor, 3)
		req.NoError(err)
		for _, ev := range events {
			seen = append(seen, ev.Seq)
		}
		pages++
		if next == "" {
			break
		}
		cursor = next
	}

	req.Equal([]int64{7, 6, 5, 4, 3, 2, 1}, seen)
	req.Equal(3, pages)
}

func Test_Rooms_Are_Isolated(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)

	req.NoError(repo.Append(ctx, domain.NewEvent("a", domain.EventJoined, "alice", "", 1)))
	req.NoError(repo.Append(ctx, domain.NewEvent("ab", domain.EventJoined, "bob", "", 2)))

	events, _, err := repo.History(ctx, "a", "", 10)
	req.NoError(err)
	req.Len(events, 1)
	req.Equal(domain.ParticipantID("alice"), events[0].Participant)
}

func Test_Room_ID_With_Separator_Is_Isolated(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := newRepo(t)

	// Given a room whose id extends another one past the key separator
	req.NoError(repo.Append(ctx, domain.NewEvent("a", domain.EventJoined, "alice", "", 1)))
	req.NoError(repo.Append(ctx, domain.NewEvent("a:1", domain.EventJoined, "bob", "", 2)))
	req.NoError(repo.Append(ctx, domain.NewEvent("a:1", domain.EventChat, "bob", "hi", 3)))

	// When
	short, _, err := repo.History(ctx, "a", "", 10)
	req.NoError(err)
	long, _, err := repo.History(ctx, "a:1", "", 10)
	req.NoError(err)

	// Then each room sees only its own events and sequence
	req.Len(short, 1)
	req.Equal(domain.ParticipantID("alice"), short[0].Participant)
	req.Equal(int64(1), short[0].Seq)
	req.Len(long, 2)
	req.Equal([]int64{2, 1}, []int64{long[0].Seq, long[1].Seq})
}

func Test_Invalid_Cursor(t *testing.T) {
	repo := newRepo(t)

	_, _, err := repo.History(context.Background(), domain.DefaultRoomID, "not-a-cursor!", 10)
	require.ErrorIs(t, err, journal.ErrInvalidCursor)
}

func Test_Open_In_Memory(t *testing.T) {
	req := require.New(t)
	repo, err := badgerdb.Open("", slog.Default())
	req.NoError(err)
	defer repo.Close()

	req.NoError(repo.Append(context.Background(), domain.NewEvent(domain.DefaultRoomID, domain.EventJoined, "x", "", 1)))
	events, _, err := repo.History(context.Background(), domain.DefaultRoomID, "", 1)
	req.NoError(err)
	req.Len(events, 1)
}
