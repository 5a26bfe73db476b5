package postgres_test

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/journal"
	"github.com/cwrk-planet/chat-room/internal/postgres"
)

func mustJournal(t *testing.T) *postgres.JournalRepository {
	t.Helper()

	raw := strings.TrimSpace(os.Getenv("CHAT_DATABASE_URL"))
	if raw == "" {
		t.Skip("integration test skipped: CHAT_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, postgres.Config{DSN: raw, ApplicationName: "chat-room-test"})
	if err != nil {
		if shouldSkipIntegration(err) {
			t.Skipf("integration test skipped: Postgres unreachable: %v", err)
		}
		t.Fatalf("connect postgres: %v", err)
	}

	repo := postgres.NewJournalRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		t.Fatalf("schema: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func shouldSkipIntegration(err error) bool {
	if os.Getenv("CI") != "" {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "dial tcp") ||
		strings.Contains(msg, "timeout")
}

func Test_Journal_Append_And_Page(t *testing.T) {
	req := require.New(t)
	repo := mustJournal(t)
	ctx := context.Background()

	// отдельная комната на каждый прогон
	room := domain.NewRoomID()
	for i, who := range []domain.ParticipantID{"alice", "bob", "charlie"} {
		req.NoError(repo.Append(ctx, domain.NewEvent(room, domain.EventJoined, who, "", domain.Timestamp(i))))
	}
	req.NoError(repo.Append(ctx, domain.NewEvent(room, domain.EventChat, "alice", "hi", 10)))

	page, next, err := repo.History(ctx, room, "", 3)
	req.NoError(err)
	req.Len(page, 3)
	req.NotEmpty(next)
	req.Equal(domain.EventChat, page[0].Kind)
	req.Equal(domain.MessageText("hi"), page[0].Text)
	req.Greater(page[0].Seq, page[1].Seq)

	rest, next, err := repo.History(ctx, room, next, 3)
	req.NoError(err)
	req.Len(rest, 1)
	req.Empty(next)
	req.Equal(domain.ParticipantID("alice"), rest[0].Participant)
	req.Equal(domain.EventJoined, rest[0].Kind)
}

func Test_Journal_Bad_Cursor(t *testing.T) {
	repo := mustJournal(t)

	_, _, err := repo.History(context.Background(), domain.DefaultRoomID, "garbage!", 10)
	require.ErrorIs(t, err, journal.ErrInvalidCursor)
}
