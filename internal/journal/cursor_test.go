package journal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwrk-planet/chat-room/internal/journal"
)

func Test_Cursor_Roundtrip(t *testing.T) {
	req := require.New(t)

	s, err := journal.EncodeCursor(journal.Cursor{Seq: 42})
	req.NoError(err)

	c, err := journal.DecodeCursor(s)
	req.NoError(err)
	req.Equal(int64(42), c.Seq)
}

func Test_DecodeCursor_Empty_Is_First_Page(t *testing.T) {
	c, err := journal.DecodeCursor("")
	require.NoError(t, err)
	require.Nil(t, c)
}

func Test_DecodeCursor_Rejects_Garbage(t *testing.T) {
	req := require.New(t)

	_, err := journal.DecodeCursor("%%%")
	req.ErrorIs(err, journal.ErrInvalidCursor)

	// base64("not json")
	_, err = journal.DecodeCursor("bm90IGpzb24")
	req.ErrorIs(err, journal.ErrInvalidCursor)

	zero, _ := journal.EncodeCursor(journal.Cursor{Seq: 0})
	_, err = journal.DecodeCursor(zero)
	req.ErrorIs(err, journal.ErrInvalidCursor)
}

func Test_NextCursor_Only_For_Full_Page(t *testing.T) {
	req := require.New(t)

	req.Empty(journal.NextCursor(10, 3, 5))
	next := journal.NextCursor(10, 5, 5)
	req.NotEmpty(next)
	c, err := journal.DecodeCursor(next)
	req.NoError(err)
	req.Equal(int64(10), c.Seq)
}
