package journal

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor указывает на последнее отданное событие; следующая страница
// начинается со строго меньшего Seq.
type Cursor struct {
	Seq int64 `json:"seq"`
}

func EncodeCursor(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrInvalidCursor, err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", ErrInvalidCursor, err)
	}
	if c.Seq <= 0 {
		return nil, fmt.Errorf("%w: seq must be positive", ErrInvalidCursor)
	}
	return &c, nil
}

// NextCursor: курсор есть только у полной страницы.
func NextCursor(lastSeq int64, got, limit int) string {
	if got < limit || lastSeq <= 0 {
		return ""
	}
	c, err := EncodeCursor(Cursor{Seq: lastSeq})
	if err != nil {
		return ""
	}
	return c
}
