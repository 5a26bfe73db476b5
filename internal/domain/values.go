package domain

import (
	"fmt"
	"time"
)

const (
	MaxParticipantIDLen = 100
	MaxMessageTextLen   = 10_000
	MaxRoomIDLen        = 100
)

// ParticipantID: идентификатор подключения. Длина считается в байтах UTF-8.
type ParticipantID string

func NewParticipantID(raw string) (ParticipantID, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: client id is empty", ErrInvalidIdentity)
	}
	if len(raw) > MaxParticipantIDLen {
		return "", fmt.Errorf("%w: client id longer than %d bytes", ErrInvalidIdentity, MaxParticipantIDLen)
	}
	return ParticipantID(raw), nil
}

func (id ParticipantID) String() string { return string(id) }

type MessageText string

func NewMessageText(raw string) (MessageText, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: content is empty", ErrInvalidMessage)
	}
	if len(raw) > MaxMessageTextLen {
		return "", fmt.Errorf("%w: content longer than %d bytes", ErrInvalidMessage, MaxMessageTextLen)
	}
	return MessageText(raw), nil
}

func (t MessageText) String() string { return string(t) }

type RoomID string

const DefaultRoomID RoomID = "default"

func NewRoomIDFrom(raw string) (RoomID, error) {
	if raw == "" || len(raw) > MaxRoomIDLen {
		return "", fmt.Errorf("%w: room id must be 1..%d bytes", ErrInvalidRoomID, MaxRoomIDLen)
	}
	return RoomID(raw), nil
}

func (id RoomID) String() string { return string(id) }

// Timestamp: миллисекунды с Unix epoch.
type Timestamp int64

// DisplayZone: зона для отображения (JST, UTC+9). На порядок не влияет.
var DisplayZone = time.FixedZone("JST", 9*60*60)

func TimestampOf(t time.Time) Timestamp { return Timestamp(t.UnixMilli()) }

func (ts Timestamp) Time() time.Time { return time.UnixMilli(int64(ts)).In(DisplayZone) }

// Format: RFC 3339 в DisplayZone, например 2024-01-02T12:00:00+09:00
func (ts Timestamp) Format() string { return ts.Time().Format(time.RFC3339) }
