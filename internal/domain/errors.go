package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrHistoryFull     = errors.New("message history is full")
	ErrAlreadyJoined   = errors.New("client id already connected")
	ErrNotInRoom       = errors.New("client not in the room")
	ErrInvalidIdentity = errors.New("invalid client id")
	ErrInvalidMessage  = errors.New("invalid message")
	ErrInvalidRoomID   = errors.New("invalid room id")
)

// CapacityError: комната заполнена. errors.Is(err, ErrRoomFull) == true.
type CapacityError struct {
	Capacity int
	Current  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("room capacity exceeded (capacity=%d current=%d)", e.Capacity, e.Current)
}

func (e *CapacityError) Unwrap() error { return ErrRoomFull }

// MessageCapacityError: история сообщений достигла лимита.
type MessageCapacityError struct {
	Capacity int
	Current  int
}

func (e *MessageCapacityError) Error() string {
	return fmt.Sprintf("message capacity exceeded (capacity=%d current=%d)", e.Capacity, e.Current)
}

func (e *MessageCapacityError) Unwrap() error { return ErrHistoryFull }
