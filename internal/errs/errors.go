package errs

import (
	"context"
	"errors"
	"net/http"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/journal"
	"github.com/cwrk-planet/chat-room/internal/service"
)

var ErrInvalidInput = errors.New("invalid input")

// ToHTTP: у каждой ошибки ядра свой статус.
func ToHTTP(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentity),
		errors.Is(err, domain.ErrInvalidRoomID),
		errors.Is(err, journal.ErrInvalidCursor),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidMessage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAlreadyJoined):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRoomFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrHistoryFull):
		return http.StatusInsufficientStorage
	case errors.Is(err, domain.ErrNotInRoom),
		errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrJournalDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Code: машинный код для тела ответа и WS-события error.
func Code(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentity):
		return "invalid_identity"
	case errors.Is(err, domain.ErrInvalidRoomID):
		return "invalid_room_id"
	case errors.Is(err, journal.ErrInvalidCursor):
		return "invalid_cursor"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrInvalidMessage):
		return "invalid_message"
	case errors.Is(err, domain.ErrAlreadyJoined):
		return "duplicate_identity"
	case errors.Is(err, domain.ErrRoomFull):
		return "room_full"
	case errors.Is(err, domain.ErrHistoryFull):
		return "message_capacity_exceeded"
	case errors.Is(err, domain.ErrNotInRoom):
		return "not_in_room"
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, service.ErrJournalDisabled):
		return "journal_disabled"
	default:
		return "internal"
	}
}
