package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/errs"
	"github.com/cwrk-planet/chat-room/internal/service"
	"github.com/cwrk-planet/chat-room/pkg/logger"
)

type Handler struct {
	roomSvc *service.RoomService
	coord   *service.Coordinator
}

func NewHandler(room *service.RoomService, coord *service.Coordinator) *Handler {
	return &Handler{roomSvc: room, coord: coord}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := errs.ToHTTP(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error(op, slog.Any("err", err))
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: errs.Code(err)})
}

func participantDetails(ps []domain.Participant) []ParticipantDetail {
	return lo.Map(ps, func(p domain.Participant, _ int) ParticipantDetail {
		return ParticipantDetail{ClientID: p.ID.String(), ConnectedAt: p.JoinedAt.Format()}
	})
}

// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GET /api/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomSvc.ListRooms(r.Context())
	if err != nil {
		writeErr(w, r, "handler.ListRooms", err)
		return
	}
	resp := lo.Map(rooms, func(rm *domain.Room, _ int) RoomSummary {
		return RoomSummary{
			ID: rm.ID.String(),
			Participants: lo.Map(rm.Participants(), func(p domain.Participant, _ int) string {
				return p.ID.String()
			}),
			CreatedAt: rm.CreatedAt.Format(),
		}
	})
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/rooms/{id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomSvc.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, "handler.GetRoom", err)
		return
	}
	writeJSON(w, http.StatusOK, RoomDetail{
		ID:           room.ID.String(),
		Participants: participantDetails(room.Participants()),
		CreatedAt:    room.CreatedAt.Format(),
	})
}

// GET /api/rooms/{id}/participants
func (h *Handler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "id") != h.coord.RoomID().String() {
		writeErr(w, r, "handler.GetParticipants", domain.ErrRoomNotFound)
		return
	}
	items, err := h.coord.ListParticipants(r.Context())
	if err != nil {
		writeErr(w, r, "handler.GetParticipants", err)
		return
	}
	resp := ParticipantsResponse{Items: lo.Map(items, func(p service.ParticipantView, _ int) ParticipantDetail {
		return ParticipantDetail{ClientID: p.ID.String(), ConnectedAt: p.ConnectedAt}
	})}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/rooms/{id}/events?cursor=&limit=
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeErr(w, r, "handler.GetEvents", fmt.Errorf("%w: limit", errs.ErrInvalidInput))
			return
		}
		limit = n
	}

	items, next, err := h.roomSvc.History(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		writeErr(w, r, "handler.GetEvents", err)
		return
	}
	resp := EventsResponse{
		Items: lo.Map(items, func(ev domain.Event, _ int) EventItem {
			return EventItem{
				ID:       ev.ID,
				Seq:      ev.Seq,
				Kind:     string(ev.Kind),
				ClientID: ev.Participant.String(),
				Content:  ev.Text.String(),
				At:       ev.At.Format(),
			}
		}),
		NextCursor: next,
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /debug/room
func (h *Handler) DebugRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomSvc.GetRoom(r.Context(), h.coord.RoomID().String())
	if err != nil {
		writeErr(w, r, "handler.DebugRoom", err)
		return
	}
	writeJSON(w, http.StatusOK, DebugRoom{
		ID:                  room.ID.String(),
		CreatedAt:           room.CreatedAt.Format(),
		ParticipantCapacity: room.ParticipantCapacity(),
		MessageCapacity:     room.MessageCapacity(),
		Participants:        participantDetails(room.Participants()),
		Messages: lo.Map(room.Messages(), func(m domain.Message, _ int) DebugMessage {
			return DebugMessage{ClientID: m.From.String(), Content: m.Text.String(), SentAt: m.SentAt.Format()}
		}),
	})
}
