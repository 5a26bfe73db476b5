package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/pkg/logger"
)

type ConnectResult struct {
	Participant domain.Participant
	// Roster: все участники вместе с новым, по id по возрастанию.
	Roster []domain.Participant
	// Peers: кого уведомить о входе (без нового участника).
	Peers []domain.Handle
}

type DisconnectResult struct {
	ID    domain.ParticipantID
	At    domain.Timestamp
	Peers []domain.Handle
}

type ParticipantView struct {
	ID          domain.ParticipantID
	ConnectedAt string
}

func (c *Coordinator) Connect(ctx context.Context, rawID string, sink domain.Sink) (*ConnectResult, error) {
	log := logger.FromContext(ctx)

	id, err := domain.NewParticipantID(rawID)
	if err != nil {
		c.reject(RejectReason(err))
		log.Info("connect rejected", slog.Any("err", err))
		return nil, err
	}

	at := c.timestamp()
	peers, err := c.store.TryConnect(ctx, id, sink, at)
	if err != nil {
		c.reject(RejectReason(err))
		log.Info("connect rejected", slog.String("client_id", id.String()), slog.Any("err", err))
		return nil, err
	}

	self := domain.Participant{ID: id, JoinedAt: at}
	roster := make([]domain.Participant, 0, len(peers)+1)
	for _, h := range peers {
		roster = append(roster, domain.Participant{ID: h.ID, JoinedAt: h.ConnectedAt})
	}
	roster = append(roster, self)
	sortParticipants(roster)

	log.Info("participant connected",
		slog.String("client_id", id.String()),
		slog.Int("participants", len(roster)),
	)

	return &ConnectResult{Participant: self, Roster: roster, Peers: peers}, nil
}

// Disconnect: неизвестный id логируется и возвращает ErrNotInRoom,
// состояние не меняется.
func (c *Coordinator) Disconnect(ctx context.Context, id domain.ParticipantID) (*DisconnectResult, error) {
	log := logger.FromContext(ctx)

	at := c.timestamp()
	peers, err := c.store.Disconnect(ctx, id, at)
	if err != nil {
		if errors.Is(err, domain.ErrNotInRoom) {
			log.Warn("disconnect of unknown participant", slog.String("client_id", id.String()))
		} else {
			log.Error("disconnect failed", slog.String("client_id", id.String()), slog.Any("err", err))
		}
		return nil, err
	}

	log.Info("participant disconnected",
		slog.String("client_id", id.String()),
		slog.Int("participants", len(peers)),
	)

	return &DisconnectResult{ID: id, At: at, Peers: peers}, nil
}

// ListParticipants: снимок участников, отсортированный по id.
func (c *Coordinator) ListParticipants(ctx context.Context) ([]ParticipantView, error) {
	room, err := c.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ps := room.Participants()
	sortParticipants(ps)

	out := make([]ParticipantView, 0, len(ps))
	for _, p := range ps {
		out = append(out, ParticipantView{ID: p.ID, ConnectedAt: p.JoinedAt.Format()})
	}
	return out, nil
}

func sortParticipants(ps []domain.Participant) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
}
