package service

import (
	"context"
	"log/slog"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/pkg/logger"
)

type SendResult struct {
	Message domain.Message
	// Peers: все подключённые, кроме отправителя.
	Peers []domain.Handle
}

// Send: ошибки (невалидный текст, переполнение истории) отдаются только
// вызывающему, рассылки нет.
func (c *Coordinator) Send(ctx context.Context, from domain.ParticipantID, rawText string) (*SendResult, error) {
	log := logger.FromContext(ctx)

	text, err := domain.NewMessageText(rawText)
	if err != nil {
		c.reject(RejectReason(err))
		log.Info("message rejected", slog.String("client_id", from.String()), slog.Any("err", err))
		return nil, err
	}

	at := c.timestamp()
	peers, err := c.store.Send(ctx, from, text, at)
	if err != nil {
		c.reject(RejectReason(err))
		log.Warn("message rejected", slog.String("client_id", from.String()), slog.Any("err", err))
		return nil, err
	}

	log.Debug("message stored",
		slog.String("client_id", from.String()),
		slog.Int("recipients", len(peers)),
	)

	return &SendResult{
		Message: domain.Message{From: from, Text: text, SentAt: at},
		Peers:   peers,
	}, nil
}
