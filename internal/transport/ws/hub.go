package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/metrics"
)

// Hub: fan-out по списку хэндлов, который вернул store.
// Собственного реестра нет, получатели всегда снимок из критической секции.
type Hub struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewHub(log *slog.Logger, m *metrics.Metrics) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{log: log, metrics: m}
}

// Deliver сериализует событие один раз и кладёт во все очереди (best-effort).
// Возвращает число успешно поставленных.
func (h *Hub) Deliver(targets []domain.Handle, event any) int {
	if len(targets) == 0 {
		return 0
	}
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws marshal event failed", slog.Any("err", err))
		return 0
	}

	delivered := 0
	for _, t := range targets {
		if t.Sink == nil {
			continue
		}
		if t.Sink.Push(data) {
			delivered++
			continue
		}
		h.metrics.Dropped()
		h.log.Warn("ws delivery dropped", slog.String("client_id", t.ID.String()))
	}
	return delivered
}
