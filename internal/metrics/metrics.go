package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwrk-planet/chat-room/internal/domain"
)

const namespace = "chat_room"

// Metrics: коллекторы комнаты на собственном registry.
// Методы безопасны для nil-получателя, чтобы сервисы работали без метрик.
type Metrics struct {
	registry *prometheus.Registry

	participants prometheus.Gauge
	messages     prometheus.Counter
	rejections   *prometheus.CounterVec
	dropped      prometheus.Counter
	journalDrops prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Participants currently connected to the room.",
		}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages accepted into the room history.",
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Rejected operations by reason.",
		}, []string{"reason"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_deliveries_total",
			Help:      "Outbound events dropped because a client queue was full or closed.",
		}),
		journalDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_dropped_total",
			Help:      "Room events not journaled because the journal queue was full.",
		}),
	}
	reg.MustRegister(
		m.participants,
		m.messages,
		m.rejections,
		m.dropped,
		m.journalDrops,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Committed вызывается store под его блокировкой, поэтому gauge всегда
// отражает последнее применённое изменение.
func (m *Metrics) Committed(ev domain.Event, participants int) {
	if m == nil {
		return
	}
	m.participants.Set(float64(participants))
	if ev.Kind == domain.EventChat {
		m.messages.Inc()
	}
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) Dropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}

func (m *Metrics) JournalDropped() {
	if m == nil {
		return
	}
	m.journalDrops.Inc()
}
