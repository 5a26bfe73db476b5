package journal

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/metrics"
)

const (
	defaultQueueSize     = 1024
	defaultAppendTimeout = 2 * time.Second
)

// Appender: бэкенд журнала (postgres или badger).
type Appender interface {
	Append(ctx context.Context, ev domain.Event) error
}

// Writer: очередь событий в порядке коммита store и одна горутина записи.
// Committed вызывается под блокировкой store: только неблокирующая запись
// в канал, никакого I/O.
type Writer struct {
	app     Appender
	log     *slog.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	queue   chan domain.Event
	dropped atomic.Int64
	done    chan struct{}
}

type WriterOption func(*Writer)

func WithQueueSize(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.queue = make(chan domain.Event, n)
		}
	}
}

func WithAppendTimeout(d time.Duration) WriterOption {
	return func(w *Writer) {
		if d > 0 {
			w.timeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) WriterOption {
	return func(w *Writer) { w.metrics = m }
}

func NewWriter(app Appender, log *slog.Logger, opts ...WriterOption) *Writer {
	if log == nil {
		log = slog.Default()
	}
	w := &Writer{
		app:     app,
		log:     log,
		timeout: defaultAppendTimeout,
		queue:   make(chan domain.Event, defaultQueueSize),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Committed: очередь полна, событие теряется и считается.
func (w *Writer) Committed(ev domain.Event, _ int) {
	select {
	case w.queue <- ev:
	default:
		w.dropped.Add(1)
		w.metrics.JournalDropped()
	}
}

// Run пишет события до отмены ctx, затем дописывает то, что уже в очереди.
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case ev := <-w.queue:
			w.write(ev)
		case <-ctx.Done():
			for {
				select {
				case ev := <-w.queue:
					w.write(ev)
				default:
					return
				}
			}
		}
	}
}

// Done закрывается, когда Run вернулся.
func (w *Writer) Done() <-chan struct{} { return w.done }

func (w *Writer) write(ev domain.Event) {
	if n := w.dropped.Swap(0); n > 0 {
		w.log.Warn("journal queue full, events dropped", slog.Int64("count", n))
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.app.Append(ctx, ev); err != nil {
		w.log.Warn("journal append failed",
			slog.String("kind", string(ev.Kind)),
			slog.String("client_id", ev.Participant.String()),
			slog.Any("err", err),
		)
	}
}
