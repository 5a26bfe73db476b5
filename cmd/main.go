package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/chat-room/config"
	"github.com/cwrk-planet/chat-room/internal/badgerdb"
	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/journal"
	"github.com/cwrk-planet/chat-room/internal/memory"
	"github.com/cwrk-planet/chat-room/internal/metrics"
	"github.com/cwrk-planet/chat-room/internal/postgres"
	"github.com/cwrk-planet/chat-room/internal/service"
	grpcx "github.com/cwrk-planet/chat-room/internal/transport/grpc"
	httpx "github.com/cwrk-planet/chat-room/internal/transport/http"
	"github.com/cwrk-planet/chat-room/internal/transport/ws"
	"github.com/cwrk-planet/chat-room/pkg/logger"
)

const probeInterval = 10 * time.Second

type journalBackend interface {
	journal.Appender
	service.Journal
	io.Closer
}

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		Level:     logger.ParseLevel(cfg.Logging.Level),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- room ---
	roomID := domain.RoomID(cfg.Room.ID)
	if cfg.Room.RandomID {
		roomID = domain.NewRoomID()
	}
	room := domain.NewRoom(roomID, domain.TimestampOf(time.Now()),
		cfg.Room.ParticipantCapacity, cfg.Room.MessageCapacity)

	lg.Info("starting chat-room",
		slog.String("env", cfg.Logging.Env),
		slog.String("version", cfg.Logging.Version),
		slog.String("room", roomID.String()),
		slog.Int("participant_capacity", room.ParticipantCapacity()),
		slog.Int("message_capacity", room.MessageCapacity()),
		slog.String("journal", cfg.Journal.Backend),
	)

	// --- journal ---
	jr, ping, err := openJournal(ctx, cfg, lg)
	if err != nil {
		lg.Error("journal", slog.Any("err", err))
		os.Exit(1)
	}

	m := metrics.New()
	observers := []memory.Observer{m}
	var history service.Journal
	if jr != nil {
		defer func() {
			if err := jr.Close(); err != nil {
				lg.Warn("journal close", slog.Any("err", err))
			}
		}()

		writer := journal.NewWriter(jr, lg,
			journal.WithQueueSize(cfg.Journal.QueueSize),
			journal.WithAppendTimeout(cfg.Journal.AppendTimeoutOr()),
			journal.WithMetrics(m),
		)
		writerCtx, stopWriter := context.WithCancel(context.Background())
		go writer.Run(writerCtx)
		// до jr.Close: дописываем очередь
		defer func() {
			stopWriter()
			<-writer.Done()
		}()

		observers = append(observers, writer)
		history = jr
	}

	// --- services ---
	store := memory.NewRoomStore(room, observers...)
	coord := service.NewCoordinator(roomID, store, service.WithMetrics(m))
	roomSvc := service.NewRoomService(roomID, store, history)

	// --- WS ---
	hub := ws.NewHub(lg, m)
	wsServer := ws.NewServer(hub, coord, ws.Config{
		SendQueue:       cfg.WS.SendQueue,
		WriteTimeout:    cfg.WS.WriteTimeoutOr(),
		PingInterval:    cfg.WS.PingIntervalOr(),
		MaxMessageBytes: cfg.WS.MaxMessageBytes,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
	})

	// --- HTTP ---
	handler := httpx.NewHandler(roomSvc, coord)
	router := httpx.NewRouter(handler, wsServer.HandleWS, httpx.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Debug:          cfg.HTTP.Debug,
		Metrics:        m.Handler(),
	})
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeoutOr(),
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return logger.WithContext(context.Background(), lg) },
	}

	// --- gRPC (health) ---
	grpcSrv := grpcx.NewServer(func(ctx context.Context) error {
		if _, err := store.Snapshot(ctx); err != nil {
			return err
		}
		if ping != nil {
			return ping(ctx)
		}
		return nil
	}, lg)

	// --- run both servers ---
	errCh := make(chan error, 2)

	go func() {
		lg.Info("http listen", slog.String("addr", cfg.HTTP.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr)
		if err != nil {
			errCh <- err
			return
		}
		lg.Info("grpc listen", slog.String("addr", cfg.GRPC.Addr))
		if err := grpcSrv.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	go func() {
		t := time.NewTicker(probeInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				grpcSrv.Refresh(ctx)
			}
		}
	}()

	// --- graceful shutdown ---
	select {
	case <-ctx.Done():
		lg.Info("shutdown signal")
	case err := <-errCh:
		lg.Error("server error", slog.Any("err", err))
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeoutOr())
	defer cancel()

	// hijacked ws-соединения Shutdown не ждёт, закрываем их сами
	wsServer.Close()
	grpcSrv.Stop()
	if err := httpSrv.Shutdown(ctxShutdown); err != nil {
		lg.Warn("http shutdown", slog.Any("err", err))
	}
	lg.Info("stopped")
}

// openJournal: nil journal для backend=none.
func openJournal(ctx context.Context, cfg *config.Config, lg *slog.Logger) (journalBackend, func(context.Context) error, error) {
	switch cfg.Journal.Backend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, postgres.Config{
			DSN:              cfg.Postgres.DSN,
			MaxConns:         cfg.Postgres.MaxConns,
			StatementTimeout: cfg.Journal.AppendTimeoutOr(),
			ApplicationName:  cfg.Logging.Service,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewJournalRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, func(ctx context.Context) error { return postgres.Ping(ctx, pool) }, nil
	case "badger":
		repo, err := badgerdb.Open(cfg.Journal.BadgerPath, lg)
		if err != nil {
			return nil, nil, err
		}
		return repo, nil, nil
	default:
		return nil, nil, nil
	}
}
