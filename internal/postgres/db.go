package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Журналу нужно одно соединение под writer и пара под чтение /events.
const (
	defaultMaxConns         = 4
	defaultMinConns         = 1
	defaultConnectTimeout   = 5 * time.Second
	defaultStatementTimeout = 2 * time.Second
	defaultApplicationName  = "chat-room-journal"
)

type Config struct {
	DSN      string
	MaxConns int32
	// StatementTimeout уходит в statement_timeout сессии: зависший INSERT
	// не держит соединение дольше, чем writer ждёт Append.
	StatementTimeout time.Duration
	ConnectTimeout   time.Duration
	ApplicationName  string
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	pc.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = min(defaultMinConns, pc.MaxConns)

	pc.ConnConfig.ConnectTimeout = defaultConnectTimeout
	if cfg.ConnectTimeout > 0 {
		pc.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	stmt := defaultStatementTimeout
	if cfg.StatementTimeout > 0 {
		stmt = cfg.StatementTimeout
	}
	app := cfg.ApplicationName
	if app == "" {
		app = defaultApplicationName
	}
	if pc.ConnConfig.RuntimeParams == nil {
		pc.ConnConfig.RuntimeParams = map[string]string{}
	}
	pc.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(stmt.Milliseconds(), 10)
	pc.ConnConfig.RuntimeParams["application_name"] = app
	return pc, nil
}

// NewPool: пул для журнала, с проверкой Ping().
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return pool.Ping(ctx)
}
