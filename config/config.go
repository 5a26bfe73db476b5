package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type GRPC struct {
	Addr string `yaml:"addr" validate:"required"`
}

type HTTP struct {
	Addr              string `yaml:"addr" validate:"required"`
	Debug             bool   `yaml:"debug"`             // включает /debug/room
	ReadHeaderTimeout string `yaml:"readHeaderTimeout"` // 5s
	ShutdownTimeout   string `yaml:"shutdownTimeout"`   // 10s
}

// Logging: env dev|stage|prod, backend std|zap, level debug|info|warn|error.
type Logging struct {
	Env       string `yaml:"env" validate:"omitempty,oneof=dev stage prod"`
	Service   string `yaml:"service"`
	Version   string `yaml:"version"`
	Backend   string `yaml:"backend" validate:"omitempty,oneof=std zap"`
	Level     string `yaml:"level"`
	AddSource bool   `yaml:"addSource"`
	Debug     bool   `yaml:"debug"`
}

type Room struct {
	ID                  string `yaml:"id" validate:"max=100"`
	RandomID            bool   `yaml:"randomID"` // uuid вместо id
	ParticipantCapacity int    `yaml:"participantCapacity" validate:"gte=1"`
	MessageCapacity     int    `yaml:"messageCapacity" validate:"gte=1"`
}

type WS struct {
	SendQueue       int    `yaml:"sendQueue" validate:"gte=1"`
	WriteTimeout    string `yaml:"writeTimeout"`
	PingInterval    string `yaml:"pingInterval"`
	MaxMessageBytes int64  `yaml:"maxMessageBytes" validate:"gte=1"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type Journal struct {
	Backend    string `yaml:"backend" validate:"oneof=none postgres badger"`
	BadgerPath string `yaml:"badgerPath" validate:"required_if=Backend badger"`
	QueueSize  int    `yaml:"queueSize" validate:"gte=0"` // 0: 1024

	// AppendTimeout ограничивает одну запись, в postgres это же statement_timeout
	AppendTimeout string `yaml:"appendTimeout"`
}

type Postgres struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns" validate:"gte=0"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	GRPC     GRPC     `yaml:"grpc"`
	Logging  Logging  `yaml:"logging"`
	Room     Room     `yaml:"room"`
	WS       WS       `yaml:"ws"`
	CORS     CORS     `yaml:"cors"`
	Journal  Journal  `yaml:"journal"`
	Postgres Postgres `yaml:"postgres"`
}

// LoadConfig: .env (если есть), затем YAML из CONFIG_PATH.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	return Load(path)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// секреты не держим в yaml
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	// установка дефолтов, если значения не указаны
	if c.Logging.Service == "" {
		c.Logging.Service = "chat-room"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Room.ID == "" {
		c.Room.ID = "default"
	}
	if c.Room.ParticipantCapacity == 0 {
		c.Room.ParticipantCapacity = 10
	}
	if c.Room.MessageCapacity == 0 {
		c.Room.MessageCapacity = 100
	}
	if c.WS.SendQueue == 0 {
		c.WS.SendQueue = 64
	}
	if c.WS.MaxMessageBytes == 0 {
		c.WS.MaxMessageBytes = 64 << 10
	}
	if c.Journal.Backend == "" {
		c.Journal.Backend = "none"
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Journal.Backend == "postgres" && c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required for journal.backend=postgres")
	}
	return nil
}

func (h HTTP) ReadHeaderTimeoutOr() time.Duration {
	return parseDurationOr(5*time.Second, h.ReadHeaderTimeout)
}

func (h HTTP) ShutdownTimeoutOr() time.Duration {
	return parseDurationOr(10*time.Second, h.ShutdownTimeout)
}

func (w WS) WriteTimeoutOr() time.Duration { return parseDurationOr(5*time.Second, w.WriteTimeout) }

func (w WS) PingIntervalOr() time.Duration { return parseDurationOr(15*time.Second, w.PingInterval) }

func (j Journal) AppendTimeoutOr() time.Duration { return parseDurationOr(2*time.Second, j.AppendTimeout) }

// helper для парсинга timeout-ов
func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
