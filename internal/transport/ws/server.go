package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cwrk-planet/chat-room/internal/domain"
	"github.com/cwrk-planet/chat-room/internal/errs"
	"github.com/cwrk-planet/chat-room/internal/service"
	"github.com/cwrk-planet/chat-room/pkg/logger"
)

type Coordinator interface {
	Connect(ctx context.Context, rawID string, sink domain.Sink) (*service.ConnectResult, error)
	Disconnect(ctx context.Context, id domain.ParticipantID) (*service.DisconnectResult, error)
	Send(ctx context.Context, from domain.ParticipantID, rawText string) (*service.SendResult, error)
}

type Config struct {
	SendQueue       int
	WriteTimeout    time.Duration
	PingInterval    time.Duration
	MaxMessageBytes int64
	// AllowedOrigins пустой или "*": любой origin
	AllowedOrigins []string
}

func (c Config) withDefaults() Config {
	if c.SendQueue <= 0 {
		c.SendQueue = defaultSendQueue
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 15 * time.Second
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = 64 << 10
	}
	return c
}

var errClientGone = errors.New("client closed")

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	coord    Coordinator
	cfg      Config

	stop chan struct{}
}

func NewServer(hub *Hub, coord Coordinator, cfg Config) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		hub:   hub,
		coord: coord,
		cfg:   cfg,
		stop:  make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Close рвёт все активные соединения, без ожидания очередей.
func (s *Server) Close() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.cfg.AllowedOrigins) == 0 || slices.Contains(s.cfg.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, origin)
}

// WS endpoint: GET /ws?client_id=...
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rawID := r.URL.Query().Get("client_id")
	log := logger.FromContext(ctx).With(slog.String("client_id", rawID))

	// 0. запрос, который upgrader всё равно отклонит, в комнату не пускаем
	if status, reason := s.precheck(r); status != 0 {
		log.Info("ws handshake refused", slog.Int("status", status), slog.String("reason", reason))
		http.Error(w, reason, status)
		return
	}

	// 1. вход в комнату до upgrade: отказ уходит обычным HTTP-статусом
	client := NewClient(domain.ParticipantID(rawID), s.cfg.SendQueue)
	res, err := s.coord.Connect(ctx, rawID, client)
	if err != nil {
		writeError(w, err)
		return
	}
	id := res.Participant.ID
	// не отменяется вместе с запросом: выход из комнаты нужен всегда.
	// client_id в контекстный логгер не кладём, координатор добавляет его сам
	bg := context.WithoutCancel(ctx)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("ws upgrade failed", slog.Any("err", err))
		s.leave(bg, id)
		return
	}

	// 2. снапшот пишем в сокет напрямую, до старта writeLoop
	_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	if err := conn.WriteJSON(NewRoomConnected(res.Roster)); err != nil {
		log.Warn("ws send room-connected failed", slog.Any("err", err))
		_ = conn.Close()
		s.leave(bg, id)
		return
	}

	// 3. остальным: participant-joined
	s.hub.Deliver(res.Peers, NewParticipantJoined(res.Participant))

	// 4. пара задач: кто первый завершился, тот отменяет вторую
	g, gctx := errgroup.WithContext(bg)
	g.Go(func() error { return s.readLoop(gctx, conn, client) })
	g.Go(func() error { return s.writeLoop(gctx, conn, client) })
	if err := g.Wait(); err != nil && !isNormalClose(err) {
		log.Debug("ws session ended", slog.Any("err", err))
	}

	// 5. выход и participant-left оставшимся
	s.leave(bg, id)
}

// leave: участник мог попасть в снапшот тех, кто вошёл за это время,
// поэтому participant-left рассылается при любом выходе после Connect.
func (s *Server) leave(ctx context.Context, id domain.ParticipantID) {
	out, err := s.coord.Disconnect(ctx, id)
	if err != nil {
		return
	}
	s.hub.Deliver(out.Peers, NewParticipantLeft(id, out.At))
}

// precheck повторяет проверки websocket.Upgrader, которые не зависят от I/O.
func (s *Server) precheck(r *http.Request) (int, string) {
	switch {
	case r.Method != http.MethodGet:
		return http.StatusMethodNotAllowed, "websocket: method not GET"
	case !websocket.IsWebSocketUpgrade(r):
		return http.StatusBadRequest, "websocket: upgrade required"
	case r.Header.Get("Sec-Websocket-Version") != "13":
		return http.StatusBadRequest, "websocket: unsupported version"
	case r.Header.Get("Sec-Websocket-Key") == "":
		return http.StatusBadRequest, "websocket: missing key"
	case !s.checkOrigin(r):
		return http.StatusForbidden, "websocket: origin not allowed"
	}
	return 0, ""
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, c *Client) error {
	defer c.Close()

	pongWait := 2 * s.cfg.PingInterval
	conn.SetReadLimit(s.cfg.MaxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if typ != websocket.TextMessage {
			continue
		}
		s.handleInbound(ctx, c, data)
	}
}

func (s *Server) handleInbound(ctx context.Context, c *Client, data []byte) {
	content, ok := ParseInbound(data)
	if !ok {
		return
	}

	// отправитель всегда id этого соединения
	res, err := s.coord.Send(ctx, c.ID, content)
	if err != nil {
		s.reply(c, ErrorMessage{Type: TypeError, Code: errs.Code(err), Message: err.Error()})
		return
	}
	s.hub.Deliver(res.Peers, NewChat(res.Message))
}

// reply: только отправителю, через его же очередь.
func (s *Server) reply(c *Client, msg ErrorMessage) {
	s.hub.Deliver([]domain.Handle{{ID: c.ID, Sink: c}}, msg)
}

func (s *Server) writeLoop(ctx context.Context, conn *websocket.Conn, c *Client) error {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()
	// закрытие сокета разблокирует ReadMessage в readLoop
	defer func() { _ = conn.Close() }()
	defer c.Close()

	for {
		select {
		case msg := <-c.Queue():
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				return err
			}
		case <-c.Done():
			return errClientGone
		case <-s.stop:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(time.Second))
			return errClientGone
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func isNormalClose(err error) bool {
	return errors.Is(err, errClientGone) ||
		errors.Is(err, context.Canceled) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errs.ToHTTP(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error(), "code": errs.Code(err)})
}
