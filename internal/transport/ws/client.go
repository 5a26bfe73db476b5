package ws

import (
	"sync"

	"github.com/cwrk-planet/chat-room/internal/domain"
)

const defaultSendQueue = 64

// Client: одна WS-сессия. Очередь send ограничена и никогда не закрывается,
// чтобы параллельные рассылки не паниковали; остановка идёт через done.
type Client struct {
	ID domain.ParticipantID

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

var _ domain.Sink = (*Client)(nil)

func NewClient(id domain.ParticipantID, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = defaultSendQueue
	}
	return &Client{
		ID:   id,
		send: make(chan []byte, queueSize),
		done: make(chan struct{}),
	}
}

// Push не блокируется: false, если очередь полна или клиент закрыт.
func (c *Client) Push(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) Queue() <-chan []byte { return c.send }

func (c *Client) Done() <-chan struct{} { return c.done }

// Close идемпотентен.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
