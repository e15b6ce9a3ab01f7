package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size
	maxMessageSize = 1024

	// Buffer size for outgoing messages
	sendBufferSize = 16
)

// Client is one realtime connection: a websocket plus its session machine.
// The read pump feeds frames to the machine and applies the resulting
// effects; the write pump owns all writes to the socket.
type Client struct {
	conn        *websocket.Conn
	addr        string
	connectedAt time.Time

	hub         *Hub
	registry    *Registry
	limiter     *Limiter
	broadcaster *Broadcaster
	machine     *Machine
	logger      *slog.Logger

	send      chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, addr string, hub *Hub, registry *Registry, limiter *Limiter, broadcaster *Broadcaster, machine *Machine, logger *slog.Logger) *Client {
	return &Client{
		conn:        conn,
		addr:        addr,
		connectedAt: time.Now(),
		hub:         hub,
		registry:    registry,
		limiter:     limiter,
		broadcaster: broadcaster,
		machine:     machine,
		logger:      logger,
		send:        make(chan []byte, sendBufferSize),
		closed:      make(chan struct{}),
	}
}

// run services the connection until it closes; it blocks the caller
func (c *Client) run() {
	c.hub.Register(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer c.teardown()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("read failed", slog.String("addr", c.addr), slog.Any("error", err))
			}
			return
		}

		effects := c.machine.Handle(context.Background(), raw)
		if !c.apply(effects) {
			return
		}
	}
}

// apply carries out the machine's effects in order; it reports false once
// the connection should stop reading
func (c *Client) apply(effects []Effect) bool {
	for _, eff := range effects {
		switch e := eff.(type) {
		case EffectUnbind:
			// The broadcast effect that follows announces the departure
			c.registry.Unbind(e.Username, c)

		case EffectBind:
			prev, ok := c.registry.Bind(e.Username, c)
			if !ok {
				c.enqueueJSON(ErrorMessage{Type: MessageTypeError, Error: errSessionActive})
				c.close()
				return false
			}
			if prev != nil {
				c.logger.Info("session superseded",
					slog.String("username", e.Username),
					slog.String("addr", c.addr))
				prev.close()
			}

		case EffectSendInit:
			c.enqueueJSON(InitMessage{Type: MessageTypeInit, Player: e.Player})

		case EffectSendError:
			c.enqueueJSON(ErrorMessage{Type: MessageTypeError, Error: e.Message})

		case EffectClose:
			c.close()
			return false

		case EffectBroadcastNow:
			c.broadcaster.BroadcastNow(context.Background())

		case EffectBroadcastThrottled:
			c.broadcaster.BroadcastThrottled()
		}
	}
	return true
}

// teardown releases everything this connection holds: its session binding
// (announcing the departure), its admission slot, and its hub membership
func (c *Client) teardown() {
	if username := c.machine.Username(); username != "" {
		if c.registry.Unbind(username, c) {
			c.broadcaster.BroadcastNow(context.Background())
		}
	}
	c.limiter.Release(c.addr)
	c.hub.Unregister(c)
	c.close()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.closed:
			// Drain frames queued before the close, then shut the socket.
			// Nobody closes the send channel; the closed signal is the only
			// way a connection ends, so late enqueues cannot panic.
			for {
				select {
				case message := <-c.send:
					_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
						return
					}
				default:
					c.writeClose()
					return
				}
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeClose() {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// close signals the write pump to drain and shut the socket; safe to call
// from any goroutine, repeatedly
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

func (c *Client) enqueueJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("message marshal failed", slog.Any("error", err))
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("message dropped - client buffer full", slog.String("addr", c.addr))
	}
}
