package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is a single presence WebSocket connection.
type Client interface {
	// Connect dials the presence endpoint. On success the client is Open.
	Connect(ctx context.Context) error

	// Close gracefully closes the connection. Safe to call more than once.
	Close() error

	// Send writes raw bytes to the connection.
	Send(data []byte) error

	// SendJSON encodes v and sends it as a text frame.
	SendJSON(v any) error

	// Messages returns a channel of inbound messages.
	Messages() <-chan TimestampedMessage

	// Transitions returns the state change channel. It is closed after the
	// client reaches Closed through Close.
	Transitions() <-chan Transition

	// Errors returns a channel of connection errors.
	Errors() <-chan error

	// State returns the current connection state.
	State() State
}

// client implements the Client interface.
type client struct {
	cfg    ClientConfig
	logger *slog.Logger

	conn *websocket.Conn

	// Output channels
	messages    chan TimestampedMessage
	transitions chan Transition
	errors      chan error
	done        chan struct{}

	// Write serialization
	writeMu sync.Mutex

	// State
	mu         sync.RWMutex
	state      State
	lastPingAt time.Time
	closed     bool
}

// NewClient creates a new presence client in the Disconnected state.
func NewClient(cfg ClientConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultClientConfig().BufferSize
	}

	return &client{
		cfg:         cfg,
		logger:      logger,
		messages:    make(chan TimestampedMessage, cfg.BufferSize),
		transitions: make(chan Transition, transitionBuffer),
		errors:      make(chan error, 1),
		done:        make(chan struct{}),
		state:       StateDisconnected,
	}
}

// DialURL returns the presence URL with the platform query parameter set.
func DialURL(base, platform string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse presence url: %w", err)
	}
	if platform != "" {
		q := u.Query()
		q.Set("platform", platform)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Connect establishes the WebSocket connection.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	if err := c.transitionLocked(StateConnecting, nil); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	target, err := DialURL(c.cfg.URL, c.cfg.Platform)
	if err != nil {
		c.setState(StateDisconnected, err)
		return err
	}

	// Build headers
	header := http.Header{}
	if token := strings.TrimPrefix(c.cfg.Token, "JWT "); token != "" {
		header.Set("Cookie", (&http.Cookie{Name: "JWT", Value: token}).String())
	}

	// Dial with context
	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		err = fmt.Errorf("dial presence: %w", err)
		c.setState(StateDisconnected, err)
		return err
	}

	c.mu.Lock()
	if c.closed {
		// Closed while dialing.
		c.mu.Unlock()
		conn.Close()
		return ErrAlreadyClosed
	}
	c.conn = conn
	c.lastPingAt = time.Now()
	c.transitionLocked(StateOpen, nil)
	c.mu.Unlock()

	// Set up ping handler - server sends ping, we respond with pong
	conn.SetPingHandler(func(data string) error {
		c.touch()
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	// Set up pong handler - server responds to our ping
	conn.SetPongHandler(func(data string) error {
		c.touch()
		return nil
	})

	// Start goroutines
	go c.readLoop(conn)
	go c.heartbeatLoop(conn)

	c.logger.Debug("presence connected", "url", target)

	return nil
}

// Close gracefully closes the connection.
func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.state != StateClosed {
		c.transitionLocked(StateClosed, nil)
	}
	close(c.transitions)
	conn := c.conn
	c.mu.Unlock()

	// Signal goroutines to stop
	close(c.done)

	// Close the WebSocket connection
	if conn != nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return conn.Close()
	}

	return nil
}

// Send writes raw bytes to the connection.
func (c *client) Send(data []byte) error {
	c.mu.RLock()
	if c.state != StateOpen {
		c.mu.RUnlock()
		return ErrNotConnected
	}
	conn := c.conn
	c.mu.RUnlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// SendJSON encodes v and sends it.
func (c *client) SendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return c.Send(data)
}

// Messages returns the messages channel.
func (c *client) Messages() <-chan TimestampedMessage {
	return c.messages
}

// Transitions returns the transitions channel.
func (c *client) Transitions() <-chan Transition {
	return c.transitions
}

// Errors returns the errors channel.
func (c *client) Errors() <-chan error {
	return c.errors
}

// State returns the current connection state.
func (c *client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// setState applies a transition, taking the lock.
func (c *client) setState(to State, cause error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitionLocked(to, cause)
}

// transitionLocked validates and applies a transition, then publishes it.
// Caller must hold c.mu.
func (c *client) transitionLocked(to State, cause error) error {
	from := c.state
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	c.state = to

	select {
	case c.transitions <- Transition{From: from, To: to, Err: cause, At: time.Now()}:
	default:
		c.logger.Warn("transition buffer full, dropping transition", "from", from, "to", to)
	}

	c.logger.Debug("presence state changed", "from", from, "to", to, "err", cause)
	return nil
}

// touch records liveness from the server.
func (c *client) touch() {
	c.mu.Lock()
	c.lastPingAt = time.Now()
	c.mu.Unlock()
}

// fail moves an open connection to Closed and reports err.
func (c *client) fail(err error) {
	c.mu.Lock()
	if c.closed || c.state != StateOpen {
		c.mu.Unlock()
		return
	}
	c.transitionLocked(StateClosed, err)
	c.mu.Unlock()

	select {
	case c.errors <- err:
	default:
	}
}

// readLoop reads messages until the connection fails or is closed.
// Inbound traffic is informational only and is logged at debug level.
func (c *client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		receivedAt := time.Now() // Capture timestamp immediately

		if err != nil {
			// Ignore errors after Close() is called
			select {
			case <-c.done:
			default:
				c.fail(err)
			}
			return
		}

		var env Message
		if json.Unmarshal(data, &env) == nil {
			c.logger.Debug("presence message", "type", env.Type, "payload", string(env.Payload))
		} else {
			c.logger.Debug("presence message", "raw", string(data))
		}

		msg := TimestampedMessage{
			Data:       data,
			ReceivedAt: receivedAt,
		}

		select {
		case c.messages <- msg:
		case <-c.done:
			return
		default:
			c.logger.Debug("message buffer full, dropping message")
		}
	}
}

// heartbeatLoop sends keepalive pings and watches for a stale connection.
func (c *client) heartbeatLoop(conn *websocket.Conn) {
	interval := c.cfg.PingInterval
	if interval <= 0 {
		interval = DefaultClientConfig().PingInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			// Send a ping to keep connection alive
			deadline := time.Now().Add(c.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
			}

			// Check for stale connection (no pong/ping response)
			c.mu.RLock()
			lastPing := c.lastPingAt
			c.mu.RUnlock()

			if c.cfg.PingTimeout > 0 && time.Since(lastPing) > c.cfg.PingTimeout {
				c.logger.Warn("no ping received, connection stale",
					"last_ping", lastPing,
					"timeout", c.cfg.PingTimeout,
				)
				c.fail(ErrStaleConnection)
				// Unblocks readLoop.
				conn.Close()
				return
			}
		}
	}
}
