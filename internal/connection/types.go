package connection

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Errors
var (
	ErrNotConnected      = errors.New("not connected")
	ErrStaleConnection   = errors.New("connection stale (no ping)")
	ErrAlreadyClosed     = errors.New("already closed")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// State is the lifecycle state of a presence connection.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// allowedTransitions lists the legal moves. Open is only reachable from
// Connecting, and Closed is terminal.
var allowedTransitions = map[State][]State{
	StateDisconnected: {StateConnecting, StateClosed},
	StateConnecting:   {StateOpen, StateDisconnected, StateClosed},
	StateOpen:         {StateClosed},
}

// CanTransition reports whether a connection may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition is a single state change. Err is set when the change was
// caused by a failure.
type Transition struct {
	From State
	To   State
	Err  error
	At   time.Time
}

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Message is the envelope used in both directions on the presence channel.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Command is an outbound presence message.
type Command struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// CommandSetStatus changes the account's presence status.
const CommandSetStatus = "set_status"

// SetStatusCommand builds the set_status message for status.
func SetStatusCommand(status string) Command {
	return Command{Type: CommandSetStatus, Payload: status}
}

// ClientConfig configures a presence client.
type ClientConfig struct {
	URL              string        // WebSocket URL (e.g., wss://warframe.market/socket)
	Platform         string        // Sent as the platform query parameter
	Token            string        // Session token, with or without the "JWT " prefix
	PingInterval     time.Duration // How often keepalive pings are sent
	PingTimeout      time.Duration // Max time without ping/pong before considering connection stale
	WriteTimeout     time.Duration // Write deadline for sends
	HandshakeTimeout time.Duration // Dial handshake limit
	BufferSize       int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		URL:              "wss://warframe.market/socket",
		Platform:         "pc",
		PingInterval:     30 * time.Second,
		PingTimeout:      90 * time.Second,
		WriteTimeout:     5 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		BufferSize:       64,
	}
}

// transitionBuffer is the capacity of the Transitions channel. A client makes
// at most three transitions in its life.
const transitionBuffer = 8
