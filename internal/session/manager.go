package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/awnumar/memguard"

	"github.com/rickgao/market-pricer/internal/api"
	"github.com/rickgao/market-pricer/internal/auth"
	"github.com/rickgao/market-pricer/internal/connection"
	"github.com/rickgao/market-pricer/internal/model"
)

// AuthClient exchanges credentials for a session token.
type AuthClient interface {
	SignIn(ctx context.Context, email, password, deviceID string) (*api.SignInResult, error)
}

// ProfileClient reads public profiles.
type ProfileClient interface {
	GetProfile(ctx context.Context, username string) (*model.Profile, error)
}

// Dialer creates an unconnected presence client.
type Dialer func(cfg connection.ClientConfig, logger *slog.Logger) connection.Client

// Config configures a Manager.
type Config struct {
	Presence    connection.ClientConfig // Token is filled in per dial
	OpenTimeout time.Duration           // Bound on reaching Open
	SettleDelay time.Duration           // Wait between sending a status and confirming it
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Presence:    connection.DefaultClientConfig(),
		OpenTimeout: 5 * time.Second,
		SettleDelay: time.Second,
	}
}

// Session is a snapshot of the signed-in account.
type Session struct {
	User            model.User
	Platform        string
	AuthenticatedAt time.Time
}

// Manager holds at most one session at a time. Mutating operations are
// serialized; AuthToken and the state accessors may be called concurrently.
type Manager struct {
	auth     AuthClient
	profiles ProfileClient
	dial     Dialer
	cfg      Config
	logger   *slog.Logger

	// opMu serializes Authenticate, EnsurePresenceOpen, SetStatus and Logout.
	opMu sync.Mutex

	mu       sync.RWMutex
	token    *memguard.Enclave
	session  *Session
	presence connection.Client
	status   model.Status

	transitions chan connection.Transition
	forwarders  sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDialer replaces the presence client constructor.
func WithDialer(d Dialer) Option {
	return func(m *Manager) {
		m.dial = d
	}
}

// NewManager creates a Manager with no session.
func NewManager(authClient AuthClient, profiles ProfileClient, cfg Config, opts ...Option) *Manager {
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = DefaultConfig().OpenTimeout
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}

	m := &Manager{
		auth:        authClient,
		profiles:    profiles,
		dial:        connection.NewClient,
		cfg:         cfg,
		logger:      slog.Default(),
		transitions: make(chan connection.Transition, 32),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Authenticate signs in with creds and replaces any existing session.
func (m *Manager) Authenticate(ctx context.Context, creds *auth.Credentials) (*Session, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if creds == nil {
		return nil, &AuthError{Reason: "no credentials"}
	}
	password, err := creds.Password()
	if err != nil {
		return nil, &AuthError{Reason: "credentials unavailable", Err: err}
	}

	res, err := m.auth.SignIn(ctx, creds.Email, password, creds.DeviceID)
	if err != nil {
		reason := "sign in rejected"
		if errors.Is(err, api.ErrMissingToken) {
			reason = "missing authorization token"
		}
		return nil, &AuthError{Reason: reason, Err: err}
	}
	if res.Token == "" {
		return nil, &AuthError{Reason: "missing authorization token", Err: api.ErrMissingToken}
	}

	// A new sign-in invalidates the old presence connection.
	m.closePresence()

	s := &Session{
		User:            res.User,
		Platform:        m.cfg.Presence.Platform,
		AuthenticatedAt: time.Now(),
	}

	m.mu.Lock()
	m.token = memguard.NewEnclave([]byte(res.Token))
	m.session = s
	m.status = ""
	m.mu.Unlock()

	m.logger.Info("signed in", "user", res.User.InGameName, "platform", s.Platform)

	out := *s
	return &out, nil
}

// AuthToken returns the session token. It satisfies api.TokenSource.
func (m *Manager) AuthToken() (string, error) {
	m.mu.RLock()
	enclave := m.token
	m.mu.RUnlock()

	if enclave == nil {
		return "", ErrNoSession
	}
	buf, err := enclave.Open()
	if err != nil {
		return "", fmt.Errorf("open token enclave: %w", err)
	}
	defer buf.Destroy()
	return string(buf.Bytes()), nil
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != nil && m.session != nil
}

// CurrentUser returns the signed-in user.
func (m *Manager) CurrentUser() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return model.User{}, false
	}
	return m.session.User, true
}

// Status returns the last confirmed presence status, or "" if none.
func (m *Manager) Status() model.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// State returns the presence connection state.
func (m *Manager) State() connection.State {
	m.mu.RLock()
	p := m.presence
	m.mu.RUnlock()

	if p == nil {
		return connection.StateDisconnected
	}
	return p.State()
}

// Transitions returns the presence state changes of every connection this
// Manager dials. Changes are dropped when nobody reads.
func (m *Manager) Transitions() <-chan connection.Transition {
	return m.transitions
}

// EnsurePresenceOpen opens the presence connection unless it is already
// Open. The connection must open within Config.OpenTimeout.
func (m *Manager) EnsurePresenceOpen(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.ensurePresenceOpen(ctx)
}

func (m *Manager) ensurePresenceOpen(ctx context.Context) error {
	if m.State() == connection.StateOpen {
		return nil
	}

	token, err := m.AuthToken()
	if err != nil {
		return &ConnectionError{Op: "open", Err: err}
	}

	// Clients are single use; drop the stale one before dialing.
	m.closePresence()

	cfg := m.cfg.Presence
	cfg.Token = token
	client := m.dial(cfg, m.logger)

	m.forwarders.Add(1)
	go m.forward(client)

	openCtx, cancel := context.WithTimeout(ctx, m.cfg.OpenTimeout)
	defer cancel()

	if err := client.Connect(openCtx); err != nil {
		client.Close()
		return &ConnectionError{Op: "open", Err: err}
	}
	if st := client.State(); st != connection.StateOpen {
		client.Close()
		return &ConnectionError{Op: "open", Err: fmt.Errorf("connection is %s", st)}
	}

	m.mu.Lock()
	m.presence = client
	m.mu.Unlock()

	return nil
}

// SetStatus changes the account's presence status and returns the status
// the marketplace reports afterwards.
func (m *Manager) SetStatus(ctx context.Context, status string) (model.Status, error) {
	want, err := model.ParseStatus(status)
	if err != nil {
		return "", err
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	user, ok := m.CurrentUser()
	if !ok {
		return "", fmt.Errorf("set status: %w", ErrNoSession)
	}

	// One reopen attempt, not a loop.
	if m.State() != connection.StateOpen {
		if err := m.ensurePresenceOpen(ctx); err != nil {
			return "", err
		}
	}

	m.mu.RLock()
	presence := m.presence
	m.mu.RUnlock()

	if err := presence.SendJSON(connection.SetStatusCommand(string(want))); err != nil {
		return "", &ConnectionError{Op: "send", Err: err}
	}

	if m.cfg.SettleDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.cfg.SettleDelay):
		}
	}

	profile, err := m.profiles.GetProfile(ctx, user.InGameName)
	if err != nil {
		return "", fmt.Errorf("confirm status: %w", err)
	}

	if profile.Status != want {
		m.logger.Warn("status change not confirmed",
			"requested", want,
			"reported", profile.Status,
		)
	}

	m.mu.Lock()
	m.status = profile.Status
	m.mu.Unlock()

	return profile.Status, nil
}

// Logout closes the presence connection and forgets the session.
func (m *Manager) Logout() error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	err := m.closePresence()
	m.forwarders.Wait()

	m.mu.Lock()
	m.token = nil
	m.session = nil
	m.status = ""
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("close presence: %w", err)
	}
	return nil
}

// closePresence closes and forgets the current presence client.
func (m *Manager) closePresence() error {
	m.mu.Lock()
	p := m.presence
	m.presence = nil
	m.mu.Unlock()

	if p == nil {
		return nil
	}
	return p.Close()
}

// forward relays a client's transitions until the client is closed.
func (m *Manager) forward(c connection.Client) {
	defer m.forwarders.Done()
	for tr := range c.Transitions() {
		select {
		case m.transitions <- tr:
		default:
			m.logger.Debug("transition observer full, dropping", "from", tr.From, "to", tr.To)
		}
	}
}
