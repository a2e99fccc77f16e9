package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quizden/triviaroom-go/internal/model"
	"github.com/quizden/triviaroom-go/internal/protocol"
)

// Handler processes the raw payload of one coordinator event. Handlers are
// keyed by event type; registering a second handler for the same event
// replaces the first, so reconnects and re-renders can never stack
// duplicate deliveries.
type Handler func(data json.RawMessage)

// Config holds connection behavior settings
type Config struct {
	// URL is the coordinator's WebSocket endpoint (ws:// or wss://)
	URL string

	// MaxRetries is the number of reconnect attempts before the
	// connection error becomes terminal
	MaxRetries int

	// RetryBackoff is the fixed delay between reconnect attempts
	RetryBackoff time.Duration

	WriteTimeout     time.Duration
	HandshakeTimeout time.Duration
}

// DefaultConfig returns sensible defaults for a coordinator connection
func DefaultConfig(url string) Config {
	return Config{
		URL:              url,
		MaxRetries:       5,
		RetryBackoff:     2 * time.Second,
		WriteTimeout:     10 * time.Second,
		HandshakeTimeout: 10 * time.Second,
	}
}

// Manager owns the single persistent connection to the session coordinator.
// Send failures and connectivity loss are surfaced through the error hook,
// never as panics or errors thrown into the caller: the UI must survive
// transient network loss.
type Manager struct {
	cfg    Config
	logger *slog.Logger
	dialer *websocket.Dialer

	mu          sync.RWMutex
	conn        *websocket.Conn
	handlers    map[protocol.EventType]Handler
	onReconnect func()
	onError     func(error)
	closed      bool

	// writeMu serializes writes; gorilla allows one concurrent writer
	writeMu sync.Mutex
}

// New creates a manager. Connect must be called before events flow.
func New(cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "connection")),
		dialer:   &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		handlers: make(map[protocol.EventType]Handler),
	}
}

// OnReconnect registers a hook invoked after a successful automatic
// reconnect, so the engine can re-join its room
func (m *Manager) OnReconnect(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReconnect = f
}

// OnError registers the hook through which connection problems are
// surfaced as user-visible notifications
func (m *Manager) OnError(f func(error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = f
}

// Connect establishes the connection and starts the read loop. It is meant
// to be called once per client lifetime.
func (m *Manager) Connect(ctx context.Context) error {
	conn, _, err := m.dialer.DialContext(ctx, m.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to coordinator: %w", err)
	}

	m.mu.Lock()
	m.conn = conn
	m.closed = false
	m.mu.Unlock()

	m.logger.Info("connected to coordinator", slog.String("url", m.cfg.URL))
	go m.readLoop(conn)
	return nil
}

// Close shuts the connection down for good; no reconnect is attempted
func (m *Manager) Close() error {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.closed = true
	m.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close()
}

// Connected reports whether the connection is currently open
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn != nil
}

// On registers the handler for an event type. The latest registration wins:
// any prior handler for the same event is detached first.
func (m *Manager) On(event protocol.EventType, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.handlers[event]; exists {
		m.logger.Debug("replacing event handler", slog.String("event", string(event)))
	}
	m.handlers[event] = h
}

// Off detaches the handler for an event type
func (m *Manager) Off(event protocol.EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, event)
}

// Emit sends an event to the coordinator. If the connection is not open or
// the write fails, the error is surfaced through the OnError hook and also
// returned, so callers that hold state on an in-flight send can release it;
// callers never crash on transient loss.
func (m *Manager) Emit(event protocol.EventType, payload any) error {
	env, err := protocol.NewEnvelope(event, payload)
	if err != nil {
		m.surface(err)
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		err = fmt.Errorf("failed to marshal %s envelope: %w", event, err)
		m.surface(err)
		return err
	}

	m.mu.RLock()
	conn := m.conn
	m.mu.RUnlock()
	if conn == nil {
		m.logger.Warn("emit while disconnected", slog.String("event", string(event)))
		err = fmt.Errorf("%s: %w", event, model.ErrNotConnected)
		m.surface(err)
		return err
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(m.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		m.logger.Warn("write failed",
			slog.String("event", string(event)),
			slog.String("error", err.Error()))
		err = fmt.Errorf("failed to send %s: %w", event, err)
		m.surface(err)
		return err
	}
	return nil
}

func (m *Manager) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.mu.RLock()
			closed := m.closed
			m.mu.RUnlock()
			if closed {
				return
			}
			m.logger.Warn("connection lost", slog.String("error", err.Error()))
			m.reconnect()
			return
		}
		m.dispatch(data)
	}
}

func (m *Manager) dispatch(data []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		m.logger.Warn("discarding malformed frame", slog.String("error", err.Error()))
		m.surface(&protocol.DecodeError{Event: "unknown", Reason: "malformed envelope"})
		return
	}

	m.mu.RLock()
	h := m.handlers[env.Event]
	m.mu.RUnlock()
	if h == nil {
		m.logger.Debug("no handler for event", slog.String("event", string(env.Event)))
		return
	}
	h(env.Data)
}

// reconnect retries with a fixed backoff up to MaxRetries times. On
// exhaustion it surfaces a terminal connectivity error; it never navigates
// or decides anything on the caller's behalf.
func (m *Manager) reconnect() {
	m.mu.Lock()
	m.conn = nil
	m.mu.Unlock()

	for attempt := 1; attempt <= m.cfg.MaxRetries; attempt++ {
		time.Sleep(m.cfg.RetryBackoff)

		m.mu.RLock()
		closed := m.closed
		m.mu.RUnlock()
		if closed {
			return
		}

		conn, _, err := m.dialer.Dial(m.cfg.URL, nil)
		if err != nil {
			m.logger.Warn("reconnect attempt failed",
				slog.Int("attempt", attempt),
				slog.Int("max_retries", m.cfg.MaxRetries),
				slog.String("error", err.Error()))
			continue
		}

		m.mu.Lock()
		m.conn = conn
		hook := m.onReconnect
		m.mu.Unlock()

		m.logger.Info("reconnected to coordinator", slog.Int("attempt", attempt))
		go m.readLoop(conn)
		if hook != nil {
			hook()
		}
		return
	}

	m.logger.Error("reconnect retries exhausted", slog.Int("max_retries", m.cfg.MaxRetries))
	m.surface(model.ErrRetriesExhausted)
}

func (m *Manager) surface(err error) {
	m.mu.RLock()
	hook := m.onError
	m.mu.RUnlock()
	if hook != nil {
		hook(err)
	}
}
