// Package polling serves the long-polling fallback transport for clients that
// cannot keep a websocket open
package polling

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/YelzhanWeb/orderhub/internal/adapter/logger"
	"github.com/YelzhanWeb/orderhub/internal/app/hub"
	"github.com/YelzhanWeb/orderhub/internal/app/protocol"
)

// Transport is the name reported to the hub for polling clients
const Transport = "polling"

// maxBatch caps the frames returned by one poll
const maxBatch = 64

var ErrUnknownSession = errors.New("unknown session")

type session struct {
	client *hub.Client

	mu       sync.Mutex
	lastSeen time.Time
	polling  int
}

func (s *session) touch(now time.Time, delta int) {
	s.mu.Lock()
	s.lastSeen = now
	s.polling += delta
	s.mu.Unlock()
}

func (s *session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.polling > 0 {
		return 0
	}
	return now.Sub(s.lastSeen)
}

func (s *session) closed() bool {
	select {
	case <-s.client.Done():
		return true
	default:
		return false
	}
}

// Manager maps polling session ids to hub connections
type Manager struct {
	hub            *hub.Hub
	logger         logger.Logger
	pollTimeout    time.Duration
	sessionTimeout time.Duration
	now            func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewManager(h *hub.Hub, pollTimeout, sessionTimeout time.Duration, logger logger.Logger) *Manager {
	return &Manager{
		hub:            h,
		logger:         logger,
		pollTimeout:    pollTimeout,
		sessionTimeout: sessionTimeout,
		now:            time.Now,
		sessions:       make(map[string]*session),
	}
}

// Open registers a new hub connection and returns its session id
func (m *Manager) Open() string {
	client := m.hub.Accept(Transport)
	s := &session{client: client, lastSeen: m.now()}

	m.mu.Lock()
	m.sessions[client.ID()] = s
	m.mu.Unlock()

	return client.ID()
}

// Poll waits up to the poll timeout for outbound frames. It returns as soon as
// at least one frame is available, together with whatever else is queued.
func (m *Manager) Poll(ctx context.Context, sid string) ([]protocol.Frame, error) {
	s, err := m.lookup(sid)
	if err != nil {
		return nil, err
	}
	s.touch(m.now(), 1)
	defer func() { s.touch(m.now(), -1) }()

	timer := time.NewTimer(m.pollTimeout)
	defer timer.Stop()

	frames := make([]protocol.Frame, 0)
	select {
	case frame, ok := <-s.client.Outbound():
		if !ok {
			m.forget(sid)
			return nil, ErrUnknownSession
		}
		frames = append(frames, frame)
	case <-timer.C:
		return frames, nil
	case <-ctx.Done():
		return frames, nil
	}

	for len(frames) < maxBatch {
		select {
		case frame, ok := <-s.client.Outbound():
			if !ok {
				m.forget(sid)
				return frames, nil
			}
			frames = append(frames, frame)
		default:
			return frames, nil
		}
	}
	return frames, nil
}

// Send dispatches already decoded client messages in order
func (m *Manager) Send(ctx context.Context, sid string, msgs []protocol.Inbound) error {
	s, err := m.lookup(sid)
	if err != nil {
		return err
	}
	s.touch(m.now(), 0)

	for _, in := range msgs {
		m.hub.Dispatch(ctx, sid, in)
	}

	if s.closed() {
		m.forget(sid)
	}
	return nil
}

// Run reaps idle sessions until ctx is done
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.sessionTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reap()
		}
	}
}

// Reap disconnects sessions that have not polled within the session timeout
func (m *Manager) Reap() int {
	now := m.now()

	m.mu.Lock()
	var expired []string
	for sid, s := range m.sessions {
		if s.closed() || s.idleSince(now) > m.sessionTimeout {
			expired = append(expired, sid)
			delete(m.sessions, sid)
		}
	}
	m.mu.Unlock()

	for _, sid := range expired {
		m.hub.Disconnect(sid)
	}

	if len(expired) > 0 {
		m.logger.Debug("polling_sessions_reaped", "Idle polling sessions removed", "", map[string]interface{}{
			"count": len(expired),
		})
	}
	return len(expired)
}

func (m *Manager) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) lookup(sid string) (*session, error) {
	m.mu.Lock()
	s, ok := m.sessions[sid]
	m.mu.Unlock()
	if !ok || s.closed() {
		return nil, ErrUnknownSession
	}
	return s, nil
}

func (m *Manager) forget(sid string) {
	m.mu.Lock()
	delete(m.sessions, sid)
	m.mu.Unlock()
}
