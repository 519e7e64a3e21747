package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pigfarm-manager/internal/models"
	"pigfarm-manager/internal/offline"
)

// State — всё, что живёт в рамках одной браузерной сессии.
// Role зафиксирована на момент входа: смена роли в БД на открытую сессию не влияет.
type State struct {
	ID            string
	Email         string
	Role          models.UserRole
	ProviderToken string
	Queue         *offline.Queue
	CreatedAt     time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *State) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Manager хранит состояния сессий в памяти процесса. В cookie лежит только ID.
type Manager struct {
	mu       sync.RWMutex
	states   map[string]*State
	maxIdle  time.Duration
	log      *zap.Logger
	now      func() time.Time
	notifier func(email string) offline.Notifier
}

type Option func(*Manager)

// WithQueueNotifier задаёт, кого оповещать об отложенных записях в очереди сессии.
func WithQueueNotifier(f func(email string) offline.Notifier) Option {
	return func(m *Manager) { m.notifier = f }
}

func NewManager(maxIdle time.Duration, log *zap.Logger, opts ...Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		states:  make(map[string]*State),
		maxIdle: maxIdle,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin создаёт новую сессию с пустой очередью.
func (m *Manager) Begin(email string, role models.UserRole, providerToken string) *State {
	now := m.now()
	st := &State{
		ID:            uuid.NewString(),
		Email:         email,
		Role:          role,
		ProviderToken: providerToken,
		CreatedAt:     now,
		lastSeen:      now,
	}
	qopts := []offline.Option{offline.WithLogger(m.log.With(zap.String("email", email)))}
	if m.notifier != nil {
		qopts = append(qopts, offline.WithNotifier(m.notifier(email)))
	}
	st.Queue = offline.NewQueue(qopts...)

	m.mu.Lock()
	m.states[st.ID] = st
	m.mu.Unlock()

	m.log.Info("session started", zap.String("email", email), zap.String("role", string(role)))
	return st
}

// Get возвращает живую сессию и продлевает её. Просроченная сессия удаляется.
func (m *Manager) Get(id string) (*State, bool) {
	if id == "" {
		return nil, false
	}
	m.mu.RLock()
	st, ok := m.states[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := m.now()
	if m.maxIdle > 0 && st.idleSince(now) > m.maxIdle {
		m.End(id)
		return nil, false
	}
	st.touch(now)
	return st, true
}

// End завершает сессию; очередь вместе с неотправленными записями отбрасывается.
func (m *Manager) End(id string) *State {
	m.mu.Lock()
	st, ok := m.states[id]
	delete(m.states, id)
	m.mu.Unlock()
	if !ok {
		return nil
	}

	if pending := st.Queue.Len(); pending > 0 {
		m.log.Warn("session ended with pending offline mutations",
			zap.String("email", st.Email), zap.Int("pending", pending))
	}
	return st
}

// Sweep удаляет сессии, простаивающие дольше maxIdle.
func (m *Manager) Sweep() int {
	if m.maxIdle <= 0 {
		return 0
	}
	now := m.now()

	m.mu.RLock()
	var stale []string
	for id, st := range m.states {
		if st.idleSince(now) > m.maxIdle {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.End(id)
	}
	return len(stale)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
