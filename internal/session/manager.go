package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/banshee-data/sprint.report/internal/biomech"
	"github.com/banshee-data/sprint.report/internal/config"
	"github.com/banshee-data/sprint.report/internal/monitoring"
	"github.com/banshee-data/sprint.report/internal/observability"
	"github.com/banshee-data/sprint.report/internal/sprint"
	"github.com/banshee-data/sprint.report/internal/timeutil"
)

// Manager owns the live sessions. All sessions share one Engine.
type Manager struct {
	cfg         *config.AnalysisConfig
	store       Store
	clock       timeutil.Clock
	metrics     *observability.Metrics
	engine      *biomech.Engine
	recommender sprint.Recommender

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore persists sessions and analyses to st.
func WithStore(st Store) Option {
	return func(m *Manager) { m.store = st }
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c timeutil.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithMetrics records pipeline counters to mt.
func WithMetrics(mt *observability.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithRecommender replaces sprint.DefaultRecommender.
func WithRecommender(r sprint.Recommender) Option {
	return func(m *Manager) { m.recommender = r }
}

// NewManager returns a Manager using cfg for thresholds. A nil cfg means
// the built-in defaults.
func NewManager(cfg *config.AnalysisConfig, opts ...Option) *Manager {
	if cfg == nil {
		cfg = config.EmptyAnalysisConfig()
	}
	m := &Manager{
		cfg:         cfg,
		clock:       timeutil.RealClock{},
		engine:      biomech.NewEngine(),
		recommender: sprint.DefaultRecommender{},
		sessions:    make(map[string]*Session),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Create starts a new session and persists it when a store is configured.
func (m *Manager) Create(label string) (*Session, error) {
	id := uuid.NewString()
	s := &Session{
		ID:          id,
		Label:       label,
		CreatedAt:   m.clock.Now().UTC(),
		engine:      m.engine,
		recommender: m.recommender,
		threshold:   m.cfg.GetConfidenceThreshold(),
		maxRecent:   m.cfg.GetMaxRecentMetrics(),
		store:       m.store,
		clock:       m.clock,
		metrics:     m.metrics,
		logf:        monitoring.WithPrefix(fmt.Sprintf("[session %s] ", id[:8])),
	}

	if m.store != nil {
		if err := m.store.CreateSession(s.ID, s.Label, s.CreatedAt); err != nil {
			if m.metrics != nil {
				m.metrics.RecordStoreError("create_session")
			}
			return nil, err
		}
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordSessionCreated()
	}
	monitoring.Logf("created session %s (%q)", id, label)
	return s, nil
}

// Get returns the live session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// List returns the live sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Remove drops a session from memory. Stored data is kept.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	delete(m.sessions, id)
	s.closeFeed()
	if m.metrics != nil {
		m.metrics.ActiveSessions.Dec()
	}
	return true
}
