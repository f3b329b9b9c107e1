package cache

import (
	"context"
	"sync"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

// Process-local stand-ins for the Redis stores, used when serving without Redis.

var (
	_ domain.SessionStore    = (*MemorySessionStore)(nil)
	_ domain.NavigationStore = (*MemoryNavigationStore)(nil)
	_ domain.UsageLimiter    = (*MemoryUsageLimiter)(nil)
)

type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domain.Session)}
}

func (s *MemorySessionStore) Create(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok || session.Expired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

type MemoryNavigationStore struct {
	mu    sync.RWMutex
	state map[string]domain.Navigation
}

func NewMemoryNavigationStore() *MemoryNavigationStore {
	return &MemoryNavigationStore{state: make(map[string]domain.Navigation)}
}

func (s *MemoryNavigationStore) Get(ctx context.Context, sessionID string) (*domain.Navigation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nav, ok := s.state[sessionID]
	if !ok {
		return nil, domain.ErrNavigationNotFound
	}
	return &nav, nil
}

func (s *MemoryNavigationStore) Save(ctx context.Context, sessionID string, nav *domain.Navigation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[sessionID] = *nav
	return nil
}

func (s *MemoryNavigationStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, sessionID)
	return nil
}

type MemoryUsageLimiter struct {
	mu     sync.Mutex
	limit  int
	counts map[string]int
	now    func() time.Time
}

func NewMemoryUsageLimiter(limit int) *MemoryUsageLimiter {
	return &MemoryUsageLimiter{limit: limit, counts: make(map[string]int), now: time.Now}
}

func (l *MemoryUsageLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := userID + "|" + l.now().UTC().Format(domain.DayLayout)
	l.counts[key]++
	return l.counts[key] <= l.limit, nil
}
