package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/core/services"
	"github.com/stretchr/testify/mock"
)

func ptr[T any](v T) *T {
	return &v
}

type MockRepo struct {
	mu            sync.Mutex
	store         map[string]*domain.Habit
	simulateError error
	updateError   error
	updates       int
}

func NewMockRepo() *MockRepo {
	return &MockRepo{
		store: make(map[string]*domain.Habit),
	}
}

func (m *MockRepo) Create(ctx context.Context, habit *domain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.simulateError != nil {
		return m.simulateError
	}
	if _, exists := m.store[habit.ID]; exists {
		return errors.New("duplicate key value violates unique constraint")
	}
	if habit.Version == 0 {
		habit.Version = 1
	}
	m.store[habit.ID] = habit.Clone()
	return nil
}

func (m *MockRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.simulateError != nil {
		return nil, m.simulateError
	}
	h, ok := m.store[id]
	if !ok || h.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	return h.Clone(), nil
}

func (m *MockRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.Habit
	for _, h := range m.store {
		if h.UserID == userID && h.DeletedAt == nil {
			list = append(list, h.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *MockRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var list []*domain.Habit
	for _, id := range ids {
		if h, ok := m.store[id]; ok && h.DeletedAt == nil {
			list = append(list, h.Clone())
		}
	}
	return list, nil
}

func (m *MockRepo) Update(ctx context.Context, habit *domain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.simulateError != nil {
		return m.simulateError
	}
	if m.updateError != nil {
		return m.updateError
	}

	current, ok := m.store[habit.ID]
	if !ok || current.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if current.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	m.updates++
	m.store[habit.ID] = habit.Clone()
	return nil
}

func (m *MockRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.simulateError != nil {
		return m.simulateError
	}
	h, ok := m.store[id]
	if !ok || h.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	now := time.Now().UTC()
	h.DeletedAt = &now
	h.Version++
	return nil
}

type memCompletions struct {
	mu      sync.Mutex
	store   map[string]*domain.Completion
	failing bool
}

func newMemCompletions() *memCompletions {
	return &memCompletions{store: make(map[string]*domain.Completion)}
}

func completionKey(habitID string, day time.Time) string {
	return habitID + "|" + day.Format(domain.DayLayout)
}

func (m *memCompletions) Create(ctx context.Context, c *domain.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("completion store down")
	}
	key := completionKey(c.HabitID, c.Day)
	if _, exists := m.store[key]; !exists {
		m.store[key] = c
	}
	return nil
}

func (m *memCompletions) DeleteForDay(ctx context.Context, habitID string, day time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("completion store down")
	}
	delete(m.store, completionKey(habitID, domain.CalendarDay(day)))
	return nil
}

func (m *memCompletions) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errors.New("completion store down")
	}
	var out []*domain.Completion
	for _, c := range m.store {
		if c.UserID == userID && !c.Day.Before(from) && !c.Day.After(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

type memReminders struct {
	mu    sync.Mutex
	store map[string]*domain.Reminder
}

func newMemReminders() *memReminders {
	return &memReminders{store: make(map[string]*domain.Reminder)}
}

func (m *memReminders) Upsert(ctx context.Context, r *domain.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *r
	m.store[r.HabitID] = &c
	return nil
}

func (m *memReminders) Get(ctx context.Context, habitID string) (*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[habitID]
	if !ok {
		return nil, domain.ErrReminderNotFound
	}
	c := *r
	return &c, nil
}

func (m *memReminders) Delete(ctx context.Context, habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, habitID)
	return nil
}

func (m *memReminders) DeleteByUserID(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.store {
		if r.UserID == userID {
			delete(m.store, id)
		}
	}
	return nil
}

func (m *memReminders) MarkFired(ctx context.Context, habitID string, prev, firedAt, next time.Time) (bool, error) {
	return false, nil
}

func (m *memReminders) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Reminder, error) {
	return nil, nil
}

type memPrefs struct {
	mu    sync.Mutex
	store map[string]string
}

func newMemPrefs() *memPrefs {
	return &memPrefs{store: make(map[string]string)}
}

func (m *memPrefs) Get(ctx context.Context, userID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.store[userID+"|"+key]
	return v, ok, nil
}

func (m *memPrefs) Set(ctx context.Context, userID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[userID+"|"+key] = value
	return nil
}

type memNavigation struct {
	mu    sync.Mutex
	store map[string]domain.Navigation
}

func newMemNavigation() *memNavigation {
	return &memNavigation{store: make(map[string]domain.Navigation)}
}

func (m *memNavigation) Get(ctx context.Context, sessionID string) (*domain.Navigation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	nav, ok := m.store[sessionID]
	if !ok {
		return nil, domain.ErrNavigationNotFound
	}
	return &nav, nil
}

func (m *memNavigation) Save(ctx context.Context, sessionID string, nav *domain.Navigation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[sessionID] = *nav
	return nil
}

func (m *memNavigation) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, sessionID)
	return nil
}

type memSessions struct {
	mu    sync.Mutex
	store map[string]domain.Session
}

func newMemSessions() *memSessions {
	return &memSessions{store: make(map[string]domain.Session)}
}

func (m *memSessions) Create(ctx context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[s.ID] = *s
	return nil
}

func (m *memSessions) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *memSessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

type memSubscriptions struct {
	mu    sync.Mutex
	store map[string]*domain.PushSubscription
}

func newMemSubscriptions() *memSubscriptions {
	return &memSubscriptions{store: make(map[string]*domain.PushSubscription)}
}

func (m *memSubscriptions) Save(ctx context.Context, sub *domain.PushSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[sub.UserID+"|"+sub.Endpoint] = sub
	return nil
}

func (m *memSubscriptions) Delete(ctx context.Context, userID, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, userID+"|"+endpoint)
	return nil
}

func (m *memSubscriptions) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, s := range m.store {
		if s.Endpoint == endpoint {
			delete(m.store, k)
		}
	}
	return nil
}

func (m *memSubscriptions) ListByUserID(ctx context.Context, userID string) ([]*domain.PushSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.PushSubscription
	for _, s := range m.store {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(ctx context.Context, habit *domain.Habit) (services.ScheduleResult, error) {
	args := m.Called(ctx, habit)
	return args.Get(0).(services.ScheduleResult), args.Error(1)
}

func (m *MockScheduler) Unschedule(ctx context.Context, habitID string) error {
	return m.Called(ctx, habitID).Error(0)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, schema map[string]any) ([]domain.Suggestion, error) {
	args := m.Called(ctx, prompt, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Suggestion), args.Error(1)
}

type fixedLimiter struct {
	allow bool
	err   error
	calls int
}

func (l *fixedLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	l.calls++
	return l.allow, l.err
}
