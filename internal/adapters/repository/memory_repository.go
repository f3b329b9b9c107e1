package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

// In-memory adapters back the --memory serve mode and the HTTP tests. They
// follow the same contracts as the Postgres ones, including version checks.

var (
	_ domain.HabitRepository            = (*InMemoryHabitRepository)(nil)
	_ domain.UserRepository             = (*InMemoryUserRepository)(nil)
	_ domain.CompletionRepository       = (*InMemoryCompletionRepository)(nil)
	_ domain.ReminderRepository         = (*InMemoryReminderRepository)(nil)
	_ domain.PreferenceStore            = (*InMemoryPreferenceStore)(nil)
	_ domain.PushSubscriptionRepository = (*InMemoryPushSubscriptionRepository)(nil)
)

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit.Version = 1
	r.store[habit.ID] = habit.Clone()
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	return habit.Clone(), nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, h := range r.store {
		if h.UserID == userID && h.DeletedAt == nil {
			habits = append(habits, h.Clone())
		}
	}

	sortNewestFirst(habits)
	return habits, nil
}

func (r *InMemoryHabitRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var habits []*domain.Habit
	for _, id := range ids {
		if h, ok := r.store[id]; ok && h.DeletedAt == nil {
			habits = append(habits, h.Clone())
		}
	}

	sortNewestFirst(habits)
	return habits, nil
}

func sortNewestFirst(habits []*domain.Habit) {
	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.After(habits[j].CreatedAt)
	})
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.store[habit.ID]
	if !ok || current.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if current.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	habit.UpdatedAt = time.Now().UTC()
	r.store[habit.ID] = habit.Clone()
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	now := time.Now().UTC()
	habit.DeletedAt = &now
	habit.UpdatedAt = now
	habit.Version++
	return nil
}

type InMemoryUserRepository struct {
	byID map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{byID: make(map[string]*domain.User)}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	copied := *user
	r.byID[user.ID] = &copied
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

type InMemoryCompletionRepository struct {
	store map[string]*domain.Completion

	mu sync.RWMutex
}

func NewInMemoryCompletionRepository() *InMemoryCompletionRepository {
	return &InMemoryCompletionRepository{store: make(map[string]*domain.Completion)}
}

func completionKey(habitID string, day time.Time) string {
	return habitID + "|" + domain.CalendarDay(day).Format(domain.DayLayout)
}

func (r *InMemoryCompletionRepository) Create(ctx context.Context, c *domain.Completion) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := completionKey(c.HabitID, c.Day)
	if _, exists := r.store[key]; !exists {
		copied := *c
		r.store[key] = &copied
	}
	return nil
}

func (r *InMemoryCompletionRepository) DeleteForDay(ctx context.Context, habitID string, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, completionKey(habitID, day))
	return nil
}

func (r *InMemoryCompletionRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Completion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, to = domain.CalendarDay(from), domain.CalendarDay(to)
	out := []*domain.Completion{}
	for _, c := range r.store {
		if c.UserID == userID && !c.Day.Before(from) && !c.Day.After(to) {
			copied := *c
			out = append(out, &copied)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

type InMemoryReminderRepository struct {
	store map[string]*domain.Reminder

	mu sync.RWMutex
}

func NewInMemoryReminderRepository() *InMemoryReminderRepository {
	return &InMemoryReminderRepository{store: make(map[string]*domain.Reminder)}
}

func (r *InMemoryReminderRepository) Upsert(ctx context.Context, rem *domain.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.store[rem.HabitID]; ok {
		rem.CreatedAt = existing.CreatedAt
	} else if rem.CreatedAt.IsZero() {
		rem.CreatedAt = now
	}
	rem.UpdatedAt = now

	copied := *rem
	r.store[rem.HabitID] = &copied
	return nil
}

func (r *InMemoryReminderRepository) Get(ctx context.Context, habitID string) (*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rem, ok := r.store[habitID]
	if !ok {
		return nil, domain.ErrReminderNotFound
	}
	copied := *rem
	return &copied, nil
}

func (r *InMemoryReminderRepository) Delete(ctx context.Context, habitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, habitID)
	return nil
}

func (r *InMemoryReminderRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rem := range r.store {
		if rem.UserID == userID {
			delete(r.store, id)
		}
	}
	return nil
}

func (r *InMemoryReminderRepository) MarkFired(ctx context.Context, habitID string, prev, firedAt, next time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.store[habitID]
	if !ok || !rem.NextFireAt.Equal(prev) {
		return false, nil
	}

	fired := firedAt.UTC()
	rem.LastFiredAt = &fired
	rem.NextFireAt = next.UTC()
	rem.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *InMemoryReminderRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	due := []*domain.Reminder{}
	for _, rem := range r.store {
		if !rem.NextFireAt.After(now) {
			copied := *rem
			due = append(due, &copied)
		}
	}

	sort.Slice(due, func(i, j int) bool { return due[i].NextFireAt.Before(due[j].NextFireAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

type InMemoryPreferenceStore struct {
	store map[string]string

	mu sync.RWMutex
}

func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{store: make(map[string]string)}
}

func (s *InMemoryPreferenceStore) Get(ctx context.Context, userID, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.store[userID+"|"+key]
	return v, ok, nil
}

func (s *InMemoryPreferenceStore) Set(ctx context.Context, userID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store[userID+"|"+key] = value
	return nil
}

type InMemoryPushSubscriptionRepository struct {
	store map[string]*domain.PushSubscription

	mu sync.RWMutex
}

func NewInMemoryPushSubscriptionRepository() *InMemoryPushSubscriptionRepository {
	return &InMemoryPushSubscriptionRepository{store: make(map[string]*domain.PushSubscription)}
}

func (r *InMemoryPushSubscriptionRepository) Save(ctx context.Context, sub *domain.PushSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *sub
	r.store[sub.UserID+"|"+sub.Endpoint] = &copied
	return nil
}

func (r *InMemoryPushSubscriptionRepository) Delete(ctx context.Context, userID, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, userID+"|"+endpoint)
	return nil
}

func (r *InMemoryPushSubscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, sub := range r.store {
		if sub.Endpoint == endpoint {
			delete(r.store, key)
		}
	}
	return nil
}

func (r *InMemoryPushSubscriptionRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.PushSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := []*domain.PushSubscription{}
	for _, sub := range r.store {
		if sub.UserID == userID {
			copied := *sub
			subs = append(subs, &copied)
		}
	}

	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.Before(subs[j].CreatedAt) })
	return subs, nil
}
