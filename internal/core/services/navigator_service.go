package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

type OnboardingView struct {
	Slides []domain.OnboardingSlide `json:"slides"`
}

type DashboardView struct {
	Greeting          string          `json:"greeting"`
	Quote             string          `json:"quote"`
	Habits            []*domain.Habit `json:"habits"`
	TotalHabits       int             `json:"total_habits"`
	CompletedToday    int             `json:"completed_today"`
	CompletionPercent int             `json:"completion_percent"`
}

type AddHabitView struct {
	Categories  []string           `json:"categories"`
	Frequencies []string           `json:"frequencies"`
	Emojis      []string           `json:"emojis"`
	Defaults    domain.HabitFields `json:"defaults"`
}

type SuggestionsView struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// ScreenView is the view model of the current screen. Exactly one of the
// screen-specific fields is set, matching Screen.
type ScreenView struct {
	Screen          domain.Screen        `json:"screen"`
	SelectedHabitID string               `json:"selected_habit_id,omitempty"`
	Onboarding      *OnboardingView      `json:"onboarding,omitempty"`
	Dashboard       *DashboardView       `json:"dashboard,omitempty"`
	AddHabit        *AddHabitView        `json:"add_habit,omitempty"`
	HabitDetails    *domain.Habit        `json:"habit_details,omitempty"`
	HabitHistory    *domain.HabitHistory `json:"habit_history,omitempty"`
	Profile         *domain.ProfileStats `json:"profile,omitempty"`
	Badges          []domain.Badge       `json:"badges,omitempty"`
	AISuggestions   *SuggestionsView     `json:"ai_suggestions,omitempty"`
}

type viewBuilder func(ctx context.Context, userID string, nav *domain.Navigation, view *ScreenView) error

// NavigatorService hosts the screens of one session: it remembers which one is
// showing and renders it on demand.
type NavigatorService struct {
	store       domain.NavigationStore
	prefs       domain.PreferenceStore
	habits      *HabitService
	stats       *StatsService
	badges      *BadgeService
	suggestions *SuggestionService
	builders    map[domain.Screen]viewBuilder
	now         func() time.Time
}

func NewNavigatorService(
	store domain.NavigationStore,
	prefs domain.PreferenceStore,
	habits *HabitService,
	stats *StatsService,
	badges *BadgeService,
	suggestions *SuggestionService,
) *NavigatorService {
	s := &NavigatorService{
		store:       store,
		prefs:       prefs,
		habits:      habits,
		stats:       stats,
		badges:      badges,
		suggestions: suggestions,
		now:         time.Now,
	}

	s.builders = map[domain.Screen]viewBuilder{
		domain.ScreenOnboarding:    s.buildOnboarding,
		domain.ScreenDashboard:     s.buildDashboard,
		domain.ScreenAddHabit:      s.buildAddHabit,
		domain.ScreenHabitDetails:  s.buildHabitDetails,
		domain.ScreenProfile:       s.buildProfile,
		domain.ScreenBadges:        s.buildBadges,
		domain.ScreenAISuggestions: s.buildSuggestions,
	}

	return s
}

// Start decides the first screen of a session. The onboarding flag is read
// only when the session has no screen yet; later calls return the current state.
func (s *NavigatorService) Start(ctx context.Context, userID, sessionID string) (*domain.Navigation, error) {
	nav, err := s.store.Get(ctx, sessionID)
	if err == nil {
		return nav, nil
	}
	if !errors.Is(err, domain.ErrNavigationNotFound) {
		return nil, err
	}

	value, ok, err := s.prefs.Get(ctx, userID, domain.OnboardingSeenKey)
	if err != nil {
		return nil, err
	}

	nav = &domain.Navigation{Screen: domain.ScreenOnboarding, UpdatedAt: s.now().UTC()}
	if ok && value == domain.OnboardingSeenValue {
		nav.Screen = domain.ScreenDashboard
	}

	if err := s.store.Save(ctx, sessionID, nav); err != nil {
		return nil, err
	}
	return nav, nil
}

// Navigate replaces the current screen. The selected habit only changes when
// habitID is not empty.
func (s *NavigatorService) Navigate(ctx context.Context, userID, sessionID, screen, habitID string) (*domain.Navigation, error) {
	target, err := domain.ParseScreen(screen)
	if err != nil {
		return nil, err
	}

	nav, err := s.Start(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	nav.Navigate(target, habitID)

	if err := s.store.Save(ctx, sessionID, nav); err != nil {
		return nil, err
	}
	return nav, nil
}

// CompleteOnboarding stores the durable flag and moves to the dashboard.
func (s *NavigatorService) CompleteOnboarding(ctx context.Context, userID, sessionID string) (*domain.Navigation, error) {
	if err := s.prefs.Set(ctx, userID, domain.OnboardingSeenKey, domain.OnboardingSeenValue); err != nil {
		return nil, err
	}
	return s.Navigate(ctx, userID, sessionID, string(domain.ScreenDashboard), "")
}

// Render builds the view model of the session's current screen.
func (s *NavigatorService) Render(ctx context.Context, userID, sessionID string) (*ScreenView, error) {
	nav, err := s.Start(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	build, ok := s.builders[nav.Screen]
	if !ok {
		return nil, domain.ErrInvalidScreen
	}

	view := &ScreenView{Screen: nav.Screen, SelectedHabitID: nav.SelectedHabitID}
	if err := build(ctx, userID, nav, view); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *NavigatorService) buildOnboarding(_ context.Context, _ string, _ *domain.Navigation, view *ScreenView) error {
	view.Onboarding = &OnboardingView{Slides: domain.OnboardingSlides}
	return nil
}

func (s *NavigatorService) buildDashboard(ctx context.Context, userID string, _ *domain.Navigation, view *ScreenView) error {
	profile, err := s.stats.Profile(ctx, userID)
	if err != nil {
		return err
	}

	habits, err := s.habits.ListByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if habits == nil {
		habits = []*domain.Habit{}
	}

	view.Dashboard = &DashboardView{
		Greeting:          profile.User.Name(),
		Quote:             domain.QuoteOfTheDay(s.now().In(profile.User.Location())),
		Habits:            habits,
		TotalHabits:       len(habits),
		CompletedToday:    domain.CompletedToday(habits),
		CompletionPercent: CompletionPercent(domain.CompletedToday(habits), len(habits)),
	}
	return nil
}

func (s *NavigatorService) buildAddHabit(_ context.Context, _ string, _ *domain.Navigation, view *ScreenView) error {
	view.AddHabit = &AddHabitView{
		Categories:  domain.Categories,
		Frequencies: domain.Frequencies,
		Emojis:      domain.PopularEmojis,
		Defaults: domain.HabitFields{
			Emoji:        domain.DefaultEmoji,
			Category:     domain.DefaultCategory,
			Frequency:    domain.FrequencyDaily,
			ReminderTime: domain.DefaultReminderTime,
		},
	}
	return nil
}

func (s *NavigatorService) buildHabitDetails(ctx context.Context, userID string, nav *domain.Navigation, view *ScreenView) error {
	if nav.SelectedHabitID == "" {
		return domain.ErrHabitNotFound
	}

	habit, err := s.habits.GetByID(ctx, nav.SelectedHabitID, userID)
	if err != nil {
		return err
	}
	history, err := s.stats.HabitHistory(ctx, habit, s.now())
	if err != nil {
		return err
	}

	view.HabitDetails = habit
	view.HabitHistory = history
	return nil
}

func (s *NavigatorService) buildProfile(ctx context.Context, userID string, _ *domain.Navigation, view *ScreenView) error {
	profile, err := s.stats.Profile(ctx, userID)
	if err != nil {
		return err
	}
	view.Profile = profile
	return nil
}

func (s *NavigatorService) buildBadges(ctx context.Context, userID string, _ *domain.Navigation, view *ScreenView) error {
	badges, err := s.badges.List(ctx, userID, domain.BadgeCategoryAll)
	if err != nil {
		return err
	}
	view.Badges = badges
	return nil
}

func (s *NavigatorService) buildSuggestions(_ context.Context, _ string, _ *domain.Navigation, view *ScreenView) error {
	view.AISuggestions = &SuggestionsView{Suggestions: s.suggestions.Defaults()}
	return nil
}

// CompletionPercent rounds done/total to a whole percentage; no habits is 0%.
func CompletionPercent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
