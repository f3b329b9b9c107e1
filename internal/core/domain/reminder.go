package domain

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrReminderNotFound   = errors.New("reminder not found")
	ErrPermissionDenied   = errors.New("notification permission denied")
	ErrInvalidPermission  = errors.New("invalid permission state (must be default, granted or denied)")
	ErrSubscriptionFields = errors.New("missing push subscription fields")
)

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Preference keys holding the user's notification permission and whether the
// one-time permission prompt was already requested.
const (
	PermissionKey         = "trackloom-notification-permission"
	PermissionPromptedKey = "trackloom-notification-prompted"
)

func ParsePermission(raw string) (Permission, error) {
	switch p := Permission(raw); p {
	case PermissionDefault, PermissionGranted, PermissionDenied:
		return p, nil
	default:
		return "", ErrInvalidPermission
	}
}

// Reminder is the persisted daily schedule for one habit. It is re-armed after
// each firing and removed when the habit goes away.
type Reminder struct {
	HabitID      string     `json:"habit_id" db:"habit_id"`
	UserID       string     `json:"user_id" db:"user_id"`
	HabitName    string     `json:"habit_name" db:"habit_name"`
	Emoji        string     `json:"emoji" db:"emoji"`
	ReminderTime string     `json:"reminder_time" db:"reminder_time"`
	Timezone     string     `json:"timezone" db:"timezone"`
	NextFireAt   time.Time  `json:"next_fire_at" db:"next_fire_at"`
	LastFiredAt  *time.Time `json:"last_fired_at,omitempty" db:"last_fired_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// NextTrigger returns the next instant at which a HH:MM reminder should fire.
// The target is built on now's calendar date in now's location with zero
// seconds; if it is not strictly after now it moves forward one calendar day.
func NextTrigger(now time.Time, hhmm string) (time.Time, error) {
	hour, minute, err := ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}

	y, m, d := now.Date()
	target := time.Date(y, m, d, hour, minute, 0, 0, now.Location())

	if !target.After(now) {
		target = time.Date(y, m, d+1, hour, minute, 0, 0, now.Location())
	}

	return target, nil
}

func ParseClock(hhmm string) (int, int, error) {
	if !IsValidReminder(hhmm) {
		return 0, 0, ErrInvalidReminder
	}

	hour, err := strconv.Atoi(hhmm[:2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidReminder, err)
	}
	minute, err := strconv.Atoi(hhmm[3:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidReminder, err)
	}

	return hour, minute, nil
}

func NewReminder(habit *Habit, loc *time.Location, now time.Time) (*Reminder, error) {
	if loc == nil {
		loc = time.UTC
	}

	next, err := NextTrigger(now.In(loc), habit.ReminderTime)
	if err != nil {
		return nil, err
	}

	ts := now.UTC()
	return &Reminder{
		HabitID:      habit.ID,
		UserID:       habit.UserID,
		HabitName:    habit.Name,
		Emoji:        habit.Emoji,
		ReminderTime: habit.ReminderTime,
		Timezone:     loc.String(),
		NextFireAt:   next.UTC(),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}, nil
}

// Rearm moves the reminder to its next occurrence after firedAt.
func (r *Reminder) Rearm(firedAt time.Time) error {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		loc = time.UTC
	}

	next, err := NextTrigger(firedAt.In(loc), r.ReminderTime)
	if err != nil {
		return err
	}

	fired := firedAt.UTC()
	r.LastFiredAt = &fired
	r.NextFireAt = next.UTC()
	r.UpdatedAt = fired
	return nil
}

// Notification is what gets delivered to the user's devices when a reminder fires.
type Notification struct {
	Title              string            `json:"title"`
	Body               string            `json:"body"`
	Tag                string            `json:"tag,omitempty"`
	Icon               string            `json:"icon,omitempty"`
	Badge              string            `json:"badge,omitempty"`
	RequireInteraction bool              `json:"requireInteraction"`
	Data               map[string]string `json:"data,omitempty"`
}

const notificationIcon = "/favicon.svg"

func (r *Reminder) Notification() Notification {
	return Notification{
		Title:              fmt.Sprintf("%s Time for your habit!", r.Emoji),
		Body:               fmt.Sprintf("Don't forget to complete: %s", r.HabitName),
		Tag:                "habit-" + r.HabitID,
		Icon:               notificationIcon,
		Badge:              notificationIcon,
		RequireInteraction: true,
		Data:               map[string]string{"habit_id": r.HabitID},
	}
}

type PushSubscription struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Endpoint  string    `json:"endpoint" db:"endpoint"`
	P256dh    string    `json:"p256dh" db:"p256dh"`
	Auth      string    `json:"auth" db:"auth"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (s *PushSubscription) Validate() error {
	if s.UserID == "" || s.Endpoint == "" || s.P256dh == "" || s.Auth == "" {
		return ErrSubscriptionFields
	}
	return nil
}
