package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/logger"
	"github.com/google/uuid"
)

type AuthService struct {
	repo       domain.UserRepository
	sessions   domain.SessionStore
	tokens     *TokenService
	navigation domain.NavigationStore
}

func NewAuthService(repo domain.UserRepository, sessions domain.SessionStore, tokens *TokenService, navigation domain.NavigationStore) *AuthService {
	return &AuthService{
		repo:       repo,
		sessions:   sessions,
		tokens:     tokens,
		navigation: navigation,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Timezone    string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	id := uuid.NewString()
	user, err := domain.NewUser(id, input.Email, input.DisplayName, input.Timezone)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	return user, nil
}

// Login opens a new session and returns a bearer token bound to it.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := user.CheckPassword(input.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session := domain.NewSession(user.ID, s.tokens.Duration())
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("auth service: failed to open session: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, session.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// Logout tears the session down together with its screen state.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("auth service: failed to close session: %w", err)
	}

	if s.navigation != nil {
		if err := s.navigation.Delete(ctx, sessionID); err != nil {
			logger.Warn("navigation state left behind", "session_id", sessionID, "err", err)
		}
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}
