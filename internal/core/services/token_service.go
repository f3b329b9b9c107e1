package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what a valid bearer token resolves to.
type TokenClaims struct {
	UserID    string
	SessionID string
}

type TokenService struct {
	secretKey     []byte
	issuer        string
	tokenDuration time.Duration
	sessions      domain.SessionStore
}

func NewTokenService(secretKey string, issuer string, tokenDuration time.Duration, sessions domain.SessionStore) *TokenService {
	return &TokenService{
		secretKey:     []byte(secretKey),
		issuer:        issuer,
		tokenDuration: tokenDuration,
		sessions:      sessions,
	}
}

func (s *TokenService) Duration() time.Duration {
	return s.tokenDuration
}

func (s *TokenService) GenerateToken(userID, sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"sid": sessionID,
		"exp": now.Add(s.tokenDuration).Unix(),
		"iat": now.Unix(),
		"iss": s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("token service: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken checks the signature and issuer, then that the session the
// token was minted for is still alive. Logging out kills every token of the session.
func (s *TokenService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if iss, ok := claims["iss"].(string); !ok || iss != s.issuer {
		return nil, fmt.Errorf("invalid token issuer")
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("invalid token subject")
	}

	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return nil, fmt.Errorf("invalid token session")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}
	if session.UserID != userID || session.Expired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}

	return &TokenClaims{UserID: userID, SessionID: sessionID}, nil
}
