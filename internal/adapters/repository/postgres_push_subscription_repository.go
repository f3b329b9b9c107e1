package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
)

var _ domain.PushSubscriptionRepository = (*PostgresPushSubscriptionRepository)(nil)

type PostgresPushSubscriptionRepository struct {
	db *sqlx.DB
}

func NewPostgresPushSubscriptionRepository(db *sqlx.DB) *PostgresPushSubscriptionRepository {
	return &PostgresPushSubscriptionRepository{db: db}
}

// Save registers a browser endpoint. Re-subscribing refreshes its keys.
func (r *PostgresPushSubscriptionRepository) Save(ctx context.Context, sub *domain.PushSubscription) error {
	query := `
		INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth, created_at)
		VALUES (:user_id, :endpoint, :p256dh, :auth, :created_at)
		ON CONFLICT (user_id, endpoint) DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth`

	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("failed to save push subscription: %w", err)
	}
	return nil
}

func (r *PostgresPushSubscriptionRepository) Delete(ctx context.Context, userID, endpoint string) error {
	query := `DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, endpoint); err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	return nil
}

// DeleteByEndpoint drops an endpoint the push service reported as gone.
func (r *PostgresPushSubscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE endpoint = $1`, endpoint); err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	return nil
}

func (r *PostgresPushSubscriptionRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.PushSubscription, error) {
	subs := []*domain.PushSubscription{}
	query := `
		SELECT user_id, endpoint, p256dh, auth, created_at FROM push_subscriptions
		WHERE user_id = $1
		ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, err
	}
	return subs, nil
}
