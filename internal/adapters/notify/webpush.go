package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/comitanigiacomo/trackloom/internal/core/domain"
	"github.com/comitanigiacomo/trackloom/internal/logger"
)

var _ domain.Notifier = (*WebPushNotifier)(nil)

type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subject    string
}

type sendFunc func(ctx context.Context, payload []byte, sub *webpush.Subscription, opts *webpush.Options) (*http.Response, error)

// WebPushNotifier delivers a notification to every browser subscription of
// the user. Endpoints the push service rejects as gone are removed.
type WebPushNotifier struct {
	subscriptions domain.PushSubscriptionRepository
	options       *webpush.Options
	send          sendFunc
}

func NewWebPushNotifier(subscriptions domain.PushSubscriptionRepository, cfg VAPIDConfig) *WebPushNotifier {
	return &WebPushNotifier{
		subscriptions: subscriptions,
		options: &webpush.Options{
			Subscriber:      cfg.Subject,
			VAPIDPublicKey:  cfg.PublicKey,
			VAPIDPrivateKey: cfg.PrivateKey,
			TTL:             30,
			Urgency:         webpush.UrgencyHigh,
		},
		send: webpush.SendNotificationWithContext,
	}
}

func (n *WebPushNotifier) Notify(ctx context.Context, userID string, notification domain.Notification) error {
	subs, err := n.subscriptions.ListByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch subscriptions: %w", err)
	}
	if len(subs) == 0 {
		logger.Debug("no push subscriptions, skipping", "user_id", userID)
		return nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	sent, failed := 0, 0
	for _, sub := range subs {
		if err := n.deliver(ctx, payload, sub); err != nil {
			logger.Warn("push delivery failed", "user_id", userID, "endpoint", shortEndpoint(sub.Endpoint), "err", err)
			failed++
			continue
		}
		sent++
	}

	logger.Debug("push summary", "user_id", userID, "sent", sent, "failed", failed)

	if sent == 0 {
		return fmt.Errorf("failed to send any push notifications (attempted %d)", failed)
	}
	return nil
}

func (n *WebPushNotifier) deliver(ctx context.Context, payload []byte, sub *domain.PushSubscription) error {
	resp, err := n.send(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, n.options)

	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		if resp != nil && isGone(resp.StatusCode) {
			n.drop(ctx, sub.Endpoint, resp.StatusCode)
		}
		return err
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if isGone(resp.StatusCode) || resp.StatusCode == http.StatusForbidden {
			n.drop(ctx, sub.Endpoint, resp.StatusCode)
		}
		return fmt.Errorf("push service responded %d: %s", resp.StatusCode, body)
	}
	return nil
}

// drop removes a subscription the push service will never accept again.
// A 403 means the VAPID keys changed; the client re-subscribes with the new ones.
func (n *WebPushNotifier) drop(ctx context.Context, endpoint string, status int) {
	if err := n.subscriptions.DeleteByEndpoint(ctx, endpoint); err != nil {
		logger.Warn("failed to remove stale subscription", "endpoint", shortEndpoint(endpoint), "err", err)
		return
	}
	logger.Info("removed stale push subscription", "endpoint", shortEndpoint(endpoint), "status", status)
}

func isGone(status int) bool {
	return status == http.StatusGone || status == http.StatusNotFound
}

func shortEndpoint(endpoint string) string {
	if len(endpoint) > 50 {
		return endpoint[:50] + "..."
	}
	return endpoint
}
