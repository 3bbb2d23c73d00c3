// Package push delivers broadcast payloads to browser push services using
// the Web Push protocol with VAPID authentication.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/offranel/storefront/internal/core/domain"
)

const (
	defaultTTL   = 24 * 60 * 60
	defaultTopic = "new-product-alert"
)

// Config holds the VAPID identity used to sign every request.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	// Subscriber is the contact the push service can reach the sender at,
	// a mailto: address or an https URL.
	Subscriber string
	TTLSeconds int
	// Topic collapses pending messages on the push service, so an offline
	// device only receives the newest announcement.
	Topic string
	// HTTPClient overrides the transport. Defaults to a client with Timeout.
	HTTPClient webpush.HTTPClient
	Timeout    time.Duration
}

// Sender implements ports.PushSender on top of webpush-go.
type Sender struct {
	opts webpush.Options
}

func NewSender(cfg Config) *Sender {
	ttl := cfg.TTLSeconds
	if ttl <= 0 {
		ttl = defaultTTL
	}
	topic := cfg.Topic
	if topic == "" {
		topic = defaultTopic
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Sender{opts: webpush.Options{
		HTTPClient:      client,
		Subscriber:      cfg.Subscriber,
		Topic:           topic,
		TTL:             ttl,
		Urgency:         webpush.UrgencyNormal,
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
	}}
}

// Send makes one delivery attempt. A descriptor that cannot be decoded is
// reported as transient: only the push service may declare an endpoint gone.
func (s *Sender) Send(ctx context.Context, d domain.EndpointDescriptor, payload []byte) domain.DeliveryResult {
	var sub webpush.Subscription
	if err := json.Unmarshal(d, &sub); err != nil {
		return domain.DeliveryResult{Outcome: domain.TransientFailure, Err: fmt.Errorf("decode descriptor: %w", err)}
	}
	if sub.Endpoint == "" {
		return domain.DeliveryResult{Outcome: domain.TransientFailure, Err: fmt.Errorf("decode descriptor: missing endpoint")}
	}

	opts := s.opts
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &sub, &opts)
	if err != nil {
		return domain.DeliveryResult{Outcome: domain.TransientFailure, Err: fmt.Errorf("send notification: %w", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	outcome := domain.ClassifyStatus(resp.StatusCode)
	result := domain.DeliveryResult{Outcome: outcome, StatusCode: resp.StatusCode}
	if outcome != domain.Delivered {
		result.Err = fmt.Errorf("push service responded %d", resp.StatusCode)
	}
	return result
}
