package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/offranel/storefront/internal/api/metrics"
	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

const (
	defaultDeliveryTimeout = 10 * time.Second
	defaultConcurrency     = 16
)

// BroadcastOptions tunes the fan-out.
type BroadcastOptions struct {
	// DeliveryTimeout bounds a single delivery attempt.
	DeliveryTimeout time.Duration
	// Concurrency caps the number of attempts in flight.
	Concurrency int
}

// BroadcastService fans a broadcast intent out to every registered endpoint
// and prunes endpoints the push service reports as gone. It is the only
// component that deletes from the subscription registry.
type BroadcastService struct {
	registry      ports.SubscriptionRepository
	sender        ports.PushSender
	announcements ports.AnnouncementStore
	opts          BroadcastOptions
	log           zerolog.Logger
}

func NewBroadcastService(
	registry ports.SubscriptionRepository,
	sender ports.PushSender,
	announcements ports.AnnouncementStore,
	opts BroadcastOptions,
	log zerolog.Logger,
) *BroadcastService {
	if opts.DeliveryTimeout <= 0 {
		opts.DeliveryTimeout = defaultDeliveryTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &BroadcastService{
		registry:      registry,
		sender:        sender,
		announcements: announcements,
		opts:          opts,
		log:           log,
	}
}

// pushPayload is the JSON the service worker reads in its push handler.
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Broadcast makes exactly one delivery attempt per subscriber present in the
// registry snapshot. Attempts are isolated from each other: an error, timeout
// or panic in one never reaches the others or the caller.
func (s *BroadcastService) Broadcast(ctx context.Context, intent domain.BroadcastIntent) domain.BroadcastReport {
	start := time.Now()
	if intent.SentAt.IsZero() {
		intent.SentAt = start.UTC()
	}

	var report domain.BroadcastReport

	subs, err := s.registry.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("title", intent.Title).Msg("broadcast aborted: cannot read subscription registry")
		return report
	}

	if s.announcements != nil {
		if err := s.announcements.SaveLatest(ctx, intent); err != nil {
			s.log.Warn().Err(err).Msg("failed to record latest announcement")
		}
	}

	payload, err := json.Marshal(pushPayload{Title: intent.Title, Body: intent.Body, URL: intent.URL})
	if err != nil {
		s.log.Error().Err(err).Msg("broadcast aborted: cannot encode payload")
		return report
	}

	report.Attempted = len(subs)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.opts.Concurrency)
	for _, sub := range subs {
		g.Go(func() error {
			outcome, pruned := s.deliver(ctx, sub, payload)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case outcome == domain.Delivered:
				report.Delivered++
			case pruned:
				report.Pruned++
			default:
				report.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	metrics.BroadcastDuration.Observe(time.Since(start).Seconds())
	s.log.Info().
		Str("title", intent.Title).
		Int("attempted", report.Attempted).
		Int("delivered", report.Delivered).
		Int("pruned", report.Pruned).
		Int("failed", report.Failed).
		Dur("took", time.Since(start)).
		Msg("broadcast finished")

	return report
}

// deliver runs one attempt and applies the pruning policy to its outcome.
// pruned is true only when the registry removal committed.
func (s *BroadcastService) deliver(ctx context.Context, sub domain.Subscription, payload []byte) (outcome domain.DeliveryOutcome, pruned bool) {
	res := s.attempt(ctx, sub, payload)
	metrics.PushDeliveriesTotal.WithLabelValues(res.Outcome.String()).Inc()

	switch res.Outcome {
	case domain.Delivered:
	case domain.PermanentlyInvalid:
		if err := s.registry.Remove(ctx, sub.SubscriberID); err != nil {
			s.log.Warn().Err(err).Str("subscriber_id", sub.SubscriberID).Msg("failed to prune dead endpoint")
			break
		}
		pruned = true
		metrics.PushSubscriptionsPrunedTotal.Inc()
		s.log.Info().
			Str("subscriber_id", sub.SubscriberID).
			Int("status", res.StatusCode).
			Msg("dead endpoint pruned")
	default:
		s.log.Warn().
			Err(res.Err).
			Str("subscriber_id", sub.SubscriberID).
			Int("status", res.StatusCode).
			Msg("push delivery failed")
	}
	return res.Outcome, pruned
}

func (s *BroadcastService) attempt(ctx context.Context, sub domain.Subscription, payload []byte) (res domain.DeliveryResult) {
	defer func() {
		if r := recover(); r != nil {
			res = domain.DeliveryResult{
				Outcome: domain.TransientFailure,
				Err:     fmt.Errorf("push attempt panicked: %v", r),
			}
		}
	}()

	attemptCtx, cancel := context.WithTimeout(ctx, s.opts.DeliveryTimeout)
	defer cancel()
	return s.sender.Send(attemptCtx, sub.Descriptor, payload)
}
