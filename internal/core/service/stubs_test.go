package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory subscription registry
// ---------------------------------------------------------------------------

type stubRegistry struct {
	mu      sync.Mutex
	entries map[string]domain.EndpointDescriptor
	listErr error
	upErr   error
	rmErr   error
	removed []string
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{entries: make(map[string]domain.EndpointDescriptor)}
}

func (r *stubRegistry) Upsert(_ context.Context, id string, d domain.EndpointDescriptor) error {
	if r.upErr != nil {
		return r.upErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = append(domain.EndpointDescriptor(nil), d...)
	return nil
}

func (r *stubRegistry) ListAll(_ context.Context) ([]domain.Subscription, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Subscription, 0, len(r.entries))
	for id, d := range r.entries {
		out = append(out, domain.Subscription{SubscriberID: id, Descriptor: d})
	}
	return out, nil
}

func (r *stubRegistry) Remove(_ context.Context, id string) error {
	if r.rmErr != nil {
		return r.rmErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	r.removed = append(r.removed, id)
	return nil
}

func (r *stubRegistry) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users    map[string]*domain.User
	touchErr error
	findErr  error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Touch(_ context.Context, u *domain.User, at time.Time) (bool, error) {
	if r.touchErr != nil {
		return false, r.touchErr
	}
	if existing, ok := r.users[u.UID]; ok {
		existing.LastLogin = at
		return false, nil
	}
	clone := *u
	clone.LastLogin = at
	r.users[u.UID] = &clone
	return true, nil
}

func (r *stubUserRepo) FindByUID(_ context.Context, uid string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// ---------------------------------------------------------------------------
// In-memory catalog repository
// ---------------------------------------------------------------------------

type stubCatalogRepo struct {
	items     map[string]*domain.Item
	order     []string
	seq       int
	addErr    error
	listErr   error
	listCalls int
	batches   int
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{items: make(map[string]*domain.Item)}
}

func (r *stubCatalogRepo) Add(_ context.Context, item *domain.Item) (string, error) {
	if r.addErr != nil {
		return "", r.addErr
	}
	r.seq++
	id := fmt.Sprintf("item-%d", r.seq)
	clone := *item
	clone.ID = id
	r.items[id] = &clone
	r.order = append(r.order, id)
	return id, nil
}

func (r *stubCatalogRepo) AddBatch(ctx context.Context, items []*domain.Item) ([]string, error) {
	if r.addErr != nil {
		return nil, r.addErr
	}
	r.batches++
	ids := make([]string, 0, len(items))
	for _, it := range items {
		id, _ := r.Add(ctx, it)
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *stubCatalogRepo) FindByID(_ context.Context, id string) (*domain.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	clone := *it
	return &clone, nil
}

func (r *stubCatalogRepo) List(_ context.Context, f ports.CatalogFilter) ([]*domain.Item, error) {
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Item
	for i := len(r.order) - 1; i >= 0; i-- {
		it, ok := r.items[r.order[i]]
		if !ok {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		clone := *it
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCatalogRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func (r *stubCatalogRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

// ---------------------------------------------------------------------------
// Push transport, queue and announcement stubs
// ---------------------------------------------------------------------------

type stubSender struct {
	mu       sync.Mutex
	outcomes map[string]domain.DeliveryOutcome // keyed by descriptor content
	panics   map[string]bool
	calls    map[string]int
	delay    time.Duration
}

func newStubSender() *stubSender {
	return &stubSender{
		outcomes: make(map[string]domain.DeliveryOutcome),
		panics:   make(map[string]bool),
		calls:    make(map[string]int),
	}
}

func (s *stubSender) Send(ctx context.Context, d domain.EndpointDescriptor, _ []byte) domain.DeliveryResult {
	key := string(d)
	s.mu.Lock()
	s.calls[key]++
	outcome := s.outcomes[key]
	panics := s.panics[key]
	s.mu.Unlock()

	if panics {
		panic("transport exploded")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return domain.DeliveryResult{Outcome: domain.TransientFailure, Err: ctx.Err()}
		}
	}
	switch outcome {
	case domain.PermanentlyInvalid:
		return domain.DeliveryResult{Outcome: outcome, StatusCode: 410, Err: fmt.Errorf("gone")}
	case domain.TransientFailure:
		return domain.DeliveryResult{Outcome: outcome, StatusCode: 500, Err: fmt.Errorf("boom")}
	}
	return domain.DeliveryResult{Outcome: domain.Delivered, StatusCode: 201}
}

func (s *stubSender) callsFor(d string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[d]
}

func (s *stubSender) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

type stubQueue struct {
	intents []domain.BroadcastIntent
	full    bool
}

func (q *stubQueue) Enqueue(intent domain.BroadcastIntent) bool {
	if q.full {
		return false
	}
	q.intents = append(q.intents, intent)
	return true
}

type stubAnnouncements struct {
	latest  *domain.BroadcastIntent
	saveErr error
}

func (a *stubAnnouncements) SaveLatest(_ context.Context, intent domain.BroadcastIntent) error {
	if a.saveErr != nil {
		return a.saveErr
	}
	a.latest = &intent
	return nil
}

func (a *stubAnnouncements) Latest(_ context.Context) (*domain.BroadcastIntent, error) {
	return a.latest, nil
}

type stubIssuer struct {
	issued []domain.Principal
}

func (i *stubIssuer) Issue(p domain.Principal, _ time.Duration) (string, error) {
	i.issued = append(i.issued, p)
	return "token-" + p.UID, nil
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

var (
	admin  = domain.Principal{UID: "admin-1", DisplayName: "Ama", Photo: "a.png", Role: domain.RoleAdmin}
	member = domain.Principal{UID: "user-1", DisplayName: "Kofi", Role: domain.RoleUser}
)
