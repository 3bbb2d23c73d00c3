package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/offranel/storefront/internal/core/domain"
	"github.com/offranel/storefront/internal/core/ports"
)

func newBroadcastSvc(reg *stubRegistry, sender *stubSender, ann ports.AnnouncementStore) *BroadcastService {
	return NewBroadcastService(reg, sender, ann, BroadcastOptions{DeliveryTimeout: time.Second, Concurrency: 4}, discardLogger)
}

func seedRegistry(reg *stubRegistry, ids ...string) {
	for _, id := range ids {
		reg.entries[id] = domain.EndpointDescriptor(`{"endpoint":"https://push.example/` + id + `"}`)
	}
}

func descriptorFor(id string) string {
	return `{"endpoint":"https://push.example/` + id + `"}`
}

func TestBroadcast_ValidAndStaleSubscribers(t *testing.T) {
	reg := newStubRegistry()
	seedRegistry(reg, "A", "B")
	sender := newStubSender()
	sender.outcomes[descriptorFor("B")] = domain.PermanentlyInvalid

	report := newBroadcastSvc(reg, sender, &stubAnnouncements{}).Broadcast(context.Background(), domain.BroadcastIntent{
		Title: domain.NewArrivalTitle,
		Body:  "Red Scarf",
	})

	if report.Attempted != 2 || report.Delivered != 1 || report.Pruned != 1 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if sender.callsFor(descriptorFor("A")) != 1 || sender.callsFor(descriptorFor("B")) != 1 {
		t.Fatalf("expected one attempt each, got %v", sender.calls)
	}

	remaining, _ := reg.ListAll(context.Background())
	if len(remaining) != 1 || remaining[0].SubscriberID != "A" {
		t.Fatalf("expected registry to contain A only, got %+v", remaining)
	}
}

func TestBroadcast_ExactlyOneAttemptPerSubscriber(t *testing.T) {
	reg := newStubRegistry()
	ids := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		ids = append(ids, fmt.Sprintf("s%02d", i))
	}
	seedRegistry(reg, ids...)
	sender := newStubSender()

	report := newBroadcastSvc(reg, sender, nil).Broadcast(context.Background(), domain.BroadcastIntent{Title: "t", Body: "b"})

	if report.Attempted != 50 || report.Delivered != 50 {
		t.Fatalf("unexpected report: %+v", report)
	}
	for _, id := range ids {
		if n := sender.callsFor(descriptorFor(id)); n != 1 {
			t.Fatalf("subscriber %s: expected 1 attempt, got %d", id, n)
		}
	}
}

func TestBroadcast_TransientFailureKeepsSubscriber(t *testing.T) {
	reg := newStubRegistry()
	seedRegistry(reg, "A")
	before := string(reg.entries["A"])
	sender := newStubSender()
	sender.outcomes[descriptorFor("A")] = domain.TransientFailure

	report := newBroadcastSvc(reg, sender, nil).Broadcast(context.Background(), domain.BroadcastIntent{Title: "t"})

	if report.Failed != 1 || report.Pruned != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if got := string(reg.entries["A"]); got != before {
		t.Fatalf("descriptor changed: %s", got)
	}
	if len(reg.removed) != 0 {
		t.Fatalf("expected no removals, got %v", reg.removed)
	}
}

func TestBroadcast_FailureDoesNotStopOthers(t *testing.T) {
	reg := newStubRegistry()
	seedRegistry(reg, "bad", "gone", "good1", "good2")
	sender := newStubSender()
	sender.panics[descriptorFor("bad")] = true
	sender.outcomes[descriptorFor("gone")] = domain.PermanentlyInvalid

	report := newBroadcastSvc(reg, sender, nil).Broadcast(context.Background(), domain.BroadcastIntent{Title: "t"})

	if report.Delivered != 2 || report.Failed != 1 || report.Pruned != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if _, ok := reg.entries["bad"]; !ok {
		t.Fatal("a panicking attempt must be treated as transient, not pruned")
	}
}

func TestBroadcast_AttemptIsBoundedByTimeout(t *testing.T) {
	reg := newStubRegistry()
	seedRegistry(reg, "slow")
	sender := newStubSender()
	sender.delay = time.Minute

	svc := NewBroadcastService(reg, sender, nil, BroadcastOptions{DeliveryTimeout: 20 * time.Millisecond}, discardLogger)

	start := time.Now()
	report := svc.Broadcast(context.Background(), domain.BroadcastIntent{Title: "t"})
	if time.Since(start) > 5*time.Second {
		t.Fatal("broadcast was not bounded by the delivery timeout")
	}
	if report.Failed != 1 {
		t.Fatalf("expected timed out attempt to count as failed: %+v", report)
	}
	if _, ok := reg.entries["slow"]; !ok {
		t.Fatal("timed out subscriber must stay registered")
	}
}

func TestBroadcast_RegistryUnavailable(t *testing.T) {
	reg := newStubRegistry()
	reg.listErr = errors.New("mongo down")
	sender := newStubSender()

	report := newBroadcastSvc(reg, sender, nil).Broadcast(context.Background(), domain.BroadcastIntent{Title: "t"})

	if report.Attempted != 0 || sender.total() != 0 {
		t.Fatalf("expected no attempts, got %+v / %d", report, sender.total())
	}
}

func TestBroadcast_PruneFailureIsContained(t *testing.T) {
	reg := newStubRegistry()
	seedRegistry(reg, "gone", "ok")
	reg.rmErr = errors.New("write failed")
	sender := newStubSender()
	sender.outcomes[descriptorFor("gone")] = domain.PermanentlyInvalid

	report := newBroadcastSvc(reg, sender, nil).Broadcast(context.Background(), domain.BroadcastIntent{Title: "t"})

	if report.Delivered != 1 || report.Pruned != 0 || report.Failed != 1 {
		t.Fatalf("a failed removal must count as failed, not pruned: %+v", report)
	}
	if _, ok := reg.entries["gone"]; !ok {
		t.Fatal("expected the entry to survive a failed removal")
	}
}

func TestBroadcast_WithoutAnnouncementStore(t *testing.T) {
	reg := newStubRegistry()
	seedRegistry(reg, "A")

	svc := NewBroadcastService(reg, newStubSender(), nil, BroadcastOptions{}, discardLogger)
	report := svc.Broadcast(context.Background(), domain.BroadcastIntent{Title: "t"})

	if report.Delivered != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestBroadcast_RecordsLatestAnnouncement(t *testing.T) {
	reg := newStubRegistry()
	ann := &stubAnnouncements{}

	newBroadcastSvc(reg, newStubSender(), ann).Broadcast(context.Background(), domain.BroadcastIntent{Title: "New arrival", Body: "Red Scarf"})

	if ann.latest == nil || ann.latest.Body != "Red Scarf" {
		t.Fatalf("expected announcement to be recorded, got %+v", ann.latest)
	}
	if ann.latest.SentAt.IsZero() {
		t.Fatal("expected SentAt to be stamped")
	}
}

func TestBroadcast_AnnouncementFailureIsNonFatal(t *testing.T) {
	reg := newStubRegistry()
	seedRegistry(reg, "A")
	sender := newStubSender()

	report := newBroadcastSvc(reg, sender, &stubAnnouncements{saveErr: errors.New("redis down")}).
		Broadcast(context.Background(), domain.BroadcastIntent{Title: "t"})

	if report.Delivered != 1 {
		t.Fatalf("expected delivery despite announcement failure: %+v", report)
	}
}

func TestBroadcast_TwiceSendsTwice(t *testing.T) {
	reg := newStubRegistry()
	seedRegistry(reg, "A")
	sender := newStubSender()
	svc := newBroadcastSvc(reg, sender, nil)

	intent := domain.BroadcastIntent{Title: "t", Body: "b"}
	svc.Broadcast(context.Background(), intent)
	svc.Broadcast(context.Background(), intent)

	if n := sender.callsFor(descriptorFor("A")); n != 2 {
		t.Fatalf("expected 2 independent deliveries, got %d", n)
	}
}
