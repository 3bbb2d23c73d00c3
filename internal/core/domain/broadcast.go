package domain

import (
	"net/http"
	"time"
)

// NewArrivalTitle is the notification title sent when an item is published.
const NewArrivalTitle = "New arrival"

// BroadcastIntent is the payload fanned out to every subscriber.
type BroadcastIntent struct {
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	URL    string    `json:"url,omitempty"`
	SentAt time.Time `json:"sent_at"`
}

// DeliveryOutcome classifies a single delivery attempt.
type DeliveryOutcome int

const (
	Delivered DeliveryOutcome = iota
	PermanentlyInvalid
	TransientFailure
)

func (o DeliveryOutcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case PermanentlyInvalid:
		return "permanently_invalid"
	default:
		return "transient_failure"
	}
}

// DeliveryResult is what the transport returns for one attempt. Err is set
// for anything other than Delivered.
type DeliveryResult struct {
	Outcome    DeliveryOutcome
	StatusCode int
	Err        error
}

// ClassifyStatus maps a push service response to a delivery outcome:
// 404 and 410 mean the endpoint is gone, any other non-2xx is transient.
func ClassifyStatus(status int) DeliveryOutcome {
	switch {
	case status >= 200 && status < 300:
		return Delivered
	case status == http.StatusNotFound, status == http.StatusGone:
		return PermanentlyInvalid
	default:
		return TransientFailure
	}
}

// BroadcastReport tallies one broadcast.
type BroadcastReport struct {
	Attempted int
	Delivered int
	Pruned    int // removals that committed
	Failed    int // transient failures and removals that did not commit
}
