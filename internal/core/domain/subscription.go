package domain

import (
	"bytes"
	"time"
)

// EndpointDescriptor is the push endpoint bundle produced by the browser
// (endpoint URL plus encryption keys). It is stored and handed back to the
// transport untouched.
type EndpointDescriptor []byte

// Empty reports whether the descriptor carries nothing worth storing.
func (d EndpointDescriptor) Empty() bool {
	trimmed := bytes.TrimSpace(d)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Subscription is one entry of the subscription registry.
type Subscription struct {
	SubscriberID string
	Descriptor   EndpointDescriptor
	UpdatedAt    time.Time
}
