// Package store holds the durable attendee key -> card mapping. Every
// backend merges field by field, never deletes, and returns copies.
package store

import (
	"context"
	"time"

	"welcome/internal/platform/metrics"
	"welcome/pkg/domain"
)

// Store is the profile store contract shared by every backend.
type Store interface {
	// Get returns a copy of the card for key, or an empty card if the key
	// is unknown. Unknown keys are not an error.
	Get(ctx context.Context, key domain.AttendeeKey) (domain.Card, error)

	// Merge writes each field of updates into the card for key, creating it
	// if needed, and returns the full card. The merge is durable when Merge
	// returns nil; on error nothing was committed.
	Merge(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (domain.Card, error)
}

// Instrumented records merge latency and failures for any backend.
type Instrumented struct {
	next    Store
	backend string
	metrics *metrics.Metrics
}

// Instrument wraps next; a nil m returns next unchanged.
func Instrument(next Store, backend string, m *metrics.Metrics) Store {
	if m == nil {
		return next
	}
	return &Instrumented{next: next, backend: backend, metrics: m}
}

func (s *Instrumented) Get(ctx context.Context, key domain.AttendeeKey) (domain.Card, error) {
	card, err := s.next.Get(ctx, key)
	if err != nil {
		s.metrics.IncrementStoreErrors("get")
	}
	return card, err
}

func (s *Instrumented) Merge(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (domain.Card, error) {
	start := time.Now()
	card, err := s.next.Merge(ctx, key, updates)
	s.metrics.ObserveStoreWrite(s.backend, time.Since(start).Seconds())
	if err != nil {
		s.metrics.IncrementStoreErrors("merge")
	}
	return card, err
}
