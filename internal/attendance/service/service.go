// Package service coordinates a check-in: merge the attendee's card, detect
// their first arrival at the current event, queue the badge print and tell
// the arrival handler.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"welcome/internal/platform/metrics"
	"welcome/internal/platform/tracer"
	"welcome/internal/printing/models"
	"welcome/pkg/domain"
	dErrors "welcome/pkg/domain-errors"
	"welcome/pkg/requestcontext"
)

// Store is the profile store as seen by the coordinator.
type Store interface {
	Get(ctx context.Context, key domain.AttendeeKey) (domain.Card, error)
	Merge(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (domain.Card, error)
}

// PrintQueue accepts badge print jobs without blocking.
type PrintQueue interface {
	PrintCard(ctx context.Context, card domain.Card) (domain.JobID, <-chan models.Result, error)
}

// Arrival describes the first check-in of a key at the current event.
type Arrival struct {
	Key      domain.AttendeeKey
	EventKey domain.EventKey
	Card     domain.Card
}

// ArrivalHandler is called once per key per process run. Its error is
// logged and otherwise ignored.
type ArrivalHandler func(ctx context.Context, arrival Arrival) error

// CheckIn is the outcome of a full check-in.
type CheckIn struct {
	Card    domain.Card
	JobID   domain.JobID
	Arrived bool
	Done    <-chan models.Result
}

type Option func(*Service)

type Service struct {
	store     Store
	jobs      PrintQueue
	eventKey  domain.EventKey
	onArrival ArrivalHandler
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer

	mu          sync.Mutex
	attendedSet map[domain.AttendeeKey]struct{}
}

// New builds a coordinator for eventKey. onArrival may be nil.
func New(store Store, jobs PrintQueue, eventKey domain.EventKey, onArrival ArrivalHandler, opts ...Option) *Service {
	s := &Service{
		store:       store,
		jobs:        jobs,
		eventKey:    eventKey,
		onArrival:   onArrival,
		logger:      slog.Default(),
		tracer:      tracer.NewNoop(),
		attendedSet: make(map[domain.AttendeeKey]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// EventKey returns the event this coordinator records arrivals for.
func (s *Service) EventKey() domain.EventKey {
	return s.eventKey
}

// Prefill returns the stored card for key. Read failures are logged and
// reported as an empty card.
func (s *Service) Prefill(ctx context.Context, key domain.AttendeeKey) domain.Card {
	ctx, span := s.tracer.Start(ctx, tracer.SpanPrefill, tracer.String(tracer.AttrAttendeeKey, key.String()))
	card, err := s.store.Get(ctx, key)
	span.End(err)
	if err != nil {
		s.logger.WarnContext(ctx, "prefill read failed",
			"key", key.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return domain.Card{}
	}
	return card
}

// Attend merges updates into the card for key and fires the arrival handler
// if this is the key's first check-in. The merged card is returned even when
// the handler fails.
func (s *Service) Attend(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (domain.Card, error) {
	card, arrived, err := s.record(ctx, key, updates)
	if err != nil {
		return nil, err
	}
	if arrived {
		s.notify(ctx, key, card)
	}
	return card, nil
}

// CheckIn runs Attend and queues a badge print of the merged card. It does
// not wait for the printer.
func (s *Service) CheckIn(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (*CheckIn, error) {
	card, arrived, err := s.record(ctx, key, updates)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementCheckIns()
	}

	jobID, done, printErr := s.jobs.PrintCard(ctx, card)
	if arrived {
		s.notify(ctx, key, card)
	}
	if printErr != nil {
		return nil, printErr
	}

	s.logger.InfoContext(ctx, "checked in",
		"key", key.String(),
		"job_id", int64(jobID),
		"arrived", arrived,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &CheckIn{Card: card, JobID: jobID, Arrived: arrived, Done: done}, nil
}

// record merges the card durably, then performs the arrival check-and-insert.
func (s *Service) record(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (domain.Card, bool, error) {
	if key.IsNil() {
		return nil, false, dErrors.New(dErrors.CodeBadRequest, "attendee key is required")
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanAttend,
		tracer.String(tracer.AttrAttendeeKey, key.String()),
		tracer.String(tracer.AttrEventKey, s.eventKey.String()),
		tracer.Int(tracer.AttrFieldCount, len(updates)),
	)
	card, err := s.merge(ctx, key, updates)
	if err != nil {
		span.End(err)
		s.logger.ErrorContext(ctx, "card merge failed",
			"key", key.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, false, dErrors.Wrap(err, dErrors.CodeStorage, "failed to persist card")
	}

	arrived := s.markAttended(key)
	span.SetAttributes(tracer.Bool(tracer.AttrArrived, arrived))
	span.End(nil)

	s.logger.DebugContext(ctx, "card merged", "key", key.String(), "fields", len(card))
	return card, arrived, nil
}

func (s *Service) merge(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (domain.Card, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanMerge, tracer.String(tracer.AttrAttendeeKey, key.String()))
	card, err := s.store.Merge(ctx, key, updates)
	span.End(err)
	return card, err
}

// markAttended reports whether key was absent from the attended set and is
// now present.
func (s *Service) markAttended(key domain.AttendeeKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attendedSet[key]; ok {
		return false
	}
	s.attendedSet[key] = struct{}{}
	return true
}

// attended reports whether key has arrived during this run.
func (s *Service) attended(key domain.AttendeeKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.attendedSet[key]
	return ok
}

func (s *Service) notify(ctx context.Context, key domain.AttendeeKey, card domain.Card) {
	if s.metrics != nil {
		s.metrics.IncrementArrivals()
	}
	s.logger.InfoContext(ctx, "ARRIVAL", "key", key.String(), "event_key", s.eventKey.String())
	if s.onArrival == nil {
		return
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("arrival handler panic: %v", r)
			}
		}()
		return s.onArrival(ctx, Arrival{Key: key, EventKey: s.eventKey, Card: card.Clone()})
	}()
	if err != nil {
		s.logger.ErrorContext(ctx, "arrival handler failed",
			"key", key.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}
