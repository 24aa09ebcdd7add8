// Package service runs print jobs in the background and tracks their
// lifecycle so callers can poll status by job id.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"welcome/internal/platform/metrics"
	"welcome/internal/platform/tracer"
	"welcome/internal/printing/models"
	"welcome/pkg/domain"
	dErrors "welcome/pkg/domain-errors"
	"welcome/pkg/platform/sentinel"
	"welcome/pkg/requestcontext"
)

// Printer performs the physical print of one flattened card.
type Printer interface {
	Print(ctx context.Context, card domain.Card) error
}

const (
	defaultTimeout = 30 * time.Second
	defaultWorkers = 1
)

type Option func(*Service)

// Service owns the job table. Job ids start at 1, increase monotonically
// and are never reused.
type Service struct {
	printer   Printer
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
	timeout   time.Duration
	retention int
	slots     chan struct{}
	now       func() time.Time

	mu        sync.RWMutex
	template  domain.Card
	sealed    bool
	closed    bool
	lastID    domain.JobID
	jobs      map[domain.JobID]*models.Job
	completed []domain.JobID

	inflight sync.WaitGroup
}

// New creates a print job manager. Options may set the template, timeout,
// concurrency and retention.
func New(printer Printer, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		printer:  printer,
		logger:   logger,
		tracer:   tracer.NewNoop(),
		timeout:  defaultTimeout,
		now:      time.Now,
		template: domain.Card{},
		jobs:     make(map[domain.JobID]*models.Job),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	if svc.slots == nil {
		svc.slots = make(chan struct{}, defaultWorkers)
	}
	return svc
}

// WithMetrics sets the metrics instance for the service.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used around each print action.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithTimeout bounds each print action. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithWorkers caps how many print actions run at once.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.slots = make(chan struct{}, n)
		}
	}
}

// WithRetention caps how many completed jobs are remembered; the oldest
// completed jobs are evicted first. Zero keeps every job.
func WithRetention(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.retention = n
		}
	}
}

// WithTemplate sets the standing template merged into every card.
func WithTemplate(tpl domain.Card) Option {
	return func(s *Service) {
		s.template = tpl.Clone()
	}
}

// WithClock overrides the time source for submission and completion stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// UpdateTemplate merges updates into the standing template. The template is
// frozen once the first job has been submitted.
func (s *Service) UpdateTemplate(updates domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return dErrors.New(dErrors.CodeConflict, "print template is read-only after the first job")
	}
	s.template = s.template.Merge(updates)
	return nil
}

// Template returns a copy of the standing template.
func (s *Service) Template() domain.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.template.Clone()
}

// PrintCard records a new Outstanding job for card merged over the template
// and starts printing in the background. It never waits for the printer.
// The returned channel yields exactly one Result and is then closed.
func (s *Service) PrintCard(ctx context.Context, card domain.Card) (domain.JobID, <-chan models.Result, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, nil, dErrors.Wrap(sentinel.ErrClosed, dErrors.CodeUnavailable, "print queue is shut down")
	}
	s.sealed = true
	s.lastID++
	job := &models.Job{
		ID:          s.lastID,
		Card:        card.WithDefaults(s.template),
		Status:      models.StatusOutstanding,
		SubmittedAt: s.now(),
	}
	s.jobs[job.ID] = job
	s.reportOutstandingLocked()
	s.inflight.Add(1)
	s.mu.Unlock()

	done := make(chan models.Result, 1)
	snapshot := job.Card.Clone()
	go s.run(context.WithoutCancel(ctx), job.ID, snapshot, done)

	return job.ID, done, nil
}

func (s *Service) run(ctx context.Context, id domain.JobID, card domain.Card, done chan<- models.Result) {
	defer s.inflight.Done()
	defer close(done)

	s.slots <- struct{}{}
	defer func() { <-s.slots }()

	ctx, span := s.tracer.Start(ctx, tracer.SpanPrint, tracer.Int64(tracer.AttrJobID, int64(id)))
	printCtx, cancel := context.WithTimeout(ctx, s.timeout)
	start := time.Now()
	err := s.print(printCtx, card)
	elapsed := time.Since(start)
	cancel()
	span.End(err)

	status := s.complete(id, err)

	if err != nil {
		s.logger.WarnContext(ctx, "print job failed",
			"job_id", int64(id),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		s.logger.InfoContext(ctx, "print job finished",
			"job_id", int64(id),
			"duration_ms", elapsed.Milliseconds(),
		)
	}
	if s.metrics != nil {
		s.metrics.ObservePrintJob(err == nil, elapsed.Seconds())
	}

	done <- models.Result{JobID: id, Status: status, Err: err}
}

// print invokes the printer once. A printer that ignores cancellation is
// abandoned at the deadline and the job fails.
func (s *Service) print(ctx context.Context, card domain.Card) error {
	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("printer panic: %v", r)
			}
		}()
		errCh <- s.printer.Print(ctx, card)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return fmt.Errorf("print timed out after %s: %w", s.timeout, ctx.Err())
	}
}

func (s *Service) complete(id domain.JobID, err error) models.Status {
	s.mu.Lock()
	job := s.jobs[id]
	job.Complete(err, s.now())
	status := job.Status
	s.completed = append(s.completed, id)
	s.evictLocked()
	s.reportOutstandingLocked()
	s.mu.Unlock()
	return status
}

func (s *Service) evictLocked() {
	if s.retention <= 0 {
		return
	}
	for len(s.completed) > s.retention {
		delete(s.jobs, s.completed[0])
		s.completed = s.completed[1:]
	}
}

func (s *Service) reportOutstandingLocked() {
	if s.metrics != nil {
		s.metrics.SetOutstandingJobs(len(s.jobs) - len(s.completed))
	}
}

// Status reports the job's state, or StatusNotFound for unknown or evicted ids.
func (s *Service) Status(id domain.JobID) models.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if job, ok := s.jobs[id]; ok {
		return job.Status
	}
	return models.StatusNotFound
}

// Job returns a copy of the job record.
func (s *Service) Job(id domain.JobID) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "print job not found")
	}
	return job.Clone(), nil
}

// OutstandingJobs returns the ids of jobs not yet completed, ascending.
func (s *Service) OutstandingJobs() []domain.JobID {
	return s.idsWithStatus(models.StatusOutstanding)
}

// FailedJobs returns the ids of failed jobs still retained, ascending.
func (s *Service) FailedJobs() []domain.JobID {
	return s.idsWithStatus(models.StatusFailed)
}

func (s *Service) idsWithStatus(status models.Status) []domain.JobID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]domain.JobID, 0)
	for _, id := range slices.Sorted(maps.Keys(s.jobs)) {
		if s.jobs[id].Status == status {
			ids = append(ids, id)
		}
	}
	return ids
}

// Close stops accepting jobs and waits for in-flight ones until ctx is done.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	waited := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for print jobs: %w", ctx.Err())
	}
}
