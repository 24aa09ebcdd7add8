// Package hooks fans events out to registered webhook recipients. Delivery
// is best effort: each recipient gets one attempt, failures are logged and
// never reach the caller.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"welcome/internal/platform/kafka/producer"
	"welcome/internal/platform/metrics"
	"welcome/internal/platform/tracer"
	dErrors "welcome/pkg/domain-errors"
	"welcome/pkg/validation"
)

const (
	defaultTimeout = 5 * time.Second

	// SignatureHeader carries the HS256 token when a signing key is set.
	SignatureHeader = "X-Welcome-Signature"
)

// Doer is the subset of *http.Client used for deliveries.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Mirror receives a copy of every dispatched event, e.g. a Kafka producer.
type Mirror interface {
	ProduceAsync(msg *producer.Message) error
}

// Event is the JSON object posted to every recipient.
type Event struct {
	ID         string
	Type       string
	Payload    map[string]string
	Extra      map[string]string
	OccurredAt time.Time
}

// MarshalJSON writes one flat object: payload fields, then Extra over them,
// then the reserved keys over both.
func (e Event) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(e.Payload)+len(e.Extra)+3)
	for k, v := range e.Payload {
		body[k] = v
	}
	for k, v := range e.Extra {
		body[k] = v
	}
	body["event_type"] = e.Type
	body["event_id"] = e.ID
	body["occurred_at"] = e.OccurredAt.UTC().Format(time.RFC3339Nano)
	return json.Marshal(body)
}

// Delivery is the outcome of one POST to one recipient.
type Delivery struct {
	Recipient  string
	StatusCode int
	Err        error
}

// Dispatch tracks one fan-out. Wait is optional.
type Dispatch struct {
	Event Event
	done  chan struct{}

	mu         sync.Mutex
	deliveries []Delivery
}

// Wait blocks until every recipient has been attempted or ctx is done.
func (d *Dispatch) Wait(ctx context.Context) ([]Delivery, error) {
	select {
	case <-d.done:
		d.mu.Lock()
		defer d.mu.Unlock()
		return slices.Clone(d.deliveries), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *Dispatch) record(del Delivery) {
	d.mu.Lock()
	d.deliveries = append(d.deliveries, del)
	d.mu.Unlock()
}

type Option func(*Dispatcher)

// Dispatcher owns the recipient registry and runs deliveries.
type Dispatcher struct {
	client  Doer
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	signer  *Signer
	mirror  Mirror
	topic   string
	timeout time.Duration
	now     func() time.Time

	mu         sync.RWMutex
	recipients []string

	inflight sync.WaitGroup
}

func New(logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		client:  http.DefaultClient,
		logger:  logger,
		tracer:  tracer.NewNoop(),
		timeout: defaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func WithClient(c Doer) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.client = c
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// WithTimeout bounds each recipient POST.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithSigner attaches a signed token to every delivery.
func WithSigner(s *Signer) Option {
	return func(d *Dispatcher) {
		d.signer = s
	}
}

// WithMirror copies every event to topic through m.
func WithMirror(m Mirror, topic string) Option {
	return func(d *Dispatcher) {
		d.mirror = m
		d.topic = topic
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// AddRecipient registers url. Adding a registered url again is a no-op.
func (d *Dispatcher) AddRecipient(url string) error {
	if err := validation.Var("url", url, "required,http_url"); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if slices.Contains(d.recipients, url) {
		return nil
	}
	d.recipients = append(d.recipients, url)
	d.reportRecipientsLocked()
	return nil
}

// RemoveRecipient unregisters url. Dispatches already started still deliver
// to it.
func (d *Dispatcher) RemoveRecipient(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := slices.Index(d.recipients, url)
	if i < 0 {
		return dErrors.New(dErrors.CodeNotFound, "recipient not registered")
	}
	d.recipients = slices.Delete(d.recipients, i, i+1)
	d.reportRecipientsLocked()
	return nil
}

// Recipients returns the registered urls in registration order.
func (d *Dispatcher) Recipients() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string{}, d.recipients...)
}

func (d *Dispatcher) reportRecipientsLocked() {
	if d.metrics != nil {
		d.metrics.SetHookRecipients(len(d.recipients))
	}
}

// DispatchEvent sends the event to every currently registered recipient in
// the background and returns immediately. Each recipient is delivered to by
// its own goroutine so a slow or failing recipient never holds up another.
func (d *Dispatcher) DispatchEvent(ctx context.Context, eventType string, payload, extra map[string]string) *Dispatch {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Payload:    clone(payload),
		Extra:      clone(extra),
		OccurredAt: d.now(),
	}
	dispatch := &Dispatch{Event: event, done: make(chan struct{})}
	recipients := d.Recipients()

	if d.metrics != nil {
		d.metrics.IncrementHookDispatches(eventType)
	}

	body, err := json.Marshal(event)
	if err != nil {
		// Only reachable with a broken Event encoder.
		d.logger.ErrorContext(ctx, "encoding hook event failed", "event_type", eventType, "error", err)
		close(dispatch.done)
		return dispatch
	}
	d.mirrorEvent(ctx, event, body)

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		defer close(dispatch.done)
		d.fanOut(context.WithoutCancel(ctx), dispatch, recipients, body)
	}()
	return dispatch
}

func (d *Dispatcher) fanOut(ctx context.Context, dispatch *Dispatch, recipients []string, body []byte) {
	ctx, span := d.tracer.Start(ctx, tracer.SpanDispatch,
		tracer.String(tracer.AttrEventType, dispatch.Event.Type),
		tracer.String(tracer.AttrEventID, dispatch.Event.ID),
		tracer.Int(tracer.AttrRecipients, len(recipients)),
	)
	defer span.End(nil)

	var g errgroup.Group
	for _, recipient := range recipients {
		g.Go(func() error {
			dispatch.record(d.deliver(ctx, dispatch.Event, recipient, body))
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, event Event, recipient string, body []byte) Delivery {
	ctx, span := d.tracer.Start(ctx, tracer.SpanDelivery, tracer.String(tracer.AttrRecipient, recipient))
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	status, err := d.post(ctx, event, recipient, body)
	elapsed := time.Since(start)
	span.SetAttributes(tracer.Int(tracer.AttrStatusCode, status))
	span.End(err)

	if d.metrics != nil {
		d.metrics.ObserveHookDelivery(err == nil, elapsed.Seconds())
	}
	if err != nil {
		d.logger.WarnContext(ctx, "hook delivery failed",
			"recipient", recipient,
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err,
		)
	} else {
		d.logger.DebugContext(ctx, "hook delivered",
			"recipient", recipient,
			"event_type", event.Type,
			"status", status,
		)
	}
	return Delivery{Recipient: recipient, StatusCode: status, Err: err}
}

func (d *Dispatcher) post(ctx context.Context, event Event, recipient string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, recipient, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.signer != nil {
		token, err := d.signer.Sign(event, body)
		if err != nil {
			return 0, fmt.Errorf("signing event: %w", err)
		}
		req.Header.Set(SignatureHeader, token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("posting event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("recipient returned %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

func (d *Dispatcher) mirrorEvent(ctx context.Context, event Event, body []byte) {
	if d.mirror == nil {
		return
	}
	err := d.mirror.ProduceAsync(&producer.Message{
		Topic: d.topic,
		Key:   []byte(event.ID),
		Value: body,
		Headers: map[string]string{
			"event_type": event.Type,
		},
	})
	if err != nil {
		d.logger.WarnContext(ctx, "mirroring hook event failed", "event_type", event.Type, "error", err)
	}
}

// Close waits for running fan-outs until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	waited := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for hook deliveries: %w", ctx.Err())
	}
}

func clone(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
