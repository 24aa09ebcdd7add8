package printer

import (
	"context"
	"fmt"
	"log/slog"

	"welcome/internal/platform/metrics"
	"welcome/internal/printing/service"
	"welcome/pkg/domain"
	"welcome/pkg/platform/circuit"
	"welcome/pkg/platform/sentinel"
)

// ErrPrinterDown is reported by Health while the breaker is open.
var ErrPrinterDown = fmt.Errorf("printer circuit open: %w", sentinel.ErrUnavailable)

// BreakerPrinter records every outcome of the wrapped printer in a circuit
// breaker. It never skips a job: an open circuit only marks the printer
// unhealthy until a print succeeds again.
type BreakerPrinter struct {
	next    service.Printer
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewBreaker(next service.Printer, breaker *circuit.Breaker, m *metrics.Metrics, logger *slog.Logger) *BreakerPrinter {
	return &BreakerPrinter{next: next, breaker: breaker, metrics: m, logger: logger}
}

func (p *BreakerPrinter) Print(ctx context.Context, card domain.Card) error {
	err := p.next.Print(ctx, card)
	change := p.breaker.Record(err)
	switch {
	case change.Opened:
		p.logger.ErrorContext(ctx, "printer circuit opened", "breaker", p.breaker.Name(), "error", err)
	case change.Closed:
		p.logger.InfoContext(ctx, "printer circuit closed", "breaker", p.breaker.Name())
	}
	if p.metrics != nil && (change.Opened || change.Closed) {
		p.metrics.SetPrinterOpen(change.Opened)
	}
	return err
}

// Health fails while the circuit is open.
func (p *BreakerPrinter) Health(context.Context) error {
	if p.breaker.IsOpen() {
		return ErrPrinterDown
	}
	return nil
}
