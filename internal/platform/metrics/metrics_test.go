package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementCheckIns()
	m.IncrementCheckIns()
	m.IncrementArrivals()
	m.ObservePrintJob(true, 0.2)
	m.ObservePrintJob(false, 1.5)
	m.ObserveHookDelivery(false, 0.01)
	m.SetOutstandingJobs(4)
	m.SetPrinterOpen(true)

	assert.InDelta(t, 2, testutil.ToFloat64(m.CheckIns), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Arrivals), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PrintJobs.WithLabelValues(OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PrintJobs.WithLabelValues(OutcomeFailure)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HookDeliveries.WithLabelValues(OutcomeFailure)), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(m.OutstandingJobs), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PrinterOpen), 0)

	m.SetPrinterOpen(false)
	assert.InDelta(t, 0, testutil.ToFloat64(m.PrinterOpen), 0)
}

func TestNewOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
