package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds all Prometheus metrics for the check-in service.
type Metrics struct {
	CheckIns          prometheus.Counter
	Arrivals          prometheus.Counter
	StoreWriteLatency *prometheus.HistogramVec
	StoreErrors       *prometheus.CounterVec

	// Printing
	PrintJobs       *prometheus.CounterVec
	OutstandingJobs prometheus.Gauge
	PrintLatency    prometheus.Histogram
	PrinterOpen     prometheus.Gauge

	// Hooks
	HookDispatches      *prometheus.CounterVec
	HookDeliveries      *prometheus.CounterVec
	HookDeliveryLatency prometheus.Histogram
	HookRecipients      prometheus.Gauge
}

// New creates all metrics and registers them on reg. Tests pass a fresh
// prometheus.NewRegistry(); main passes prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CheckIns: f.NewCounter(prometheus.CounterOpts{
			Name: "welcome_checkins_total",
			Help: "Total number of attend requests",
		}),
		Arrivals: f.NewCounter(prometheus.CounterOpts{
			Name: "welcome_arrivals_total",
			Help: "Attendees seen for the first time by this process",
		}),
		StoreWriteLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "welcome_store_write_latency_seconds",
			Help:    "Latency of profile merges, labeled by backend",
			Buckets: prometheus.DefBuckets,
		}, []string{"backend"}),
		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "welcome_store_errors_total",
			Help: "Profile store failures, labeled by operation",
		}, []string{"op"}),
		PrintJobs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "welcome_print_jobs_total",
			Help: "Completed print jobs, labeled by outcome",
		}, []string{"outcome"}),
		OutstandingJobs: f.NewGauge(prometheus.GaugeOpts{
			Name: "welcome_print_jobs_outstanding",
			Help: "Print jobs submitted but not yet finished or failed",
		}),
		PrintLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "welcome_print_latency_seconds",
			Help:    "Time spent in the printer per job",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		PrinterOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "welcome_printer_circuit_open",
			Help: "1 when the printer circuit breaker is open",
		}),
		HookDispatches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "welcome_hook_dispatches_total",
			Help: "Events dispatched to recipients, labeled by event type",
		}, []string{"event_type"}),
		HookDeliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "welcome_hook_deliveries_total",
			Help: "Per-recipient deliveries, labeled by outcome",
		}, []string{"outcome"}),
		HookDeliveryLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "welcome_hook_delivery_latency_seconds",
			Help:    "Latency of a single recipient POST",
			Buckets: prometheus.DefBuckets,
		}),
		HookRecipients: f.NewGauge(prometheus.GaugeOpts{
			Name: "welcome_hook_recipients",
			Help: "Number of registered hook recipients",
		}),
	}
}

func (m *Metrics) IncrementCheckIns() {
	m.CheckIns.Inc()
}

func (m *Metrics) IncrementArrivals() {
	m.Arrivals.Inc()
}

// ObserveStoreWrite records the latency of one merge on the given backend.
func (m *Metrics) ObserveStoreWrite(backend string, durationSeconds float64) {
	m.StoreWriteLatency.WithLabelValues(backend).Observe(durationSeconds)
}

func (m *Metrics) IncrementStoreErrors(op string) {
	m.StoreErrors.WithLabelValues(op).Inc()
}

// ObservePrintJob records a finished or failed job.
func (m *Metrics) ObservePrintJob(success bool, durationSeconds float64) {
	m.PrintJobs.WithLabelValues(outcome(success)).Inc()
	m.PrintLatency.Observe(durationSeconds)
}

func (m *Metrics) SetOutstandingJobs(n int) {
	m.OutstandingJobs.Set(float64(n))
}

func (m *Metrics) SetPrinterOpen(open bool) {
	if open {
		m.PrinterOpen.Set(1)
		return
	}
	m.PrinterOpen.Set(0)
}

func (m *Metrics) IncrementHookDispatches(eventType string) {
	m.HookDispatches.WithLabelValues(eventType).Inc()
}

// ObserveHookDelivery records one recipient POST.
func (m *Metrics) ObserveHookDelivery(success bool, durationSeconds float64) {
	m.HookDeliveries.WithLabelValues(outcome(success)).Inc()
	m.HookDeliveryLatency.Observe(durationSeconds)
}

func (m *Metrics) SetHookRecipients(n int) {
	m.HookRecipients.Set(float64(n))
}

func outcome(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
