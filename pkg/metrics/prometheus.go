package metrics

import (
	domrepo "FinScore/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	_ domrepo.Metrics = (*Recorder)(nil)
	_ domrepo.Metrics = Nop{}
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal    *prometheus.CounterVec
	scanSymbols   *prometheus.HistogramVec
	scanDuration  *prometheus.HistogramVec
	droppedTotal  *prometheus.CounterVec
	signalsTotal  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	cacheTotal    *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
}

// NewRegistry returns a registry preloaded with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates a new Prometheus metrics recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		scansTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscore_scans_total",
				Help: "Completed batch scans by kind",
			},
			[]string{"kind"},
		),
		scanSymbols: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finscore_scan_symbols",
				Help:    "Symbols scored per scan",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
			[]string{"kind"},
		),
		scanDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finscore_scan_duration_seconds",
				Help:    "Wall time of a batch scan",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"kind"},
		),
		droppedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscore_symbols_dropped_total",
				Help: "Symbols excluded from a scan by reason",
			},
			[]string{"kind", "reason"},
		),
		signalsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscore_signals_total",
				Help: "Momentum signals emitted by classification",
			},
			[]string{"signal"},
		),
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finscore_fetch_duration_seconds",
				Help:    "Duration of data collaborator calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		fetchErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscore_fetch_errors_total",
				Help: "Failed data collaborator calls",
			},
			[]string{"source"},
		),
		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscore_cache_requests_total",
				Help: "Provider cache lookups",
			},
			[]string{"kind", "result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finscore_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordScan records one finished scan.
func (r *Recorder) RecordScan(kind string, symbols int, seconds float64) {
	r.scansTotal.WithLabelValues(kind).Inc()
	r.scanSymbols.WithLabelValues(kind).Observe(float64(symbols))
	r.scanDuration.WithLabelValues(kind).Observe(seconds)
}

// RecordDropped records a symbol silently excluded from results.
func (r *Recorder) RecordDropped(kind, reason string) {
	r.droppedTotal.WithLabelValues(kind, reason).Inc()
}

// RecordSignal records an emitted classification.
func (r *Recorder) RecordSignal(signal string) {
	r.signalsTotal.WithLabelValues(signal).Inc()
}

// RecordFetch records a data collaborator call.
func (r *Recorder) RecordFetch(source string, seconds float64, err error) {
	r.fetchDuration.WithLabelValues(source).Observe(seconds)
	if err != nil {
		r.fetchErrors.WithLabelValues(source).Inc()
	}
}

// RecordCache records a cache lookup.
func (r *Recorder) RecordCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheTotal.WithLabelValues(kind, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// Nop discards all measurements.
type Nop struct{}

func (Nop) RecordScan(string, int, float64)    {}
func (Nop) RecordDropped(string, string)       {}
func (Nop) RecordSignal(string)                {}
func (Nop) RecordFetch(string, float64, error) {}
func (Nop) RecordCache(string, bool)           {}
func (Nop) RecordError(string)                 {}
