package metrics

import (
	"FxSignals/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	skipsTotal   *prometheus.CounterVec
	signalsTotal *prometheus.CounterVec
	confidence   *prometheus.GaugeVec
	fetchLatency *prometheus.HistogramVec
	runDuration  prometheus.Histogram
	runsTotal    *prometheus.CounterVec
	runRecords   prometheus.Gauge
	pollsTotal   *prometheus.CounterVec
}

// New creates a Prometheus metrics recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		skipsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_pair_skips_total",
				Help: "Pairs dropped from an aggregation run, by reason",
			},
			[]string{"pair", "reason"},
		),
		signalsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_signals_total",
				Help: "Signals derived, by pair and direction",
			},
			[]string{"pair", "signal"},
		),
		confidence: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxsignals_signal_confidence",
				Help: "Last confidence derived for a pair",
			},
			[]string{"pair"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxsignals_candle_fetch_seconds",
				Help:    "Duration of candle fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		runDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fxsignals_aggregation_seconds",
				Help:    "Duration of full aggregation runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		runsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_aggregations_total",
				Help: "Aggregation runs, by result",
			},
			[]string{"result"},
		),
		runRecords: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "fxsignals_aggregation_records",
				Help: "Records returned by the last successful aggregation",
			},
		),
		pollsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_dashboard_polls_total",
				Help: "Dashboard poll cycles, by result",
			},
			[]string{"result"},
		),
	}
}

// RecordSkip records a pair dropped from a run.
func (r *Recorder) RecordSkip(pair, reason string) {
	r.skipsTotal.WithLabelValues(pair, reason).Inc()
}

// RecordSignal records a derived signal and its confidence.
func (r *Recorder) RecordSignal(pair string, signal models.Signal, confidence int) {
	r.signalsTotal.WithLabelValues(pair, string(signal)).Inc()
	r.confidence.WithLabelValues(pair).Set(float64(confidence))
}

// RecordFetchLatency records candle fetch latency in seconds.
func (r *Recorder) RecordFetchLatency(source string, seconds float64) {
	r.fetchLatency.WithLabelValues(source).Observe(seconds)
}

// RecordRun records an aggregation run outcome.
func (r *Recorder) RecordRun(seconds float64, records int, err error) {
	r.runDuration.Observe(seconds)
	if err != nil {
		r.runsTotal.WithLabelValues("error").Inc()
		return
	}
	r.runsTotal.WithLabelValues("ok").Inc()
	r.runRecords.Set(float64(records))
}

// RecordPoll records a dashboard poll cycle outcome.
func (r *Recorder) RecordPoll(result string) {
	r.pollsTotal.WithLabelValues(result).Inc()
}

// Nop discards all observations.
type Nop struct{}

func (Nop) RecordSkip(string, string) {}
func (Nop) RecordSignal(string, models.Signal, int) {}
func (Nop) RecordFetchLatency(string, float64) {}
func (Nop) RecordRun(float64, int, error) {}
func (Nop) RecordPoll(string) {}
