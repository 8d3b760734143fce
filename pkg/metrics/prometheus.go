package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	ticksIngested    *prometheus.CounterVec
	ticksDropped     *prometheus.CounterVec
	candlesFinalized *prometheus.CounterVec
	signalsEmitted   *prometheus.CounterVec
	reconnects       *prometheus.CounterVec
	syntheticMode    *prometheus.GaugeVec
	lastPrice        *prometheus.GaugeVec
	errorsTotal      *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		ticksIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_ticks_ingested_total",
				Help: "Total ticks accepted from the feed",
			},
			[]string{"symbol"},
		),
		ticksDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_ticks_dropped_total",
				Help: "Total ticks discarded before aggregation",
			},
			[]string{"symbol", "reason"},
		),
		candlesFinalized: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_candles_finalized_total",
				Help: "Total candles frozen by bucket rollover",
			},
			[]string{"symbol"},
		),
		signalsEmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_signals_emitted_total",
				Help: "Total trading signals emitted",
			},
			[]string{"symbol", "strategy"},
		),
		reconnects: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_feed_reconnects_total",
				Help: "Total feed reconnection attempts",
			},
			[]string{"symbol"},
		),
		syntheticMode: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketpulse_feed_synthetic_mode",
				Help: "1 when the symbol runs on the synthetic generator",
			},
			[]string{"symbol"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketpulse_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordTickIngested(symbol string) {
	r.ticksIngested.WithLabelValues(symbol).Inc()
}

func (r *Recorder) RecordTickDropped(symbol, reason string) {
	r.ticksDropped.WithLabelValues(symbol, reason).Inc()
}

func (r *Recorder) RecordCandleFinalized(symbol string) {
	r.candlesFinalized.WithLabelValues(symbol).Inc()
}

func (r *Recorder) RecordSignalEmitted(symbol, strategy string) {
	r.signalsEmitted.WithLabelValues(symbol, strategy).Inc()
}

func (r *Recorder) RecordReconnect(symbol string) {
	r.reconnects.WithLabelValues(symbol).Inc()
}

func (r *Recorder) RecordSyntheticMode(symbol string, active bool) {
	v := 0.0
	if active {
		v = 1.0
	}
	r.syntheticMode.WithLabelValues(symbol).Set(v)
}

func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
