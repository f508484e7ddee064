// Package metrics exposes Prometheus instruments for the sync engine.
//
// A nil *Recorder is valid and records nothing, so components can be built
// without a registry in tests.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "offline_sync"

// Outcome labels for request counters.
const (
	OutcomeSynced  = "synced"
	OutcomeRetried = "retried"
	OutcomeDropped = "dropped"
)

type Recorder struct {
	requests     *prometheus.CounterVec
	enqueued     prometheus.Counter
	passes       *prometheus.CounterVec
	passDuration prometheus.Histogram
	queueLength  prometheus.Gauge
	online       prometheus.Gauge
}

// New creates the instruments and registers them with reg. Pass
// prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Queued requests processed by sync passes, by outcome.",
			},
			[]string{"outcome"},
		),
		enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enqueued_total",
			Help:      "Requests added to the offline queue.",
		}),
		passes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_passes_total",
				Help:      "Completed sync passes, by result.",
			},
			[]string{"success"},
		),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_pass_duration_seconds",
			Help:      "Duration of sync passes that reached the transport.",
			Buckets:   prometheus.DefBuckets,
		}),
		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Requests currently waiting in the offline queue.",
		}),
		online: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online",
			Help:      "1 when the device is considered online.",
		}),
	}

	for _, c := range []prometheus.Collector{r.requests, r.enqueued, r.passes, r.passDuration, r.queueLength, r.online} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// IncRequest counts one processed request with the given outcome.
func (r *Recorder) IncRequest(outcome string) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(outcome).Inc()
}

func (r *Recorder) IncEnqueued() {
	if r == nil {
		return
	}
	r.enqueued.Inc()
}

// ObservePass records a finished pass.
func (r *Recorder) ObservePass(success bool, d time.Duration) {
	if r == nil {
		return
	}
	label := "false"
	if success {
		label = "true"
	}
	r.passes.WithLabelValues(label).Inc()
	r.passDuration.Observe(d.Seconds())
}

func (r *Recorder) SetQueueLength(n int) {
	if r == nil {
		return
	}
	r.queueLength.Set(float64(n))
}

func (r *Recorder) SetOnline(online bool) {
	if r == nil {
		return
	}
	if online {
		r.online.Set(1)
		return
	}
	r.online.Set(0)
}
