package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	TransfersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTransfersTotal,
			Help: HelpTextTransfersTotal,
		},
	)

	NuggetsTransferred = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameNuggetsTransferred,
			Help: HelpTextNuggetsTransferred,
		},
	)

	NuggetsGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameNuggetsGranted,
			Help: HelpTextNuggetsGranted,
		},
	)

	WagersResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWagersResolved,
			Help: HelpTextWagersResolved,
		},
		[]string{LabelGame, LabelOutcome},
	)

	NuggetsPaidOut = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameNuggetsPaidOut,
			Help: HelpTextNuggetsPaidOut,
		},
		[]string{LabelGame},
	)

	SessionTimeouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSessionTimeouts,
			Help: HelpTextSessionTimeouts,
		},
		[]string{LabelGame, LabelState},
	)

	NuggetsForfeited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameNuggetsForfeited,
			Help: HelpTextNuggetsForfeited,
		},
	)
)
