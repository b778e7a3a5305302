package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished = "events_published_total"
)

// Business metric names
const (
	MetricNameTransfersTotal       = "transfers_total"
	MetricNameNuggetsTransferred   = "nuggets_transferred_total"
	MetricNameNuggetsGranted       = "nuggets_granted_total"
	MetricNameWagersResolved       = "wagers_resolved_total"
	MetricNameNuggetsPaidOut       = "nuggets_paid_out_total"
	MetricNameSessionTimeouts      = "session_timeouts_total"
	MetricNameNuggetsForfeited     = "nuggets_forfeited_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished = "Total number of events published"
)

// Business metric help text
const (
	HelpTextTransfersTotal     = "Total number of completed transfers"
	HelpTextNuggetsTransferred = "Total nuggets moved between accounts"
	HelpTextNuggetsGranted     = "Total nuggets credited by admins"
	HelpTextWagersResolved     = "Total number of resolved wager sessions"
	HelpTextNuggetsPaidOut     = "Total nuggets paid out on resolved wagers"
	HelpTextSessionTimeouts    = "Total number of sessions that timed out"
	HelpTextNuggetsForfeited   = "Total nuggets forfeited to timeouts"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelGame    = "game"
	LabelOutcome = "outcome"
	LabelState   = "state"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
