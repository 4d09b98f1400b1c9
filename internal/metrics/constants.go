package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "mortgo_http_requests_total"
	MetricNameHTTPRequestDuration  = "mortgo_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "mortgo_http_requests_in_flight"
	MetricNameRateLimited          = "mortgo_http_rate_limited_total"
)

// Business metric names
const (
	MetricNameCalculationsTotal   = "mortgo_calculations_total"
	MetricNameCalculationDuration = "mortgo_calculation_duration_seconds"
	MetricNameBindingConstraint   = "mortgo_binding_constraint_total"
	MetricNameCacheLookups        = "mortgo_cache_lookups_total"
)

// Help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"
	HelpTextRateLimited          = "Requests rejected by the rate limiter"
	HelpTextCalculationsTotal    = "Engine operations by outcome"
	HelpTextCalculationDuration  = "Engine operation latency in seconds"
	HelpTextBindingConstraint    = "Affordability results by binding DTI ceiling"
	HelpTextCacheLookups         = "Result cache lookups by outcome"
)

// Labels
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelOperation  = "operation"
	LabelOutcome    = "outcome"
	LabelConstraint = "constraint"
	LabelResult     = "result"
)

// Outcome values
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeDomain     = "domain_error"
	OutcomeError      = "error"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// HTTPLatencyBuckets are tuned for sub-second calculations
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
