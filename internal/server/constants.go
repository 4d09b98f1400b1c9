package server

// Error messages for responses that do not come from the engine
const (
	ErrMsgValidationFailed = "validation failed"
	ErrMsgInvalidJSON      = "request body must be a JSON object"
	ErrMsgBodyTooLarge     = "request body too large"
	ErrMsgTooManyRequests  = "rate limit exceeded"
	ErrMsgTimeout          = "request timed out"
	ErrMsgInternal         = "internal server error"
	ErrMsgCacheUnavailable = "cache unavailable"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRateLimited      = "Request rate limited"
	LogMsgRequestFailed    = "Request failed"
)

// HTTP headers
const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-ID"
	ContentTypeJSON   = "application/json"
)

// MaxBodyBytes caps request bodies
const MaxBodyBytes = 1 << 20

// Paths skipped by request logging
var quietPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}
