package constants

import "time"

// API Endpoints
const (
	// Loki API endpoints
	EndpointLokiQueryRange = "/loki/api/v1/query_range"

	// Default Loki URL when LOKI_URL is not set
	DefaultLokiURL = "http://localhost:3100"
)

// Query defaults and bounds for the query_loki_logs tool
const (
	DefaultTimeRangeMinutes = 60
	DefaultLimit            = 100
	DefaultDirection        = DirectionBackward

	// MaxLimit mirrors Loki's default max_entries_limit_per_query.
	MaxLimit = 5000
	// MaxTimeRangeMinutes is 30 days.
	MaxTimeRangeMinutes = 30 * 24 * 60

	DirectionForward  = "forward"
	DirectionBackward = "backward"

	// QueryStep is sent as the interval parameter on every range query.
	QueryStep = "1m"

	DefaultRequestTimeout = 30 * time.Second
)

// Result types reported by Loki in data.resultType
const (
	ResultTypeStreams = "streams"
	ResultTypeMatrix  = "matrix"
	ResultTypeVector  = "vector"
)

// HTTP Headers
const (
	HeaderAccept          = "Accept"
	HeaderAuthorization   = "Authorization"
	HeaderScopeOrgID      = "X-Scope-OrgID"
	HeaderUserAgent       = "User-Agent"
	HeaderAcceptJSON      = "application/json"
	HeaderContentType     = "Content-Type"
	HeaderContentTypeJSON = "application/json"
)

// Bearer token prefix
const BearerPrefix = "Bearer "

// User Agent
const UserAgentLokiAgent = "Loki-Agent/1.0"

// TimestampLayout is the second-precision layout used for every rendered timestamp.
const TimestampLayout = "2006-01-02 15:04:05"
