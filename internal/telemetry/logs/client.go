package logs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"loki-agent/internal/constants"
	"loki-agent/internal/models"

	"golang.org/x/time/rate"
)

// maxBodyInMessage caps how much of a Loki response body is echoed back in
// error messages.
const maxBodyInMessage = 1000

// Client issues query_range requests against a Loki instance. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
	tenantID   string
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *slog.Logger
	now        func() time.Time
	location   *time.Location
}

// Option configures a Client.
type Option func(*Client)

// WithClock overrides the time source used to compute query windows.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithLocation sets the location timestamps are rendered in. Defaults to
// time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.location = loc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Loki client from the process configuration. The
// http.Client timeout is set from cfg.RequestTimeout when it has none.
func NewClient(httpClient *http.Client, cfg models.Config, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	if httpClient.Timeout == 0 {
		clone := *httpClient
		clone.Timeout = timeout
		httpClient = &clone
	}

	limit := rate.Inf
	if cfg.RequestRateLimit > 0 {
		limit = rate.Limit(cfg.RequestRateLimit)
	}
	burst := cfg.RequestRateBurst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.LokiURL, "/"),
		authToken:  cfg.LokiAuthToken,
		tenantID:   cfg.LokiTenantID,
		timeout:    httpClient.Timeout,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     slog.Default(),
		now:        time.Now,
		location:   time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the Loki base URL the client queries.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// QueryLokiLogs runs a LogQL range query and reshapes the response. Every
// failure is reported as an error Outcome; it never returns a Go error.
func (c *Client) QueryLokiLogs(ctx context.Context, req QueryRequest) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("loki query panicked", "panic", r)
			outcome = errorOutcome(ErrUnexpected, "An unexpected error occurred: %v", r)
		}
	}()

	req, err := req.Normalize()
	if err != nil {
		return errorOutcome(ErrInvalidRequest, "Invalid query parameters: %v", err)
	}

	window := req.Window(c.now())
	apiURL := c.baseURL + constants.EndpointLokiQueryRange

	u, err := url.Parse(apiURL)
	if err != nil {
		return errorOutcome(ErrTransport, "Invalid Loki URL %q: %v", c.baseURL, err)
	}
	q := url.Values{}
	q.Set("query", req.Query)
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("start", strconv.FormatInt(window.StartNs, 10))
	q.Set("end", strconv.FormatInt(window.EndNs, 10))
	q.Set("direction", req.Direction)
	q.Set("interval", constants.QueryStep)
	u.RawQuery = q.Encode()

	c.logger.Info("querying loki",
		"method", http.MethodGet,
		"url", apiURL,
		"query", req.Query,
		"time_range_minutes", req.TimeRangeMinutes,
		"limit", req.Limit,
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return errorOutcome(ErrTimeout,
			"Loki query was not sent: rate limit wait aborted: %v. Retry later or lower the request rate.", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errorOutcome(ErrTransport, "failed to create request: %v", err)
	}
	httpReq.Header.Set(constants.HeaderAccept, constants.HeaderAcceptJSON)
	httpReq.Header.Set(constants.HeaderUserAgent, constants.UserAgentLokiAgent)
	if c.authToken != "" {
		httpReq.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+c.authToken)
	}
	if c.tenantID != "" {
		httpReq.Header.Set(constants.HeaderScopeOrgID, c.tenantID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.transportOutcome(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportOutcome(ctx, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorOutcome(ErrHTTPStatus,
			"Error connecting to Loki or API error: Loki returned status %d: %s. Check if Loki is running at %s.",
			resp.StatusCode, truncate(strings.TrimSpace(string(body))), c.baseURL)
	}

	outcome, err = decodeOutcome(body, c.location)
	if err != nil {
		return errorOutcome(ErrMalformedResponse,
			"Error: Loki returned invalid JSON response (%v). Response: %s", err, truncate(string(body)))
	}

	c.logger.Debug("loki query finished", "kind", outcome.Kind, "records", len(outcome.Logs), "series", len(outcome.Metrics))
	return outcome
}

// transportOutcome distinguishes timeouts from other connection failures.
// The configured request timeout is quoted only when the caller's context is
// still live.
func (c *Client) transportOutcome(ctx context.Context, err error) Outcome {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		if ctx.Err() != nil {
			return errorOutcome(ErrTimeout,
				"Loki query timed out: caller deadline exceeded: %v. Check if Loki is running at %s.", err, c.baseURL)
		}
		return errorOutcome(ErrTimeout,
			"Loki query timed out after %s: %v. Check if Loki is running at %s.", c.timeout, err, c.baseURL)
	}
	return errorOutcome(ErrTransport,
		"Error connecting to Loki or API error: %v. Check if Loki is running at %s.", err, c.baseURL)
}

// truncate cuts s to at most maxBodyInMessage bytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= maxBodyInMessage {
		return s
	}
	cut := maxBodyInMessage
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "... [truncated]"
}
