package logs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"loki-agent/internal/constants"
)

// QueryRequest represents the input arguments for the query_loki_logs tool.
// Zero values mean "not provided" and are replaced by defaults.
type QueryRequest struct {
	Query            string `json:"query" jsonschema:"LogQL query string (e.g. {job=\"system_logs\"} |= \"error\")"`
	TimeRangeMinutes int    `json:"time_range_minutes,omitempty" jsonschema:"How many minutes back from now to query (default: 60, range: 1-43200)"`
	Limit            int    `json:"limit,omitempty" jsonschema:"Maximum number of log lines to return (default: 100, range: 1-5000)"`
	Direction        string `json:"direction,omitempty" jsonschema:"Order of logs: forward for oldest first or backward for newest first (default: backward)"`
}

// TimeWindow is an absolute query window in nanoseconds since the epoch.
type TimeWindow struct {
	StartNs int64
	EndNs   int64
}

// Normalize applies defaults and rejects values Loki would misinterpret.
func (r QueryRequest) Normalize() (QueryRequest, error) {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return r, errors.New("query parameter is required")
	}

	switch {
	case r.TimeRangeMinutes == 0:
		r.TimeRangeMinutes = constants.DefaultTimeRangeMinutes
	case r.TimeRangeMinutes < 0:
		return r, fmt.Errorf("time_range_minutes must be positive, got %d", r.TimeRangeMinutes)
	case r.TimeRangeMinutes > constants.MaxTimeRangeMinutes:
		return r, fmt.Errorf("time_range_minutes must be at most %d (30 days), got %d", constants.MaxTimeRangeMinutes, r.TimeRangeMinutes)
	}

	switch {
	case r.Limit == 0:
		r.Limit = constants.DefaultLimit
	case r.Limit < 0:
		return r, fmt.Errorf("limit must be positive, got %d", r.Limit)
	case r.Limit > constants.MaxLimit:
		return r, fmt.Errorf("limit must be at most %d, got %d", constants.MaxLimit, r.Limit)
	}

	direction := strings.ToLower(strings.TrimSpace(r.Direction))
	switch direction {
	case "":
		r.Direction = constants.DefaultDirection
	case constants.DirectionForward, constants.DirectionBackward:
		r.Direction = direction
	default:
		return r, fmt.Errorf("direction must be %q or %q, got %q", constants.DirectionForward, constants.DirectionBackward, r.Direction)
	}

	return r, nil
}

// Window returns the query window ending at now.
func (r QueryRequest) Window(now time.Time) TimeWindow {
	end := now.UnixNano()
	return TimeWindow{
		StartNs: end - int64(r.TimeRangeMinutes)*int64(time.Minute),
		EndNs:   end,
	}
}
