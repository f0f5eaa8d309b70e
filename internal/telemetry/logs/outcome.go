package logs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind string

const (
	OutcomeStreams OutcomeKind = "streams"
	OutcomeMetrics OutcomeKind = "metrics"
	OutcomeEmpty   OutcomeKind = "empty"
	OutcomeError   OutcomeKind = "error"
)

// ErrorKind classifies an error outcome.
type ErrorKind string

const (
	ErrInvalidRequest        ErrorKind = "invalid_request"
	ErrTransport             ErrorKind = "transport"
	ErrHTTPStatus            ErrorKind = "http_status"
	ErrTimeout               ErrorKind = "timeout"
	ErrMalformedResponse     ErrorKind = "malformed_response"
	ErrUnsupportedResultType ErrorKind = "unsupported_result_type"
	ErrUnexpected            ErrorKind = "unexpected"
)

// Empty result messages
const (
	NoStreamsMessage = "No log streams found for the given query and time range."
	NoMetricsMessage = "No metric data found for the given query and time range."
)

// StreamRecord is a single log line from a streams result.
type StreamRecord struct {
	Timestamp string
	Labels    map[string]string
	Line      string
}

// String renders the record as "[timestamp] {labels} line".
func (r StreamRecord) String() string {
	return fmt.Sprintf("[%s] {%s} %s", r.Timestamp, FormatLabels(r.Labels), r.Line)
}

// MetricSample is one point of a matrix or vector series.
type MetricSample struct {
	Timestamp string `json:"timestamp"`
	Value     string `json:"value"`
}

// MetricSeries is a labelled series from a matrix or vector result.
type MetricSeries struct {
	Labels map[string]string
	Values []MetricSample
}

// Outcome is the result of one query_loki_logs call. Exactly one of Logs,
// Metrics or Message is meaningful, selected by Kind.
type Outcome struct {
	Kind      OutcomeKind
	Logs      []StreamRecord
	Metrics   []MetricSeries
	Message   string
	ErrorKind ErrorKind
}

func streamsOutcome(records []StreamRecord) Outcome {
	return Outcome{Kind: OutcomeStreams, Logs: records}
}

func metricsOutcome(series []MetricSeries) Outcome {
	return Outcome{Kind: OutcomeMetrics, Metrics: series}
}

func emptyOutcome(message string) Outcome {
	return Outcome{Kind: OutcomeEmpty, Message: message}
}

func errorOutcome(kind ErrorKind, format string, args ...any) Outcome {
	return Outcome{Kind: OutcomeError, ErrorKind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether the outcome is an error.
func (o Outcome) IsError() bool {
	return o.Kind == OutcomeError
}

type streamsPayload struct {
	Type string   `json:"type"`
	Logs []string `json:"logs"`
}

type metricPayload struct {
	Labels string         `json:"labels"`
	Values []MetricSample `json:"values"`
}

type metricsPayload struct {
	Type string          `json:"type"`
	Data []metricPayload `json:"data"`
}

// Text renders the outcome for agent consumption. Streams and metrics become
// indented JSON documents; empty and error outcomes are their message.
func (o Outcome) Text() string {
	switch o.Kind {
	case OutcomeStreams:
		lines := make([]string, 0, len(o.Logs))
		for _, r := range o.Logs {
			lines = append(lines, r.String())
		}
		return renderJSON(streamsPayload{Type: "streams", Logs: lines})
	case OutcomeMetrics:
		data := make([]metricPayload, 0, len(o.Metrics))
		for _, s := range o.Metrics {
			values := s.Values
			if values == nil {
				values = []MetricSample{}
			}
			data = append(data, metricPayload{Labels: FormatLabels(s.Labels), Values: values})
		}
		return renderJSON(metricsPayload{Type: "metrics", Data: data})
	default:
		return o.Message
	}
}

// renderJSON formats JSON for display, leaving <, > and & unescaped since
// they are common in log lines.
func renderJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// FormatLabels joins a label set as k="v" pairs separated by ", ", with keys
// sorted so the output is stable.
func FormatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, labels[k]))
	}
	return strings.Join(parts, ", ")
}
