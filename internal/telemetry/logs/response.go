package logs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"loki-agent/internal/constants"
)

// queryRangeResponse is the envelope returned by /loki/api/v1/query_range.
// Result stays raw until ResultType selects its shape.
type queryRangeResponse struct {
	Status string `json:"status"`
	Data   struct {
		ResultType string          `json:"resultType"`
		Result     json.RawMessage `json:"result"`
	} `json:"data"`
}

// lokiStream is one entry of a streams result. Entries are
// [timestamp_ns_string, line]; trailing elements such as structured
// metadata are ignored.
type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// lokiSeries is one entry of a matrix or vector result. Matrix series carry
// values, vector series carry a single value.
type lokiSeries struct {
	Metric map[string]string `json:"metric"`
	Values []samplePair      `json:"values"`
	Value  *samplePair       `json:"value"`
}

// samplePair decodes [timestamp_seconds, "value"].
type samplePair struct {
	Time  time.Time
	Value string
}

func (p *samplePair) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("sample has %d elements, want 2", len(raw))
	}

	ts, err := parseSeconds(raw[0])
	if err != nil {
		return err
	}

	var value string
	if err := json.Unmarshal(raw[1], &value); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw[1], &n); err != nil {
			return fmt.Errorf("invalid sample value %s", raw[1])
		}
		value = n.String()
	}

	p.Time = ts
	p.Value = value
	return nil
}

// parseSeconds accepts a JSON number or numeric string of epoch seconds,
// possibly fractional.
func parseSeconds(raw json.RawMessage) (time.Time, error) {
	s := string(bytes.Trim(raw, `"`))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sample timestamp %s", raw)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)), nil
}

var errMissingResultType = errors.New("response is missing data.resultType")

// decodeOutcome converts a query_range body into an Outcome. Timestamps are
// rendered in loc.
func decodeOutcome(body []byte, loc *time.Location) (Outcome, error) {
	var resp queryRangeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Outcome{}, err
	}
	if resp.Data.ResultType == "" {
		return Outcome{}, errMissingResultType
	}

	switch resp.Data.ResultType {
	case constants.ResultTypeStreams:
		var streams []lokiStream
		if err := unmarshalResult(resp.Data.Result, &streams); err != nil {
			return Outcome{}, fmt.Errorf("decode streams: %w", err)
		}
		if len(streams) == 0 {
			return emptyOutcome(NoStreamsMessage), nil
		}
		return buildStreams(streams, loc)

	case constants.ResultTypeMatrix, constants.ResultTypeVector:
		var series []lokiSeries
		if err := unmarshalResult(resp.Data.Result, &series); err != nil {
			return Outcome{}, fmt.Errorf("decode %s: %w", resp.Data.ResultType, err)
		}
		if len(series) == 0 {
			return emptyOutcome(NoMetricsMessage), nil
		}
		return buildMetrics(series, loc), nil

	default:
		return errorOutcome(ErrUnsupportedResultType,
			"Loki query returned unsupported result type: %s", resp.Data.ResultType), nil
	}
}

// unmarshalResult treats a missing or null result as an empty list.
func unmarshalResult(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func buildStreams(streams []lokiStream, loc *time.Location) (Outcome, error) {
	var records []StreamRecord
	for _, s := range streams {
		for _, entry := range s.Values {
			ns, err := strconv.ParseInt(entry[0], 10, 64)
			if err != nil {
				return Outcome{}, fmt.Errorf("invalid stream timestamp %q", entry[0])
			}
			records = append(records, StreamRecord{
				Timestamp: formatTimestamp(time.Unix(0, ns), loc),
				Labels:    s.Stream,
				Line:      entry[1],
			})
		}
	}
	return streamsOutcome(records), nil
}

func buildMetrics(series []lokiSeries, loc *time.Location) Outcome {
	out := make([]MetricSeries, 0, len(series))
	for _, s := range series {
		samples := s.Values
		if len(samples) == 0 && s.Value != nil {
			samples = []samplePair{*s.Value}
		}

		values := make([]MetricSample, 0, len(samples))
		for _, p := range samples {
			values = append(values, MetricSample{
				Timestamp: formatTimestamp(p.Time, loc),
				Value:     p.Value,
			})
		}
		out = append(out, MetricSeries{Labels: s.Metric, Values: values})
	}
	return metricsOutcome(out)
}

func formatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.TimestampLayout)
}
