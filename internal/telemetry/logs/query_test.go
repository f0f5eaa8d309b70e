package logs

import (
	"strings"
	"testing"
	"time"
)

func TestQueryRequestWindow(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	for _, minutes := range []int{1, 5, 60, 1440, 43200} {
		req := QueryRequest{Query: `{job="x"}`, TimeRangeMinutes: minutes}
		w := req.Window(now)

		if w.StartNs >= w.EndNs {
			t.Errorf("minutes=%d: start %d not before end %d", minutes, w.StartNs, w.EndNs)
		}
		if got, want := w.EndNs-w.StartNs, int64(minutes)*60*1_000_000_000; got != want {
			t.Errorf("minutes=%d: window length = %d, want %d", minutes, got, want)
		}
		if w.EndNs != now.UnixNano() {
			t.Errorf("minutes=%d: end = %d, want %d", minutes, w.EndNs, now.UnixNano())
		}
	}
}

func TestQueryRequestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		req     QueryRequest
		want    QueryRequest
		wantErr string
	}{
		{
			name: "defaults applied when omitted",
			req:  QueryRequest{Query: `{job="system_logs"}`},
			want: QueryRequest{Query: `{job="system_logs"}`, TimeRangeMinutes: 60, Limit: 100, Direction: "backward"},
		},
		{
			name: "explicit values kept",
			req:  QueryRequest{Query: `{app="nginx"}`, TimeRangeMinutes: 10, Limit: 5, Direction: "forward"},
			want: QueryRequest{Query: `{app="nginx"}`, TimeRangeMinutes: 10, Limit: 5, Direction: "forward"},
		},
		{
			name: "direction normalized",
			req:  QueryRequest{Query: `{app="nginx"}`, Direction: " Forward "},
			want: QueryRequest{Query: `{app="nginx"}`, TimeRangeMinutes: 60, Limit: 100, Direction: "forward"},
		},
		{
			name: "limits at maximum accepted",
			req:  QueryRequest{Query: `{app="nginx"}`, TimeRangeMinutes: 43200, Limit: 5000},
			want: QueryRequest{Query: `{app="nginx"}`, TimeRangeMinutes: 43200, Limit: 5000, Direction: "backward"},
		},
		{
			name:    "empty query",
			req:     QueryRequest{Query: "   "},
			wantErr: "query parameter is required",
		},
		{
			name:    "negative time range",
			req:     QueryRequest{Query: `{app="nginx"}`, TimeRangeMinutes: -5},
			wantErr: "time_range_minutes must be positive",
		},
		{
			name:    "time range too long",
			req:     QueryRequest{Query: `{app="nginx"}`, TimeRangeMinutes: 43201},
			wantErr: "time_range_minutes must be at most",
		},
		{
			name:    "negative limit",
			req:     QueryRequest{Query: `{app="nginx"}`, Limit: -1},
			wantErr: "limit must be positive",
		},
		{
			name:    "limit too large",
			req:     QueryRequest{Query: `{app="nginx"}`, Limit: 5001},
			wantErr: "limit must be at most 5000",
		},
		{
			name:    "unknown direction",
			req:     QueryRequest{Query: `{app="nginx"}`, Direction: "sideways"},
			wantErr: `direction must be "forward" or "backward"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Normalize()
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Normalize() expected error containing %q, got none", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Normalize() error = %q, want it to contain %q", err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
