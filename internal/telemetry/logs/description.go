package logs

// QueryLokiLogsDescription provides the description for the query_loki_logs tool
const QueryLokiLogsDescription = `Queries logs from Grafana Loki using LogQL.

Runs a range query over the last time_range_minutes minutes and returns either raw log lines
(for log stream selectors) or aggregated time series (for metric queries).

Examples of query:
- {job="system_logs"} to get all system logs.
- {job="system_logs"} |= "error" to filter for lines containing "error".
- {app="nginx", level="error"} | json | status_code=~"5.." to query specific app logs, parse JSON, and filter by status code.
- sum by (app) (count_over_time({job="system_logs"}[5m])) for aggregation.

Parameters:
- query: (Required) The LogQL query string. It is passed to Loki verbatim.
- time_range_minutes: (Optional) How many minutes back from now to query. Default: 60, maximum: 43200 (30 days).
- limit: (Optional) Maximum number of log lines to return. Default: 100, maximum: 5000.
- direction: (Optional) Order of logs, "forward" for oldest first, "backward" for newest first. Default: "backward".

Returns:
- For stream queries: {"type": "streams", "logs": ["[YYYY-MM-DD HH:MM:SS] {labels} line", ...]}
- For metric queries: {"type": "metrics", "data": [{"labels": "...", "values": [{"timestamp": "...", "value": "..."}]}]}
- A plain message when nothing matched, or an error message describing what went wrong.
The output is truncated to limit lines when more logs match.`

// QueryLokiLogsToolName is the name the tool is registered under.
const QueryLokiLogsToolName = "query_loki_logs"
