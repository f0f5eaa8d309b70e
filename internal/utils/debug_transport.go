package utils

import (
	"log/slog"
	"net/http"
	"time"
)

// DebugTransport wraps an http.RoundTripper and logs every request with its
// status and latency.
type DebugTransport struct {
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// RoundTrip implements http.RoundTripper interface
func (d *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	resp, err := d.Transport.RoundTrip(req)
	if err != nil {
		logger.Debug("http request failed", "method", req.Method, "url", req.URL.String(), "duration", time.Since(start), "error", err)
		return nil, err
	}
	logger.Debug("http request", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

// WrapClientWithDebug wraps an http.Client with debug logging if debug is enabled
func WrapClientWithDebug(client *http.Client, debug bool) *http.Client {
	if !debug {
		return client
	}

	transport := client.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &http.Client{
		Transport: &DebugTransport{Transport: transport},
		Timeout:   client.Timeout,
	}
}
