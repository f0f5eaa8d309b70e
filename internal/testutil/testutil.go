package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loki-agent/internal/models"
)

// MockConfig creates a configuration for tests pointing at lokiURL.
func MockConfig(lokiURL string) models.Config {
	return models.Config{
		LokiURL:         lokiURL,
		RequestTimeout:  5 * time.Second,
		Provider:        models.ProviderOllama,
		MaxIterations:   4,
		TurnTimeout:     30 * time.Second,
		OllamaBaseURL:   "http://localhost:11434",
		OllamaModel:     "llama3.2",
		AzureAPIVersion: "2024-06-01",
		Mode:            models.ModeREPL,
		Host:            "localhost",
		Port:            "8080",
	}
}

// NewLokiServer starts a fake Loki that answers every query_range request
// with body and status. The server is closed when the test ends.
func NewLokiServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/query_range" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}
