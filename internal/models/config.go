package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Supported chat model providers
const (
	ProviderOllama = "ollama"
	ProviderAzure  = "azure"
)

// Supported run modes
const (
	ModeREPL  = "repl"
	ModeStdio = "stdio"
	ModeHTTP  = "http"
)

// Config holds the process configuration parameters. It is built once in main
// and handed to every component by value.
type Config struct {
	// Loki connection settings
	LokiURL        string        // Loki base URL
	LokiAuthToken  string        // Optional static bearer token
	LokiTenantID   string        // Optional X-Scope-OrgID tenant
	RequestTimeout time.Duration // Timeout applied to every Loki request

	// Rate limiting configuration
	RequestRateLimit float64 // Maximum requests per second, <= 0 disables limiting
	RequestRateBurst int     // Maximum burst capacity for requests

	// Chat model settings
	Provider      string  // "ollama" or "azure"
	Temperature   float64 // Sampling temperature for the chat model
	MaxIterations int     // Maximum model round trips per user query
	TurnTimeout   time.Duration

	OllamaBaseURL string // Ollama server URL, without the /v1 suffix
	OllamaModel   string

	AzureEndpoint   string
	AzureAPIKey     string
	AzureDeployment string
	AzureAPIVersion string

	// Process settings
	Mode    string // "repl", "stdio" or "http"
	Host    string // HTTP listen host for Mode == "http"
	Port    string // HTTP listen port for Mode == "http"
	Debug   bool
	Verbose bool // Log every tool call made by the agent
}

// Validate checks that the configuration is usable for the selected mode.
func (c Config) Validate() error {
	if c.LokiURL == "" {
		return errors.New("Loki URL must be provided via LOKI_URL env var or -loki-url flag")
	}
	u, err := url.Parse(c.LokiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid Loki URL %q", c.LokiURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}

	switch c.Mode {
	case ModeREPL:
	case ModeStdio, ModeHTTP:
		// MCP modes serve the tool only; no chat model is needed.
		return nil
	default:
		return fmt.Errorf("unknown mode %q (want %s, %s or %s)", c.Mode, ModeREPL, ModeStdio, ModeHTTP)
	}

	if c.MaxIterations <= 0 {
		return errors.New("max iterations must be positive")
	}

	switch strings.ToLower(c.Provider) {
	case ProviderOllama:
		if c.OllamaBaseURL == "" || c.OllamaModel == "" {
			return errors.New("ollama provider requires OLLAMA_BASE_URL and a model name")
		}
	case ProviderAzure:
		var missing []string
		if c.AzureEndpoint == "" {
			missing = append(missing, "AZURE_OPENAI_ENDPOINT")
		}
		if c.AzureAPIKey == "" {
			missing = append(missing, "AZURE_OPENAI_API_KEY")
		}
		if c.AzureDeployment == "" {
			missing = append(missing, "AZURE_OPENAI_DEPLOYMENT_NAME")
		}
		if c.AzureAPIVersion == "" {
			missing = append(missing, "AZURE_OPENAI_API_VERSION")
		}
		if len(missing) > 0 {
			return fmt.Errorf("azure provider requires %s", strings.Join(missing, ", "))
		}
	default:
		return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderOllama, ProviderAzure)
	}
	return nil
}
