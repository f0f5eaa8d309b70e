// A natural-language front end for Grafana Loki: a chat model translates
// questions into LogQL and runs them through the query_loki_logs tool, either
// in an interactive prompt or as an MCP server for external agents.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"loki-agent/internal/agent"
	"loki-agent/internal/constants"
	"loki-agent/internal/models"
	"loki-agent/internal/prompts"
	"loki-agent/internal/repl"
	"loki-agent/internal/telemetry/logs"
	"loki-agent/internal/utils"

	"github.com/joho/godotenv"
	last9mcp "github.com/last9/mcp-go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/peterbourgon/ff/v3"
)

// Version information
var (
	Version   = "dev"     // Set by goreleaser
	CommitSHA = "unknown" // Set by goreleaser
	BuildTime = "unknown" // Set by goreleaser
)

func main() {
	os.Exit(run0())
}

func run0() int {
	// Load .env file if present
	_ = godotenv.Load()

	cfg, err := setupConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 2
	}

	logger := newLogger(os.Stderr, cfg.Debug)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// setupConfig initializes and parses the configuration. Unprefixed variables
// such as LOKI_URL seed the defaults; LOKI_AGENT_* variables, a config file
// and flags override them.
func setupConfig(args []string) (models.Config, error) {
	fs := flag.NewFlagSet("loki-agent", flag.ContinueOnError)

	var cfg models.Config
	fs.StringVar(&cfg.LokiURL, "loki-url", envOr("LOKI_URL", constants.DefaultLokiURL), "Loki base URL")
	fs.StringVar(&cfg.LokiAuthToken, "loki-token", os.Getenv("LOKI_AUTH_TOKEN"), "Static bearer token sent to Loki")
	fs.StringVar(&cfg.LokiTenantID, "loki-tenant", os.Getenv("LOKI_TENANT_ID"), "Loki tenant sent as X-Scope-OrgID")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", constants.DefaultRequestTimeout, "Timeout for each Loki request")
	fs.Float64Var(&cfg.RequestRateLimit, "rate", 5, "Loki requests per second limit (0 disables)")
	fs.IntVar(&cfg.RequestRateBurst, "burst", 5, "Loki request burst capacity")

	fs.StringVar(&cfg.Provider, "provider", envOr("LLM_PROVIDER", models.ProviderOllama), "Chat model provider: ollama or azure")
	fs.Float64Var(&cfg.Temperature, "temperature", 0, "Chat model temperature")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", 8, "Maximum model calls per question")
	fs.DurationVar(&cfg.TurnTimeout, "turn-timeout", 5*time.Minute, "Maximum time to answer one question")
	fs.StringVar(&cfg.OllamaBaseURL, "ollama-url", envOr("OLLAMA_BASE_URL", "http://localhost:11434"), "Ollama base URL")
	fs.StringVar(&cfg.OllamaModel, "ollama-model", envOr("OLLAMA_MODEL", "llama3.2"), "Ollama model name (must support tool calling)")
	fs.StringVar(&cfg.AzureEndpoint, "azure-endpoint", os.Getenv("AZURE_OPENAI_ENDPOINT"), "Azure OpenAI endpoint")
	fs.StringVar(&cfg.AzureAPIKey, "azure-api-key", os.Getenv("AZURE_OPENAI_API_KEY"), "Azure OpenAI API key")
	fs.StringVar(&cfg.AzureDeployment, "azure-deployment", os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"), "Azure OpenAI deployment name")
	fs.StringVar(&cfg.AzureAPIVersion, "azure-api-version", os.Getenv("AZURE_OPENAI_API_VERSION"), "Azure OpenAI API version")

	fs.StringVar(&cfg.Mode, "mode", models.ModeREPL, "Run mode: repl, stdio (MCP) or http (MCP)")
	fs.StringVar(&cfg.Host, "host", "localhost", "HTTP listen host for -mode=http")
	fs.StringVar(&cfg.Port, "port", "8080", "HTTP listen port for -mode=http")
	fs.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging of HTTP requests")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log every tool call made by the agent")

	var configFile string
	fs.StringVar(&configFile, "config", "", "config file path")

	err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("LOKI_AGENT"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg.Provider = strings.ToLower(cfg.Provider)
	cfg.Mode = strings.ToLower(cfg.Mode)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(ctx context.Context, cfg models.Config, logger *slog.Logger, in io.Reader, out io.Writer) error {
	lokiHTTP := last9mcp.WithHTTPTracing(&http.Client{Timeout: cfg.RequestTimeout})
	lokiHTTP = utils.WrapClientWithDebug(lokiHTTP, cfg.Debug)
	lokiClient := logs.NewClient(lokiHTTP, cfg, logs.WithLogger(logger))

	logger.Info("loki-agent starting", "version", Version, "commit", CommitSHA, "mode", cfg.Mode, "loki_url", lokiClient.BaseURL())

	switch cfg.Mode {
	case models.ModeREPL:
		return runREPL(ctx, cfg, logger, lokiClient, in, out)
	case models.ModeStdio, models.ModeHTTP:
		server, err := last9mcp.NewServer("loki-agent", Version)
		if err != nil {
			return fmt.Errorf("create MCP server: %w", err)
		}
		if err := registerAllTools(server, lokiClient); err != nil {
			return fmt.Errorf("register tools: %w", err)
		}
		registerAllPrompts(server)

		if cfg.Mode == models.ModeStdio {
			return server.Server.Run(ctx, &mcp.StdioTransport{})
		}
		return NewHTTPServer(server, cfg).Start(ctx)
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

func runREPL(ctx context.Context, cfg models.Config, logger *slog.Logger, lokiClient *logs.Client, in io.Reader, out io.Writer) error {
	registry, err := newAgentRegistry(lokiClient)
	if err != nil {
		return fmt.Errorf("register agent tools: %w", err)
	}

	modelHTTP := last9mcp.WithHTTPTracing(&http.Client{Timeout: cfg.TurnTimeout})
	modelHTTP = utils.WrapClientWithDebug(modelHTTP, cfg.Debug)
	model, title := newChatModel(cfg, modelHTTP)

	executor := agent.NewExecutor(model, registry,
		agent.WithSystemPrompt(prompts.SystemPrompt),
		agent.WithMaxIterations(cfg.MaxIterations),
		agent.WithTurnTimeout(cfg.TurnTimeout),
		agent.WithExecutorLogger(logger),
		agent.WithVerbose(cfg.Verbose),
	)

	return repl.NewSession(executor, in, out, title, logger).Run(ctx)
}

// newChatModel selects the chat model backend and the banner title for it.
func newChatModel(cfg models.Config, httpClient *http.Client) (agent.ChatModel, string) {
	if cfg.Provider == models.ProviderAzure {
		return agent.NewAzureModel(httpClient, cfg.AzureEndpoint, cfg.AzureAPIKey, cfg.AzureDeployment, cfg.AzureAPIVersion, cfg.Temperature),
			"Loki Log Query Agent (Azure OpenAI)"
	}
	return agent.NewOllamaModel(httpClient, cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Temperature),
		"Loki Log Query Agent"
}
