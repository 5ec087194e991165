package azure

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Azure OpenAI chat client. Endpoint is the full deployment
// URL; authentication is a static "api-key" header.
type Config struct {
	Endpoint string // if empty, falls back to env AZURE_OPENAI_ENDPOINT
	APIKey   string // if empty, falls back to env AZURE_OPENAI_API_KEY
	Timeout  time.Duration
}

// Configured reports whether both credentials are present. Every call is
// gated on this and fails fast, with no network attempt, when it is false.
func (c Config) Configured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = os.Getenv("AZURE_OPENAI_ENDPOINT")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Configured reports whether the client holds usable credentials.
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}
