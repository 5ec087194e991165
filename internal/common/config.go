package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration. It is constructed once at
// startup and passed by reference to every component that needs it; nothing
// reads configuration through ambient globals.
type Config struct {
	Server ServerConfig
	Intake IntakeConfig
	LLM    LLMConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// IntakeConfig holds document intake configuration.
type IntakeConfig struct {
	MaxUploadBytes int64
	PDFRenderer    string // external rasterizer for PDFs without a text layer
	WorkDir        string
}

// LLMConfig holds model endpoint configuration.
type LLMConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Configured reports whether both required credentials are present. Extraction
// calls are gated on this flag and fail fast when it is false.
func (c LLMConfig) Configured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("CERTS_HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("CERTS_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Intake: IntakeConfig{
			MaxUploadBytes: getEnvAsInt64("CERTS_MAX_UPLOAD_BYTES", 200<<20),
			PDFRenderer:    getEnv("CERTS_PDF_RENDERER", "pdftoppm"),
			WorkDir:        getEnv("CERTS_WORK_DIR", ""),
		},
		LLM: LLMConfig{
			Endpoint: getEnv("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:   getEnv("AZURE_OPENAI_API_KEY", ""),
			Timeout:  getEnvAsDuration("AZURE_OPENAI_TIMEOUT", 45*time.Second),
		},
	}
}

// Validate checks the loaded configuration for a server deployment.
// Missing credentials are not an error here: the process starts in an
// unconfigured state and credentials may arrive through the settings surface.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "CERTS_HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Intake.MaxUploadBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "CERTS_MAX_UPLOAD_BYTES must be positive", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
