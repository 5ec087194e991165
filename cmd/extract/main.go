package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/coverageworks/cert-intake/internal/common"
	"github.com/coverageworks/cert-intake/internal/document"
	"github.com/coverageworks/cert-intake/internal/llm/azure"
	"github.com/coverageworks/cert-intake/internal/pipeline"
)

// One-shot extraction: process a single certificate file and print the
// nested document and flattened row as JSON on stdout.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "extract <certificate-file>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	if !cfg.LLM.Configured() {
		logger.Error("AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY are required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	docs := document.NewExtractor(document.Config{
		Pdftoppm:       cfg.Intake.PDFRenderer,
		MaxUploadBytes: cfg.Intake.MaxUploadBytes,
		WorkDir:        cfg.Intake.WorkDir,
	}, logger)
	ext := azure.NewClient(azure.Config{
		Endpoint: cfg.LLM.Endpoint,
		APIKey:   cfg.LLM.APIKey,
		Timeout:  cfg.LLM.Timeout,
	}, logger)
	proc := pipeline.NewProcessor(docs, ext, logger)

	start := time.Now()
	res, err := proc.ProcessFile(ctx, path)
	if err != nil {
		logger.Error("extraction failed", "path", path, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
