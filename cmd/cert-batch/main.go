package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/coverageworks/cert-intake/constants"
	"github.com/coverageworks/cert-intake/internal/common"
	"github.com/coverageworks/cert-intake/internal/document"
	"github.com/coverageworks/cert-intake/internal/llm/azure"
	"github.com/coverageworks/cert-intake/internal/pipeline"
	"github.com/coverageworks/cert-intake/internal/record"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir = flag.String("dir", "", "directory of certificate files to process (required)")
		out = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "certificates.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if !cfg.LLM.Configured() {
		logger.Error("AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY are required")
		os.Exit(2)
	}

	ctx := context.Background()

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
	store := record.NewStore(logger)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Error("read directory", "dir", *dir, "error", err)
		os.Exit(1)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileExt := constants.NormalizeExt(filepath.Ext(entry.Name()))
		if constants.IsAllowedExt(fileExt) {
			paths = append(paths, filepath.Join(*dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		logger.Error("no processable files found", "dir", *dir)
		os.Exit(1)
	}

	start := time.Now()
	failed := 0
	for _, path := range paths {
		res, err := proc.ProcessFile(ctx, path)
		if err != nil {
			logger.Error("processing failed", "path", path, "error", err)
			failed++
			continue
		}
		store.Append(res.Row)
	}

	data, err := record.ExportXLSX(store.Rows(), logger)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("write output", "path", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"processed", store.Len(),
		"failed", failed,
		"out", *out,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if failed > 0 {
		os.Exit(1)
	}
}
