package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coverageworks/cert-intake/internal/common"
	"github.com/coverageworks/cert-intake/internal/document"
	"github.com/coverageworks/cert-intake/internal/llm/azure"
	"github.com/coverageworks/cert-intake/internal/pipeline"
	"github.com/coverageworks/cert-intake/internal/record"
	"github.com/coverageworks/cert-intake/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	if !ext.Configured() {
		logger.Warn("model client not configured; set credentials via env or /v1/settings")
	}

	proc := pipeline.NewProcessor(docs, ext, logger)
	store := record.NewStore(logger)
	srv := server.New(*cfg, proc, store, docs, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
}
