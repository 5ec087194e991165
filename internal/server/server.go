// Package server exposes the intake pipeline and the session record store
// over HTTP.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coverageworks/cert-intake/constants"
	"github.com/coverageworks/cert-intake/internal/common"
	"github.com/coverageworks/cert-intake/internal/document"
	"github.com/coverageworks/cert-intake/internal/llm/azure"
	"github.com/coverageworks/cert-intake/internal/pipeline"
	"github.com/coverageworks/cert-intake/internal/record"
)

type Server struct {
	cfg     common.Config
	logger  *slog.Logger
	proc    *pipeline.Processor
	store   *record.Store
	docs    *document.Extractor
	metrics *Metrics

	mu     sync.Mutex
	llmCfg azure.Config
}

func New(cfg common.Config, proc *pipeline.Processor, store *record.Store, docs *document.Extractor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:     cfg,
		logger:  logger,
		proc:    proc,
		store:   store,
		docs:    docs,
		metrics: NewMetrics(),
		llmCfg: azure.Config{
			Endpoint: cfg.LLM.Endpoint,
			APIKey:   cfg.LLM.APIKey,
			Timeout:  cfg.LLM.Timeout,
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthz)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/v1/documents", s.processDocument)
	mux.HandleFunc("/v1/certificates", s.certificates)
	mux.HandleFunc("/v1/certificates/summary", s.certificateSummary)
	mux.HandleFunc("/v1/certificates/export", s.exportCertificates)
	mux.HandleFunc("/v1/settings", s.settings)

	return requestIDMiddleware(s.metrics.Middleware(accessLogMiddleware(s.logger, mux)))
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// processDocument accepts one multipart upload, runs it through the pipeline
// and returns the flattened record for review. Nothing is saved here; the
// client posts the reviewed row to /v1/certificates.
func (s *Server) processDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	if err := s.docs.CheckUploadSize(fileHeader.Filename, fileHeader.Size); err != nil {
		s.writeError(w, r, err)
		return
	}
	ext := constants.NormalizeExt(filepath.Ext(fileHeader.Filename))
	if !constants.IsAllowedExt(ext) {
		s.writeError(w, r, fmt.Errorf("%w: extension %q", common.ErrUnsupported, ext))
		return
	}

	path, err := s.spoolUpload(file, fileHeader.Filename, ext)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer os.RemoveAll(filepath.Dir(path))

	res, err := s.proc.ProcessFile(r.Context(), path)
	if err != nil {
		s.metrics.RecordDocument("failed")
		s.writeError(w, r, err)
		return
	}
	// Provenance should carry the uploaded name, not the spool name.
	res.Row.SourceFile = filepath.Base(fileHeader.Filename)

	s.metrics.RecordDocument("ok")
	writeJSON(w, http.StatusOK, res)
}

// spoolUpload writes the upload to a scratch file so page rasterization can
// address it by path. The caller removes the parent directory.
func (s *Server) spoolUpload(src io.Reader, name, ext string) (string, error) {
	dir, err := os.MkdirTemp(s.cfg.Intake.WorkDir, "certup-*")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, uuid.NewString()+"."+ext)
	dst, err := os.Create(path)
	if err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.RemoveAll(dir)
		return "", fmt.Errorf("spool %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return path, nil
}

func (s *Server) certificates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"total": s.store.Len(),
			"rows":  s.store.Rows(),
		})
	case http.MethodPost:
		var row record.Row
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if strings.TrimSpace(row.SourceFile) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "source_file is required"})
			return
		}
		// Reviewed forms may come back with stray case or spacing.
		if form, ok := constants.CanonicalTemplateForm(row.TemplateForm); ok {
			row.TemplateForm = string(form)
		}
		s.store.Append(row)
		s.metrics.RecordSaved()
		writeJSON(w, http.StatusCreated, map[string]any{
			"total":   s.store.Len(),
			"summary": record.Summarize(row.FlatRecord, time.Now().UTC()),
		})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (s *Server) certificateSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	sum, ok := s.store.LatestSummary(time.Now().UTC())
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: no saved certificates", common.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) exportCertificates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	data, err := record.ExportXLSX(s.store.Rows(), s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="certificates.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type settingsPayload struct {
	Endpoint       string `json:"endpoint"`
	APIKey         string `json:"api_key,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	Configured     bool   `json:"configured"`
}

// settings exposes the model-client configuration. The API key is write-only;
// GET reports only whether one is set. PUT swaps the live client so the next
// document uses the new credentials.
func (s *Server) settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		cfg := s.llmCfg
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, settingsPayload{
			Endpoint:       cfg.Endpoint,
			TimeoutSeconds: int(cfg.Timeout / time.Second),
			Configured:     cfg.Configured(),
		})
	case http.MethodPut:
		var in settingsPayload
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		s.mu.Lock()
		if in.Endpoint != "" {
			s.llmCfg.Endpoint = in.Endpoint
		}
		if in.APIKey != "" {
			s.llmCfg.APIKey = in.APIKey
		}
		if in.TimeoutSeconds > 0 {
			s.llmCfg.Timeout = time.Duration(in.TimeoutSeconds) * time.Second
		}
		cfg := s.llmCfg
		s.mu.Unlock()

		s.proc.SetExtractor(azure.NewClient(cfg, s.logger))
		s.logger.Info("settings.updated", "endpoint", cfg.Endpoint, "configured", cfg.Configured())
		writeJSON(w, http.StatusOK, settingsPayload{
			Endpoint:       cfg.Endpoint,
			TimeoutSeconds: int(cfg.Timeout / time.Second),
			Configured:     cfg.Configured(),
		})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed",
			"request_id", common.RequestIDFromContext(r.Context()),
			"path", r.URL.Path, "error", err,
		)
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
