// Package pipeline chains intake, normalization, recognition, structuring
// and flattening into one document-at-a-time processor.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/coverageworks/cert-intake/constants"
	"github.com/coverageworks/cert-intake/internal/common"
	"github.com/coverageworks/cert-intake/internal/document"
	"github.com/coverageworks/cert-intake/internal/imaging"
	"github.com/coverageworks/cert-intake/internal/llm"
	"github.com/coverageworks/cert-intake/internal/record"
)

// Result is the outcome of processing one document end to end.
type Result struct {
	Row      record.Row     `json:"row"`
	Document map[string]any `json:"document"`
	RawReply []byte         `json:"-"`
}

// Processor runs documents through the pipeline strictly one stage at a
// time, with no retries: a failed model call is terminal for the document.
type Processor struct {
	Logger *slog.Logger
	Docs   *document.Extractor

	mu  sync.RWMutex
	ext llm.Extractor
}

func NewProcessor(docs *document.Extractor, ext llm.Extractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Docs: docs, ext: ext}
}

// SetExtractor swaps the model client. Calls already in flight keep the
// client they started with.
func (p *Processor) SetExtractor(ext llm.Extractor) {
	p.mu.Lock()
	p.ext = ext
	p.mu.Unlock()
}

func (p *Processor) extractor() llm.Extractor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ext
}

// ProcessFile runs one file through intake, recognition, structuring and
// flattening, and returns the resulting row with its provenance.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	p.Logger.Info("pipeline.process.start", "path", path)

	data, format, err := p.Docs.LoadFile(path)
	if err != nil {
		return Result{}, err
	}

	var (
		text  string
		pages int
	)
	switch format {
	case constants.IMAGE:
		text, err = p.recognizeImage(ctx, data)
		pages = 1
	case constants.PDF:
		text, pages, err = p.recognizePDF(ctx, path, data)
	default:
		err = fmt.Errorf("%w: format %q", common.ErrUnsupported, format)
	}
	if err != nil {
		p.Logger.Error("pipeline.process.failed", "path", path, "stage", "recognize", "error", err)
		return Result{}, err
	}

	doc, raw, err := p.extractor().StructureText(ctx, text)
	if err != nil {
		p.Logger.Error("pipeline.process.failed", "path", path, "stage", "structure", "error", err)
		return Result{}, err
	}

	row := record.Row{
		FlatRecord: record.Flatten(doc),
		SourceFile: filepath.Base(path),
		PageCount:  pages,
	}

	p.Logger.Info("pipeline.process.ok",
		"path", path,
		"pages", pages,
		"template_form", row.TemplateForm,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Row: row, Document: doc, RawReply: raw}, nil
}

// recognizeImage normalizes a single scanned page and sends it to the
// vision model.
func (p *Processor) recognizeImage(ctx context.Context, data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: decode image: %v", common.ErrInvalidInput, err)
	}
	dataURL, err := imaging.EncodePNGDataURL(imaging.Normalize(src))
	if err != nil {
		return "", err
	}
	return p.extractor().RecognizeText(ctx, dataURL)
}

// recognizePDF prefers the embedded text layer; scanned PDFs fall back to
// page-by-page rasterization and vision recognition.
func (p *Processor) recognizePDF(ctx context.Context, path string, data []byte) (string, int, error) {
	pages, err := p.Docs.PageCount(data)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	text, err := p.Docs.ExtractText(data)
	if err == nil && document.HasUsefulText(text) {
		p.Logger.Info("pipeline.pdf.text_layer", "path", path, "pages", pages, "text_bytes", len(text))
		return text, pages, nil
	}

	var b bytes.Buffer
	for page := 1; page <= pages; page++ {
		pageText, err := p.recognizePage(ctx, path, page)
		if err != nil {
			return "", pages, fmt.Errorf("page %d: %w", page, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(pageText)
	}
	return b.String(), pages, nil
}

func (p *Processor) recognizePage(ctx context.Context, path string, page int) (string, error) {
	pngPath, err := p.Docs.RenderPage(ctx, path, page)
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(filepath.Dir(pngPath))

	data, err := os.ReadFile(pngPath)
	if err != nil {
		return "", err
	}
	return p.recognizeImage(ctx, data)
}
