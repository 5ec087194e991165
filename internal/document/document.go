// Package document handles file intake and PDF access: size and extension
// gates, page counting, embedded-text extraction, and page rasterization for
// scans that carry no text layer.
package document

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/coverageworks/cert-intake/constants"
	"github.com/coverageworks/cert-intake/internal/common"
)

type Config struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI for scanned PDFs, default 300

	MaxUploadBytes int64  // reject files larger than this
	WorkDir        string // scratch dir for rendered pages; if empty -> os.TempDir()
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = constants.MaxUploadBytes
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// LoadFile gates a file on extension and size, then reads it whole. The
// second return is the document format, constants.PDF or constants.IMAGE.
func (e *Extractor) LoadFile(path string) ([]byte, string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.IsAllowedExt(ext) {
		return nil, "", fmt.Errorf("%w: extension %q", common.ErrUnsupported, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrNotFound, err)
	}
	if info.Size() > e.cfg.MaxUploadBytes {
		return nil, "", fmt.Errorf("%w: file is %d bytes, limit is %d",
			common.ErrInvalidInput, info.Size(), e.cfg.MaxUploadBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, constants.MapExtToFormat(ext), nil
}

// CheckUploadSize gates an already-buffered upload on the configured ceiling.
func (e *Extractor) CheckUploadSize(name string, size int64) error {
	if size > e.cfg.MaxUploadBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d",
			common.ErrInvalidInput, name, size, e.cfg.MaxUploadBytes)
	}
	return nil
}
