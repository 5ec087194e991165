package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount reports the number of pages in a PDF held in memory.
func (e *Extractor) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("pdf page count: %w", err)
	}
	return n, nil
}

// ExtractText pulls the embedded text layer of every page. Scanned PDFs
// yield little or no text here; the caller falls back to rasterization in
// that case.
func (e *Extractor) ExtractText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			e.logger.Warn("document.pdf.page_text_failed", "page", i, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		for _, row := range rows {
			for _, word := range row.Content {
				b.WriteString(word.S)
				b.WriteString(" ")
			}
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// HasUsefulText reports whether the extracted text layer is substantial
// enough to skip page-image recognition.
func HasUsefulText(text string) bool {
	return len(strings.TrimSpace(text)) >= 64
}

// RenderPage rasterizes one page (1-indexed) to a PNG under the work dir and
// returns its path. The caller owns cleanup of the returned file's directory.
func (e *Extractor) RenderPage(ctx context.Context, pdfPath string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp(e.cfg.WorkDir, "certpage-*")
	if err != nil {
		return "", err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -png -r <dpi> -f N -l N -singlefile <in.pdf> <prefix>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-png",
		"-r", strconv.Itoa(e.cfg.DPI),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-singlefile",
		pdfPath, prefix,
	)
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("pdftoppm page %d: %w: %s", page, err, strings.TrimSpace(string(errb)))
	}

	out := prefix + ".png"
	if _, err := os.Stat(out); err != nil {
		os.RemoveAll(tmpDir)
		return "", fmt.Errorf("pdftoppm produced no image for page %d: %w", page, err)
	}
	return out, nil
}
