package record

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders the saved rows as an XLSX workbook with the fixed
// 24-column layout. An empty store exports a header-only sheet.
func ExportXLSX(rows []Row, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Certificates"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range ExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for n, r := range rows {
		for i, v := range r.Columns() {
			cell, _ := excelize.CoordinatesToCellName(i+1, n+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen the label-heavy columns
	_ = f.SetColWidth(sheet, "A", "A", 26) // template form
	_ = f.SetColWidth(sheet, "C", "C", 34) // file name
	_ = f.SetColWidth(sheet, "D", "U", 18) // coverage columns
	_ = f.SetColWidth(sheet, "V", "W", 30) // additional insured / holder

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
