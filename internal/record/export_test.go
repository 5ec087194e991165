package record

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportXLSXHeaderOnly(t *testing.T) {
	data, err := ExportXLSX(nil, nil)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Certificates")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header row only, got %d rows", len(rows))
	}
	if len(rows[0]) != len(ExportHeaders) {
		t.Fatalf("expected %d columns, got %d", len(ExportHeaders), len(rows[0]))
	}
	for i, h := range ExportHeaders {
		if rows[0][i] != h {
			t.Fatalf("column %d: expected %q, got %q", i, h, rows[0][i])
		}
	}
}

func TestExportXLSXRows(t *testing.T) {
	saved := []Row{testRow("first.pdf"), testRow("second.jpg")}
	data, err := ExportXLSX(saved, nil)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Certificates")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "Monarch" || rows[1][1] != "2" || rows[1][2] != "first.pdf" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][2] != "second.jpg" {
		t.Fatalf("unexpected second row: %v", rows[2])
	}
}
