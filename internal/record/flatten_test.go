package record

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlattenFullDocument(t *testing.T) {
	doc := map[string]any{
		"certificateInfo": map[string]any{
			"certificateNumber": "CRT-1042",
			"templateForm":      "Monarch",
			"effectiveDate":     "2025/01/01",
			"expirationDate":    "2026/01/01",
			"insuredName":       "Acme Trucking Ltd.",
			"address":           "12 Main St, Toronto, ON",
			"description":       "Long haul freight",
		},
		"automobileLiability": map[string]any{
			"insuranceCompany":   "Northbridge",
			"currency":           "CAD",
			"amount":             json.Number("2000000"),
			"deductibleCurrency": "CAD",
			"deductibleAmount":   json.Number("5000"),
			"expiryDate":         "2026/01/01",
		},
		"other": map[string]any{
			"additionalInsured":        "missing",
			"certificateHolder":        "To Whom it May Concern",
			"cancellationNoticePeriod": json.Number("30"),
		},
	}

	r := Flatten(doc)

	if r.CertificateNumber != "CRT-1042" || r.TemplateForm != "Monarch" {
		t.Fatalf("certificateInfo not mapped: %+v", r)
	}
	if r.AutoLiabilityAmount != "2000000" || r.AutoLiabilityDeductibleAmount != "5000" {
		t.Fatalf("amounts not stringified exactly: %+v", r)
	}
	if r.CancellationNoticePeriod != "30" {
		t.Fatalf("numeric notice period not stringified: %q", r.CancellationNoticePeriod)
	}
	// Groups absent from the document stay empty without complaint.
	if r.GeneralLiabilityCompany != "" || r.TrailerExpiryDate != "" {
		t.Fatalf("absent groups should yield empty fields: %+v", r)
	}
}

func TestFlattenEmptyDocument(t *testing.T) {
	r := Flatten(map[string]any{})
	if r != (FlatRecord{}) {
		t.Fatalf("empty document should flatten to the zero record: %+v", r)
	}
}

func TestFlattenKeepsDecimalText(t *testing.T) {
	doc := map[string]any{
		"commercialGeneralLiability": map[string]any{
			"amount": json.Number("500000.00"),
		},
	}
	r := Flatten(doc)
	if r.GeneralLiabilityAmount != "500000.00" {
		t.Fatalf("trailing zeros must survive: %q", r.GeneralLiabilityAmount)
	}
}

func TestFlattenIgnoresUnknownLeafTypes(t *testing.T) {
	doc := map[string]any{
		"automobileLiability": map[string]any{
			"insuranceCompany": []any{"not", "a", "string"},
			"currency":         nil,
			"amount":           "missing",
		},
	}
	r := Flatten(doc)
	if r.AutoLiabilityCompany != "" || r.AutoLiabilityCurrency != "" {
		t.Fatalf("unknown leaf types should map to empty: %+v", r)
	}
	if r.AutoLiabilityAmount != "missing" {
		t.Fatalf("sentinel strings pass through: %q", r.AutoLiabilityAmount)
	}
}

func TestFlattenIdempotent(t *testing.T) {
	doc := map[string]any{
		"certificateInfo": map[string]any{"insuredName": "Acme"},
		"nonOwnedTrailer": map[string]any{"amount": json.Number("50000")},
	}
	first := Flatten(doc)
	second := Flatten(doc)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("flatten must be idempotent: %+v vs %+v", first, second)
	}
}
