// Package record holds the flat certificate record, the nested-to-flat
// flattener, the append-only session store, and the XLSX export.
package record

import (
	"strconv"

	"github.com/coverageworks/cert-intake/constants"
)

// FlatRecord is the denormalized, one-level mapping used by the review form
// and the output table. Every field is a string; amounts keep the exact
// decimal text the model returned.
type FlatRecord struct {
	CertificateNumber string `json:"certificate_number"`
	TemplateForm      string `json:"template_form"`
	EffectiveDate     string `json:"effective_date"`
	ExpirationDate    string `json:"expiration_date"`
	InsuredName       string `json:"insured_name"`
	Address           string `json:"address"`
	Description       string `json:"description"`

	AutoLiabilityCompany            string `json:"auto_liability_company"`
	AutoLiabilityCurrency           string `json:"auto_liability_currency"`
	AutoLiabilityAmount             string `json:"auto_liability_amount"`
	AutoLiabilityDeductibleCurrency string `json:"auto_liability_ded_currency"`
	AutoLiabilityDeductibleAmount   string `json:"auto_liability_ded_amount"`
	AutoLiabilityExpiryDate         string `json:"auto_liability_expiry_date"`

	GeneralLiabilityCompany            string `json:"cgl_company"`
	GeneralLiabilityCurrency           string `json:"cgl_currency"`
	GeneralLiabilityAmount             string `json:"cgl_amount"`
	GeneralLiabilityDeductibleCurrency string `json:"cgl_ded_currency"`
	GeneralLiabilityDeductibleAmount   string `json:"cgl_ded_amount"`
	GeneralLiabilityExpiryDate         string `json:"cgl_expiry_date"`

	TrailerCompany            string `json:"trailer_company"`
	TrailerCurrency           string `json:"trailer_currency"`
	TrailerAmount             string `json:"trailer_amount"`
	TrailerDeductibleCurrency string `json:"trailer_ded_currency"`
	TrailerDeductibleAmount   string `json:"trailer_ded_amount"`
	TrailerExpiryDate         string `json:"trailer_expiry_date"`

	AdditionalInsured        string `json:"additional_insured"`
	CertificateHolder        string `json:"certificate_holder"`
	CancellationNoticePeriod string `json:"cancellation_notice_period"`
}

// coverageFields returns the six flattened fields of one tracked coverage
// group in schema order; the expiry date is always last.
func (r FlatRecord) coverageFields(group string) [6]string {
	switch group {
	case constants.GroupAutoLiability:
		return [6]string{
			r.AutoLiabilityCompany, r.AutoLiabilityCurrency, r.AutoLiabilityAmount,
			r.AutoLiabilityDeductibleCurrency, r.AutoLiabilityDeductibleAmount, r.AutoLiabilityExpiryDate,
		}
	case constants.GroupGeneralLiability:
		return [6]string{
			r.GeneralLiabilityCompany, r.GeneralLiabilityCurrency, r.GeneralLiabilityAmount,
			r.GeneralLiabilityDeductibleCurrency, r.GeneralLiabilityDeductibleAmount, r.GeneralLiabilityExpiryDate,
		}
	case constants.GroupNonOwnedTrailer:
		return [6]string{
			r.TrailerCompany, r.TrailerCurrency, r.TrailerAmount,
			r.TrailerDeductibleCurrency, r.TrailerDeductibleAmount, r.TrailerExpiryDate,
		}
	}
	return [6]string{}
}

// Row is a flat record plus provenance. Rows are immutable once appended;
// duplicates are allowed by design (re-processing a document yields two rows).
type Row struct {
	FlatRecord
	SourceFile string `json:"source_file"`
	PageCount  int    `json:"page_count"`
}

// ExportHeaders is the fixed column order of the exported table.
var ExportHeaders = []string{
	"Template Form", "Page Count", "Name of file",
	"Automobile Liability Insurance Company", "Automobile Liability Currency",
	"Automobile Liability Amount", "Automobile Liability DED. Currency",
	"Automobile Liability DED. Amount", "Automobile Liability Expiry Date (yyyy/mm/dd)",
	"Each occ Commercial General Liability Insurance Company", "Each occ Commercial General Liability Currency",
	"Each occ Commercial General Liability Amount", "Each occ Commercial General Liability DED. Currency",
	"Each occ Commercial General Liability DED. Amount", "Each occ Commercial General Liability Expiry Date (yyyy/mm/dd)",
	"Non-owned Trailer Insurance Company", "Non-owned Trailer Currency",
	"Non-owned Trailer Amount", "Non-owned Trailer DED. Currency",
	"Non-owned Trailer DED. Amount", "Non-owned Trailer Amount Expiry Date (yyyy/mm/dd)",
	"Additional insured", "Certificate Holder", "Cancellation Notice Period (days)",
}

// Columns renders the row in ExportHeaders order.
func (r Row) Columns() []string {
	return []string{
		r.TemplateForm, strconv.Itoa(r.PageCount), r.SourceFile,
		r.AutoLiabilityCompany, r.AutoLiabilityCurrency,
		r.AutoLiabilityAmount, r.AutoLiabilityDeductibleCurrency,
		r.AutoLiabilityDeductibleAmount, r.AutoLiabilityExpiryDate,
		r.GeneralLiabilityCompany, r.GeneralLiabilityCurrency,
		r.GeneralLiabilityAmount, r.GeneralLiabilityDeductibleCurrency,
		r.GeneralLiabilityDeductibleAmount, r.GeneralLiabilityExpiryDate,
		r.TrailerCompany, r.TrailerCurrency,
		r.TrailerAmount, r.TrailerDeductibleCurrency,
		r.TrailerDeductibleAmount, r.TrailerExpiryDate,
		r.AdditionalInsured, r.CertificateHolder, r.CancellationNoticePeriod,
	}
}
