package record

import (
	"encoding/json"
	"strconv"

	"github.com/coverageworks/cert-intake/constants"
)

// Flatten maps a nested extraction document onto a FlatRecord using the
// fixed group-to-field mapping. Absent groups leave all their fields empty
// and absent leaves default to the empty string: partial documents are
// expected and handled silently, never reported as errors. Numeric leaves
// are stringified with their exact decimal text. Flatten is total and
// idempotent over its input.
func Flatten(doc map[string]any) FlatRecord {
	var r FlatRecord

	if info, ok := group(doc, constants.GroupCertificateInfo); ok {
		r.CertificateNumber = leaf(info, "certificateNumber")
		r.TemplateForm = leaf(info, "templateForm")
		r.EffectiveDate = leaf(info, "effectiveDate")
		r.ExpirationDate = leaf(info, "expirationDate")
		r.InsuredName = leaf(info, "insuredName")
		r.Address = leaf(info, "address")
		r.Description = leaf(info, "description")
	}

	if auto, ok := group(doc, constants.GroupAutoLiability); ok {
		r.AutoLiabilityCompany = leaf(auto, "insuranceCompany")
		r.AutoLiabilityCurrency = leaf(auto, "currency")
		r.AutoLiabilityAmount = leaf(auto, "amount")
		r.AutoLiabilityDeductibleCurrency = leaf(auto, "deductibleCurrency")
		r.AutoLiabilityDeductibleAmount = leaf(auto, "deductibleAmount")
		r.AutoLiabilityExpiryDate = leaf(auto, "expiryDate")
	}

	if cgl, ok := group(doc, constants.GroupGeneralLiability); ok {
		r.GeneralLiabilityCompany = leaf(cgl, "insuranceCompany")
		r.GeneralLiabilityCurrency = leaf(cgl, "currency")
		r.GeneralLiabilityAmount = leaf(cgl, "amount")
		r.GeneralLiabilityDeductibleCurrency = leaf(cgl, "deductibleCurrency")
		r.GeneralLiabilityDeductibleAmount = leaf(cgl, "deductibleAmount")
		r.GeneralLiabilityExpiryDate = leaf(cgl, "expiryDate")
	}

	if trailer, ok := group(doc, constants.GroupNonOwnedTrailer); ok {
		r.TrailerCompany = leaf(trailer, "insuranceCompany")
		r.TrailerCurrency = leaf(trailer, "currency")
		r.TrailerAmount = leaf(trailer, "amount")
		r.TrailerDeductibleCurrency = leaf(trailer, "deductibleCurrency")
		r.TrailerDeductibleAmount = leaf(trailer, "deductibleAmount")
		r.TrailerExpiryDate = leaf(trailer, "expiryDate")
	}

	if other, ok := group(doc, constants.GroupOther); ok {
		r.AdditionalInsured = leaf(other, "additionalInsured")
		r.CertificateHolder = leaf(other, "certificateHolder")
		r.CancellationNoticePeriod = leaf(other, "cancellationNoticePeriod")
	}

	return r
}

func group(doc map[string]any, name string) (map[string]any, bool) {
	g, ok := doc[name].(map[string]any)
	return g, ok
}

// leaf stringifies one leaf value. json.Number keeps its exact decimal text;
// other numeric types are formatted without rounding.
func leaf(g map[string]any, key string) string {
	v, ok := g[key]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case nil:
		return ""
	default:
		return ""
	}
}
