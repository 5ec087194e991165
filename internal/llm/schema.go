package llm

import "encoding/json"

// BuildCertificateJSONSchema returns the nested extraction schema as a
// draft 2020-12 subset map. It is embedded in the structuring prompt: every
// leaf is required so the model keys each field even when the value is a
// sentinel ("missing" / "[unclear]").
func BuildCertificateJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"certificateInfo": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"certificateNumber": stringProp(),
					"templateForm":      stringProp(),
					"effectiveDate":     dateProp(),
					"expirationDate":    dateProp(),
					"insuredName":       stringProp(),
					"address":           stringProp(),
					"description":       stringProp(),
				},
				"required": []string{
					"certificateNumber", "templateForm", "effectiveDate",
					"expirationDate", "insuredName", "address", "description",
				},
			},
			"automobileLiability":        coverageGroupSchema(),
			"commercialGeneralLiability": coverageGroupSchema(),
			"nonOwnedTrailer":            coverageGroupSchema(),
			"other": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"additionalInsured":        stringProp(),
					"certificateHolder":        stringProp(),
					"cancellationNoticePeriod": amountProp(),
				},
				"required": []string{
					"additionalInsured", "certificateHolder", "cancellationNoticePeriod",
				},
			},
		},
		"required": []string{
			"certificateInfo", "automobileLiability", "commercialGeneralLiability",
			"nonOwnedTrailer", "other",
		},
	}
}

// BuildLenientDocumentSchema is the shape check applied to replies after
// parsing. Partial documents are expected and must pass: no group or leaf is
// required, but anything present has to be an object with typed leaves.
func BuildLenientDocumentSchema() map[string]any {
	lenientGroup := func(props map[string]any) map[string]any {
		return map[string]any{"type": "object", "properties": props}
	}
	coverage := map[string]any{
		"insuranceCompany":   stringProp(),
		"currency":           stringProp(),
		"amount":             amountProp(),
		"deductibleCurrency": stringProp(),
		"deductibleAmount":   amountProp(),
		"expiryDate":         stringProp(),
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"certificateInfo": lenientGroup(map[string]any{
				"certificateNumber": stringProp(),
				"templateForm":      stringProp(),
				"effectiveDate":     stringProp(),
				"expirationDate":    stringProp(),
				"insuredName":       stringProp(),
				"address":           stringProp(),
				"description":       stringProp(),
			}),
			"automobileLiability":        lenientGroup(coverage),
			"commercialGeneralLiability": lenientGroup(coverage),
			"nonOwnedTrailer":            lenientGroup(coverage),
			"other": lenientGroup(map[string]any{
				"additionalInsured":        stringProp(),
				"certificateHolder":        stringProp(),
				"cancellationNoticePeriod": amountProp(),
			}),
		},
	}
}

// SchemaJSON renders a schema map as indented JSON for prompt embedding.
func SchemaJSON(schema map[string]any) string {
	b, _ := json.MarshalIndent(schema, "", "  ")
	return string(b)
}

func coverageGroupSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"insuranceCompany":   stringProp(),
			"currency":           stringProp(),
			"amount":             amountProp(),
			"deductibleCurrency": stringProp(),
			"deductibleAmount":   amountProp(),
			"expiryDate":         dateProp(),
		},
		"required": []string{
			"insuranceCompany", "currency", "amount",
			"deductibleCurrency", "deductibleAmount", "expiryDate",
		},
	}
}

func stringProp() map[string]any {
	return map[string]any{"type": "string"}
}

// dateProp admits yyyy/mm/dd dates or the sentinels.
func dateProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^(\d{4}/\d{2}/\d{2}|missing|\[unclear\])$`,
	}
}

// amountProp admits exact numerics or strings (sentinels included).
func amountProp() map[string]any {
	return map[string]any{"type": []string{"number", "string"}}
}
