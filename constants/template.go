package constants

import "strings"

// TemplateForm is the certificate template taxonomy recognized by the extractor.
type TemplateForm string

const (
	Monarch      TemplateForm = "Monarch"
	LloydSadd    TemplateForm = "Lloyd Sadd"
	NFP          TemplateForm = "NFP"
	CSIO         TemplateForm = "CSIO"
	Rogers       TemplateForm = "Rogers"
	WylieCrump   TemplateForm = "Wylie Crump"
	MHK          TemplateForm = "MHK"
	Fleet        TemplateForm = "Fleet"
	ACORD        TemplateForm = "ACORD"
	OHub         TemplateForm = "O HUB"
	AllInsurance TemplateForm = "All Insurance Ltd."
	Westland     TemplateForm = "WESTLAND"
	Mango        TemplateForm = "Mango Insurance"
	AON          TemplateForm = "AON"
	Goldkey      TemplateForm = "Goldkey Insurance"
	Brokerlink   TemplateForm = "Brokerlink"
	OneInsurance TemplateForm = "One Insurance"
	AKan         TemplateForm = "A-KAN"
	IngMckee     TemplateForm = "Ing+Mckee"
	BFLCanada    TemplateForm = "BFL Canada Insurance Services Inc."
	CoOperators  TemplateForm = "Co-Operators"
	Federated    TemplateForm = "Federated Insurance"
	Prl          TemplateForm = "Prl"
	FosterPark   TemplateForm = "Foster Park"
	Risktech     TemplateForm = "Risktech Insurance Services Inc."
	Drayden      TemplateForm = "Drayden Insurance"
	UnknownForm  TemplateForm = "Unknown"
)

var allTemplateForms = []TemplateForm{
	Monarch, LloydSadd, NFP, CSIO, Rogers, WylieCrump, MHK, Fleet, ACORD,
	OHub, AllInsurance, Westland, Mango, AON, Goldkey, Brokerlink,
	OneInsurance, AKan, IngMckee, BFLCanada, CoOperators, Federated,
	Prl, FosterPark, Risktech, Drayden, UnknownForm,
}

// TemplateFormStrings returns the taxonomy as a string slice for prompt/schema use.
func TemplateFormStrings() []string {
	result := make([]string, len(allTemplateForms))
	for i, f := range allTemplateForms {
		result[i] = string(f)
	}
	return result
}

// CanonicalTemplateForm resolves a free-text label to a known template form.
// Unrecognized labels fall back to UnknownForm.
func CanonicalTemplateForm(input string) (TemplateForm, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return UnknownForm, false
	}
	for _, f := range allTemplateForms {
		if normalized == strings.ToLower(string(f)) {
			return f, true
		}
	}
	return UnknownForm, false
}
