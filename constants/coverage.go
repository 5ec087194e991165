package constants

// Top-level groups of the nested extraction document.
const (
	GroupCertificateInfo  = "certificateInfo"
	GroupAutoLiability    = "automobileLiability"
	GroupGeneralLiability = "commercialGeneralLiability"
	GroupNonOwnedTrailer  = "nonOwnedTrailer"
	GroupOther            = "other"
)

// CoverageGroups are the three insurance categories tracked for the
// verification and compliance summary.
var CoverageGroups = []string{
	GroupAutoLiability,
	GroupGeneralLiability,
	GroupNonOwnedTrailer,
}

// Sentinel values the model uses for absent or ambiguous data. They pass
// through the pipeline untouched and are never treated as real values.
const (
	SentinelMissing = "missing"
	SentinelUnclear = "[unclear]"
)

// Model call budgets shared by both call sites.
const (
	MaxTokens              = 2000
	OCRTemperature         = 0.0
	StructuringTemperature = 0.2
)
