package record

import (
	"log/slog"
	"sync"
	"time"

	"github.com/coverageworks/cert-intake/constants"
)

const expiryDateLayout = "2006/01/02"

// Store is the in-memory session record of saved certificates. It is
// append-only: rows are never updated or deleted, and re-saving the same
// document simply adds another row.
type Store struct {
	mu     sync.Mutex
	rows   []Row
	logger *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Append saves one reviewed row.
func (s *Store) Append(row Row) {
	s.mu.Lock()
	s.rows = append(s.rows, row)
	total := len(s.rows)
	s.mu.Unlock()

	s.logger.Info("record.store.append",
		"source_file", row.SourceFile,
		"template_form", row.TemplateForm,
		"total_rows", total,
	)
}

// Rows returns a copy of the saved rows in insertion order.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// LatestSummary summarizes the most recently appended row. The second return
// is false when the store is empty.
func (s *Store) LatestSummary(today time.Time) (Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rows) == 0 {
		return Summary{}, false
	}
	return Summarize(s.rows[len(s.rows)-1].FlatRecord, today), true
}

// Summary reports how many tracked coverage groups carry data and which of
// them have already lapsed.
type Summary struct {
	VerifiedGroups   int      `json:"verified_groups"`
	TotalGroups      int      `json:"total_groups"`
	ComplianceIssues []string `json:"compliance_issues"`
}

var coverageLabels = map[string]string{
	constants.GroupAutoLiability:    "Automobile Liability",
	constants.GroupGeneralLiability: "Commercial General Liability",
	constants.GroupNonOwnedTrailer:  "Non-owned Trailer",
}

// Summarize computes the verified-coverage count and the expired-coverage
// issues for one record. A group counts as verified when any of its six
// fields carries text, sentinels included: "missing" is still an extracted
// answer, just a negative one. A compliance issue is raised only when the
// expiry date parses as yyyy/mm/dd and falls strictly before today; empty,
// sentinel and otherwise unparseable dates are skipped rather than flagged.
func Summarize(r FlatRecord, today time.Time) Summary {
	sum := Summary{TotalGroups: len(constants.CoverageGroups), ComplianceIssues: []string{}}
	day := today.Truncate(24 * time.Hour)

	for _, group := range constants.CoverageGroups {
		fields := r.coverageFields(group)
		for _, v := range fields {
			if v != "" {
				sum.VerifiedGroups++
				break
			}
		}

		expiry, err := time.ParseInLocation(expiryDateLayout, fields[5], time.UTC)
		if err != nil {
			continue
		}
		if expiry.Before(day) {
			sum.ComplianceIssues = append(sum.ComplianceIssues,
				coverageLabels[group]+" coverage expired on "+fields[5])
		}
	}
	return sum
}
