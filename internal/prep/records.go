// Package prep turns raw experiment event tables into the per-variant
// conversion figures consumed by the statistics package.
package prep

import "github.com/pagesplit/pagesplit/internal/stats"

const (
	GroupControl   = "control"
	GroupTreatment = "treatment"

	PageOld = "old_page"
	PageNew = "new_page"
)

// Record is one row of the experiment table.
type Record struct {
	UserID      string
	Timestamp   string
	Group       string
	LandingPage string
	Converted   bool
}

// Matched reports whether the assignment label agrees with the page served.
func (r Record) Matched() bool {
	switch {
	case r.Group == GroupTreatment && r.LandingPage == PageNew:
		return true
	case r.Group == GroupControl && r.LandingPage == PageOld:
		return true
	default:
		return false
	}
}

// LabelCounts holds value counts for the group and landing_page columns.
type LabelCounts struct {
	Groups map[string]int
	Pages  map[string]int
}

// DuplicateStats describes the duplicate participant pass.
type DuplicateStats struct {
	TotalRows   int
	UniqueUsers int
	Duplicated  int // users seen more than once, all of whose rows were dropped
}

// VariantSummary aggregates one landing page.
type VariantSummary struct {
	Rows        int
	Conversions int
	Rate        float64
}

// Sample converts the summary into the statistics package's input type.
func (v VariantSummary) Sample() stats.ProportionSample {
	return stats.ProportionSample{Rate: v.Rate, Count: float64(v.Rows)}
}

// Summary is the immutable output of the preparation pipeline.
type Summary struct {
	Control   VariantSummary
	Treatment VariantSummary

	Labels         LabelCounts
	InputRows      int
	Mismatched     int
	DuplicateUsers int
	Total          int // rows left after cleaning
}

// MismatchPercent is the share of input rows dropped for label mismatch.
func (s Summary) MismatchPercent() float64 {
	if s.InputRows == 0 {
		return 0
	}
	return float64(s.Mismatched) / float64(s.InputRows) * 100
}
