package prep

import (
	"fmt"

	mstats "github.com/montanaflynn/stats"
	"github.com/rs/zerolog"

	"github.com/pagesplit/pagesplit/internal/stats"
)

// CountLabels tallies the group and landing page columns so that
// assignment/exposure disagreements are visible before they are dropped.
func CountLabels(records []Record) LabelCounts {
	counts := LabelCounts{
		Groups: make(map[string]int),
		Pages:  make(map[string]int),
	}
	for _, r := range records {
		counts.Groups[r.Group]++
		counts.Pages[r.LandingPage]++
	}
	return counts
}

// DropMismatched keeps rows whose group agrees with the page served and
// returns the number of rows removed.
func DropMismatched(records []Record) ([]Record, int) {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Matched() {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}

// DropDuplicateUsers removes every row belonging to a user who appears more
// than once. Repeat participants cannot be attributed to a single exposure.
func DropDuplicateUsers(records []Record) ([]Record, DuplicateStats) {
	seen := make(map[string]int, len(records))
	for _, r := range records {
		seen[r.UserID]++
	}

	ds := DuplicateStats{TotalRows: len(records), UniqueUsers: len(seen)}
	for _, n := range seen {
		if n > 1 {
			ds.Duplicated++
		}
	}

	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if seen[r.UserID] == 1 {
			kept = append(kept, r)
		}
	}
	return kept, ds
}

// Aggregate computes per-page row counts, conversions and conversion rates.
// Both pages must have at least one row.
func Aggregate(records []Record) (control, treatment VariantSummary, err error) {
	var oldFlags, newFlags []float64
	for _, r := range records {
		flag := 0.0
		if r.Converted {
			flag = 1
		}
		switch r.LandingPage {
		case PageOld:
			oldFlags = append(oldFlags, flag)
		case PageNew:
			newFlags = append(newFlags, flag)
		}
	}

	control, err = summarize(oldFlags)
	if err != nil {
		return VariantSummary{}, VariantSummary{}, fmt.Errorf("control (%s): %w", PageOld, err)
	}
	treatment, err = summarize(newFlags)
	if err != nil {
		return VariantSummary{}, VariantSummary{}, fmt.Errorf("treatment (%s): %w", PageNew, err)
	}
	return control, treatment, nil
}

func summarize(flags []float64) (VariantSummary, error) {
	if len(flags) == 0 {
		return VariantSummary{}, fmt.Errorf("%w: no rows", stats.ErrDomain)
	}

	conversions, err := mstats.Sum(flags)
	if err != nil {
		return VariantSummary{}, err
	}
	rate, err := mstats.Mean(flags)
	if err != nil {
		return VariantSummary{}, err
	}

	return VariantSummary{
		Rows:        len(flags),
		Conversions: int(conversions),
		Rate:        rate,
	}, nil
}

// Prepare runs the cleaning pipeline: label counts, mismatch removal,
// duplicate user removal and aggregation.
func Prepare(records []Record, log zerolog.Logger) (Summary, error) {
	labels := CountLabels(records)
	log.Debug().
		Interface("groups", labels.Groups).
		Interface("landing_pages", labels.Pages).
		Msg("label counts")

	matched, mismatched := DropMismatched(records)
	s := Summary{
		Labels:     labels,
		InputRows:  len(records),
		Mismatched: mismatched,
	}
	log.Info().
		Int("dropped", mismatched).
		Float64("percent", s.MismatchPercent()).
		Msg("dropped group/landing page mismatches")

	unique, dups := DropDuplicateUsers(matched)
	s.DuplicateUsers = dups.Duplicated
	log.Info().
		Int("total_rows", dups.TotalRows).
		Int("unique_users", dups.UniqueUsers).
		Int("duplicate_users", dups.Duplicated).
		Msg("dropped duplicate users")

	control, treatment, err := Aggregate(unique)
	if err != nil {
		return Summary{}, err
	}
	s.Control = control
	s.Treatment = treatment
	s.Total = len(unique)

	log.Info().
		Float64("control_rate", control.Rate).
		Float64("treatment_rate", treatment.Rate).
		Msg("calculated conversion")

	return s, nil
}
