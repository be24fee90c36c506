package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pagesplit/pagesplit/internal/store"
)

var runHeader = []string{
	"id", "label", "source", "created_at", "alpha", "two_tailed", "effect_size", "target_power",
	"control_rows", "control_conversions", "control_rate",
	"treatment_rows", "treatment_conversions", "treatment_rate",
	"z_score", "p_value", "reject_null", "min_sample_size", "power",
}

// WriteRunsCSV exports stored runs as CSV.
func WriteRunsCSV(w io.Writer, runs []*store.Run) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(runHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range runs {
		row := []string{
			r.ID, r.Label, r.Source, strconv.FormatInt(r.CreatedAt.Unix(), 10),
			f(r.Alpha), strconv.FormatBool(r.TwoTailed), f(r.EffectSize), f(r.TargetPower),
			strconv.Itoa(r.ControlRows), strconv.Itoa(r.ControlConversions), f(r.ControlRate),
			strconv.Itoa(r.TreatmentRows), strconv.Itoa(r.TreatmentConversions), f(r.TreatmentRate),
			f(r.ZScore), f(r.PValue), strconv.FormatBool(r.RejectNull), f(r.MinSampleSize), f(r.Power),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// RunJSON is the exported JSON shape of a run.
type RunJSON struct {
	ID          string  `json:"id"`
	Label       string  `json:"label,omitempty"`
	Source      string  `json:"source"`
	CreatedAt   int64   `json:"created_at"`
	Alpha       float64 `json:"alpha"`
	TwoTailed   bool    `json:"two_tailed"`
	EffectSize  float64 `json:"effect_size"`
	TargetPower float64 `json:"target_power"`

	Control   VariantJSON `json:"control"`
	Treatment VariantJSON `json:"treatment"`

	ZScore        float64 `json:"z_score"`
	PValue        float64 `json:"p_value"`
	RejectNull    bool    `json:"reject_null"`
	MinSampleSize float64 `json:"min_sample_size"`
	Power         float64 `json:"power"`
}

// VariantJSON holds one variant's figures.
type VariantJSON struct {
	Rows        int     `json:"rows"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"rate"`
}

// NewRunJSON converts a stored run.
func NewRunJSON(r *store.Run) RunJSON {
	return RunJSON{
		ID:            r.ID,
		Label:         r.Label,
		Source:        r.Source,
		CreatedAt:     r.CreatedAt.Unix(),
		Alpha:         r.Alpha,
		TwoTailed:     r.TwoTailed,
		EffectSize:    r.EffectSize,
		TargetPower:   r.TargetPower,
		Control:       VariantJSON{Rows: r.ControlRows, Conversions: r.ControlConversions, Rate: r.ControlRate},
		Treatment:     VariantJSON{Rows: r.TreatmentRows, Conversions: r.TreatmentConversions, Rate: r.TreatmentRate},
		ZScore:        r.ZScore,
		PValue:        r.PValue,
		RejectNull:    r.RejectNull,
		MinSampleSize: r.MinSampleSize,
		Power:         r.Power,
	}
}

type runsExport struct {
	Runs []RunJSON `json:"runs"`
}

// WriteRunsJSON exports stored runs as indented JSON.
func WriteRunsJSON(w io.Writer, runs []*store.Run) error {
	export := runsExport{Runs: make([]RunJSON, len(runs))}
	for i, r := range runs {
		export.Runs[i] = NewRunJSON(r)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}
