package store

import "time"

// Run is the stored summary of one analysis. Only aggregate figures are kept.
type Run struct {
	ID        string
	Label     string
	Source    string
	CreatedAt time.Time

	Alpha       float64
	TwoTailed   bool
	EffectSize  float64
	TargetPower float64

	ControlRows          int
	ControlConversions   int
	ControlRate          float64
	TreatmentRows        int
	TreatmentConversions int
	TreatmentRate        float64

	ZScore     float64
	PValue     float64
	RejectNull bool

	MinSampleSize float64
	Power         float64
}

// Total returns the combined sample size of both variants.
func (r *Run) Total() int {
	return r.ControlRows + r.TreatmentRows
}
