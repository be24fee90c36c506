// Package analysis wires data preparation into the significance test and the
// power analysis, and optionally records the summary.
package analysis

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pagesplit/pagesplit/internal/prep"
	"github.com/pagesplit/pagesplit/internal/stats"
	"github.com/pagesplit/pagesplit/internal/store"
)

// Request describes one analysis.
type Request struct {
	Path        string
	EffectSize  float64
	Config      stats.TestConfig
	TargetPower float64
	Save        bool
	Label       string
}

// Report is the immutable outcome of an analysis.
type Report struct {
	Source      string
	EffectSize  float64
	Config      stats.TestConfig
	TargetPower float64

	Summary prep.Summary
	Test    stats.TestResult

	MinSampleSize float64
	Power         float64

	// set when the run was saved
	RunID string
}

// Sufficient reports whether the cleaned data meets the minimum sample size.
func (r *Report) Sufficient() bool {
	return float64(r.Summary.Total) >= r.MinSampleSize
}

// Analyzer runs analyses. The store may be nil when nothing is saved.
type Analyzer struct {
	store  store.Store
	logger zerolog.Logger
}

func New(s store.Store, logger zerolog.Logger) *Analyzer {
	return &Analyzer{store: s, logger: logger}
}

// Run loads req.Path and evaluates it.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Report, error) {
	records, err := prep.Load(req.Path)
	if err != nil {
		return nil, err
	}
	a.logger.Info().Str("source", req.Path).Int("rows", len(records)).Msg("loaded records")

	report, err := a.Evaluate(records, req)
	if err != nil {
		return nil, err
	}

	if req.Save {
		if err := a.save(ctx, report, req); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Evaluate runs preparation, the z-test and the power analysis on records.
func (a *Analyzer) Evaluate(records []prep.Record, req Request) (*Report, error) {
	summary, err := prep.Prepare(records, a.logger)
	if err != nil {
		return nil, fmt.Errorf("prepare data: %w", err)
	}

	test, err := stats.ZTest(summary.Control.Sample(), summary.Treatment.Sample(), req.EffectSize, req.Config)
	if err != nil {
		return nil, fmt.Errorf("z-test: %w", err)
	}
	a.logger.Info().
		Float64("z_score", test.ZScore).
		Float64("p_value", test.PValue).
		Bool("reject_null", test.RejectNull).
		Msg("z-test")

	target, err := stats.TargetPower(req.TargetPower)
	if err != nil {
		return nil, err
	}
	pp, err := stats.NewProportionPower(summary.Control.Rate, summary.Treatment.Rate, req.EffectSize, req.Config, target)
	if err != nil {
		return nil, fmt.Errorf("power analysis: %w", err)
	}

	minSample, err := pp.MinSampleSize()
	if err != nil {
		return nil, fmt.Errorf("minimum sample size: %w", err)
	}

	total, err := stats.TotalSampleSize(float64(summary.Total))
	if err != nil {
		return nil, err
	}
	power, err := pp.WithTarget(total).Power()
	if err != nil {
		return nil, fmt.Errorf("power: %w", err)
	}
	a.logger.Info().
		Float64("min_sample_size", minSample).
		Float64("power", power).
		Msg("power analysis")

	return &Report{
		Source:        req.Path,
		EffectSize:    req.EffectSize,
		Config:        req.Config,
		TargetPower:   req.TargetPower,
		Summary:       summary,
		Test:          test,
		MinSampleSize: minSample,
		Power:         power,
	}, nil
}

// Curve returns the achieved power over a range of total sample sizes
// around the report's minimum.
func (r *Report) Curve(points int) ([]stats.CurvePoint, error) {
	var none stats.PowerTarget
	pp, err := stats.NewProportionPower(r.Summary.Control.Rate, r.Summary.Treatment.Rate, r.EffectSize, r.Config, none)
	if err != nil {
		return nil, err
	}
	if points < 2 {
		points = 2
	}

	upper := 2 * r.MinSampleSize
	if t := float64(r.Summary.Total); t > upper {
		upper = t
	}

	totals := make([]float64, points)
	for i := range totals {
		totals[i] = upper * float64(i+1) / float64(points)
	}
	return pp.PowerCurve(totals)
}

func (a *Analyzer) save(ctx context.Context, r *Report, req Request) error {
	if a.store == nil {
		return fmt.Errorf("save requested but no store is configured")
	}

	run := &store.Run{
		Label:                req.Label,
		Source:               filepath.Base(req.Path),
		Alpha:                r.Config.Alpha,
		TwoTailed:            r.Config.TwoTailed,
		EffectSize:           r.EffectSize,
		TargetPower:          r.TargetPower,
		ControlRows:          r.Summary.Control.Rows,
		ControlConversions:   r.Summary.Control.Conversions,
		ControlRate:          r.Summary.Control.Rate,
		TreatmentRows:        r.Summary.Treatment.Rows,
		TreatmentConversions: r.Summary.Treatment.Conversions,
		TreatmentRate:        r.Summary.Treatment.Rate,
		ZScore:               r.Test.ZScore,
		PValue:               r.Test.PValue,
		RejectNull:           r.Test.RejectNull,
		MinSampleSize:        r.MinSampleSize,
		Power:                r.Power,
	}
	if err := a.store.SaveRun(ctx, run); err != nil {
		return err
	}

	r.RunID = run.ID
	a.logger.Info().Str("run_id", run.ID).Msg("saved run")
	return nil
}
