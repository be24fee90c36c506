package stats

import (
	"fmt"
	"math"
)

// ProportionSample is the observed conversion rate and sample size of one variant.
type ProportionSample struct {
	Rate  float64
	Count float64
}

// Validate checks that the sample can enter the test formulas.
func (s ProportionSample) Validate() error {
	if math.IsNaN(s.Count) || s.Count <= 0 {
		return fmt.Errorf("%w: sample count must be positive, got %v", ErrDomain, s.Count)
	}
	if math.IsNaN(s.Rate) || s.Rate < 0 || s.Rate > 1 {
		return fmt.Errorf("%w: rate must be within [0, 1], got %v", ErrDomain, s.Rate)
	}
	return nil
}

// TestConfig holds the significance level and tail mode. The same value
// must be handed to ZTest and NewProportionPower for comparable results.
type TestConfig struct {
	Alpha     float64
	TwoTailed bool
}

// NewTestConfig returns a validated TestConfig.
func NewTestConfig(alpha float64, twoTailed bool) (TestConfig, error) {
	cfg := TestConfig{Alpha: alpha, TwoTailed: twoTailed}
	if err := cfg.Validate(); err != nil {
		return TestConfig{}, err
	}
	return cfg, nil
}

// Validate rejects alpha outside (0, 1).
func (c TestConfig) Validate() error {
	if math.IsNaN(c.Alpha) || c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("%w: alpha must be within (0, 1), got %v", ErrDomain, c.Alpha)
	}
	return nil
}

// Tails returns "two-tailed" or "one-tailed".
func (c TestConfig) Tails() string {
	if c.TwoTailed {
		return "two-tailed"
	}
	return "one-tailed"
}

// TestResult is the outcome of a significance test.
type TestResult struct {
	ZScore     float64
	PValue     float64
	RejectNull bool
}

// PowerTarget selects what a power analysis solves for: either the target
// power (solve for minimum sample size) or the total sample size (solve for
// achieved power). The zero value carries neither.
type PowerTarget struct {
	power float64
	total float64
}

// TargetPower builds a PowerTarget for minimum sample size calculations.
func TargetPower(power float64) (PowerTarget, error) {
	if math.IsNaN(power) || power <= 0 || power >= 1 {
		return PowerTarget{}, fmt.Errorf("%w: target power must be within (0, 1), got %v", ErrDomain, power)
	}
	return PowerTarget{power: power}, nil
}

// TotalSampleSize builds a PowerTarget for achieved power calculations.
func TotalSampleSize(total float64) (PowerTarget, error) {
	if math.IsNaN(total) || total <= 0 {
		return PowerTarget{}, fmt.Errorf("%w: total sample size must be positive, got %v", ErrDomain, total)
	}
	return PowerTarget{total: total}, nil
}

// Power reports the target power, if set.
func (t PowerTarget) Power() (float64, bool) {
	return t.power, t.power > 0
}

// Total reports the total sample size, if set.
func (t PowerTarget) Total() (float64, bool) {
	return t.total, t.total > 0
}
