package stats

import (
	"fmt"
	"math"
)

// ProportionPower computes the minimum sample size and the achieved power
// when comparing two proportions.
//
// Sample parameters come from the observed rates. Population parameters take
// the control rate as given and shift it by the hypothesized effect size.
type ProportionPower struct {
	sampleControl   float64
	sampleTreatment float64
	sampleDiff      float64

	popDiff      float64
	popControl   float64
	popTreatment float64
	popAvg       float64

	// gap between observed and hypothesized difference
	delta float64

	cfg    TestConfig
	target PowerTarget
	zAlpha float64
}

// CurvePoint is the achieved power at one total sample size.
type CurvePoint struct {
	Total float64
	Power float64
}

// NewProportionPower validates its inputs and derives the shared quantities.
func NewProportionPower(pControl, pTreatment, effect float64, cfg TestConfig, target PowerTarget) (*ProportionPower, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkRate("control", pControl); err != nil {
		return nil, err
	}
	if err := checkRate("treatment", pTreatment); err != nil {
		return nil, err
	}

	pp := &ProportionPower{
		sampleControl:   pControl,
		sampleTreatment: pTreatment,
		sampleDiff:      pTreatment - pControl,
		popDiff:         effect,
		popControl:      pControl,
		cfg:             cfg,
		target:          target,
	}
	pp.popTreatment = pp.popControl + pp.popDiff
	pp.popAvg = (pp.popControl + pp.popTreatment) / 2
	if pp.popTreatment < 0 || pp.popTreatment > 1 {
		return nil, fmt.Errorf("%w: hypothesized treatment rate %v falls outside [0, 1]", ErrDomain, pp.popTreatment)
	}
	pp.delta = math.Abs(pp.sampleDiff - pp.popDiff)

	if pp.delta == 0 {
		return nil, fmt.Errorf("%w: effect already matches observed difference exactly", ErrDomain)
	}

	pp.zAlpha = criticalZ(cfg)
	return pp, nil
}

func checkRate(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %s rate must be within [0, 1], got %v", ErrDomain, name, p)
	}
	return nil
}

// criticalZ returns the z value at the configured significance level.
func criticalZ(cfg TestConfig) float64 {
	if cfg.TwoTailed {
		return NormalQuantile((1 + (1 - cfg.Alpha)) / 2)
	}
	return NormalQuantile(1 - cfg.Alpha)
}

// ZAlpha returns the critical z value.
func (pp *ProportionPower) ZAlpha() float64 {
	return pp.zAlpha
}

// Delta returns |observed difference - effect size|.
func (pp *ProportionPower) Delta() float64 {
	return pp.delta
}

func (pp *ProportionPower) spreads() (a, b float64) {
	a = math.Sqrt(2 * pp.popAvg * (1 - pp.popAvg))
	b = math.Sqrt(pp.sampleControl*(1-pp.sampleControl) +
		pp.sampleTreatment*(1-pp.sampleTreatment))
	return a, b
}

// MinSampleSize returns the minimum combined sample size of both variants
// needed to reach the target power.
func (pp *ProportionPower) MinSampleSize() (float64, error) {
	power, ok := pp.target.Power()
	if !ok {
		return 0, fmt.Errorf("%w: target power is required for minimum sample size", ErrConfiguration)
	}

	zBeta := NormalQuantile(power)
	a, b := pp.spreads()

	return math.Pow(pp.zAlpha*a/pp.delta+zBeta*b/pp.delta, 2), nil
}

// Power returns the achieved power at the configured total sample size.
// The result is not clamped.
func (pp *ProportionPower) Power() (float64, error) {
	total, ok := pp.target.Total()
	if !ok {
		return 0, fmt.Errorf("%w: total sample size is required for power", ErrConfiguration)
	}
	return pp.powerAt(total), nil
}

func (pp *ProportionPower) powerAt(total float64) float64 {
	a, b := pp.spreads()
	zBeta := (math.Sqrt(total) - pp.zAlpha*a/pp.delta) * pp.delta / b
	return NormalCDF(zBeta)
}

// PowerCurve evaluates the achieved power at each total sample size.
func (pp *ProportionPower) PowerCurve(totals []float64) ([]CurvePoint, error) {
	points := make([]CurvePoint, 0, len(totals))
	for _, n := range totals {
		if math.IsNaN(n) || n <= 0 {
			return nil, fmt.Errorf("%w: total sample size must be positive, got %v", ErrDomain, n)
		}
		points = append(points, CurvePoint{Total: n, Power: pp.powerAt(n)})
	}
	return points, nil
}

// WithTarget returns a copy of pp solving for a different target.
func (pp *ProportionPower) WithTarget(target PowerTarget) *ProportionPower {
	cp := *pp
	cp.target = target
	return &cp
}
