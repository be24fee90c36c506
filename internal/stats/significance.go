package stats

import (
	"fmt"
	"math"
)

// ZTest performs a two-proportion z-test of treatment against control.
//
// The null hypothesis is that the treatment rate exceeds the control rate by
// exactly effect. With a two-tailed config the p-value is doubled and compared
// against the undivided alpha.
func ZTest(control, treatment ProportionSample, effect float64, cfg TestConfig) (TestResult, error) {
	if err := cfg.Validate(); err != nil {
		return TestResult{}, err
	}
	if err := control.Validate(); err != nil {
		return TestResult{}, fmt.Errorf("control: %w", err)
	}
	if err := treatment.Validate(); err != nil {
		return TestResult{}, fmt.Errorf("treatment: %w", err)
	}

	// Pooled proportion weighted by sample size
	pooled := (control.Rate*control.Count + treatment.Rate*treatment.Count) /
		(control.Count + treatment.Count)

	// Standard error of the difference
	se := math.Sqrt(pooled * (1 - pooled) * (1/control.Count + 1/treatment.Count))
	if se == 0 {
		return TestResult{}, fmt.Errorf("%w: pooled rate %v has no variance", ErrDomain, pooled)
	}

	z := (treatment.Rate - control.Rate - effect) / se

	p := TailProbability(z, cfg.TwoTailed)

	return TestResult{
		ZScore:     z,
		PValue:     p,
		RejectNull: p < cfg.Alpha,
	}, nil
}

// TailProbability converts a z-score into a p-value: 1 - Φ(|z|) for a
// one-tailed test, twice that for a two-tailed one.
func TailProbability(z float64, twoTailed bool) float64 {
	p := 1 - NormalCDF(math.Abs(z))
	if twoTailed {
		p *= 2
	}
	return p
}
