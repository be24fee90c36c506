package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pagesplit/pagesplit/internal/stats"
)

func newPower(t *testing.T, pc, pt, effect float64, cfg stats.TestConfig, target stats.PowerTarget) *stats.ProportionPower {
	t.Helper()
	pp, err := stats.NewProportionPower(pc, pt, effect, cfg, target)
	require.NoError(t, err)
	return pp
}

func TestProportionPower_KnownExample(t *testing.T) {
	cfg := mustConfig(t, 0.05, true)
	target, err := stats.TargetPower(0.8)
	require.NoError(t, err)

	n, err := newPower(t, 0.259, 0.213, 0, cfg, target).MinSampleSize()
	require.NoError(t, err)
	assert.InDelta(t, 1396, n, 1)
	assert.InDelta(t, 1396.3967868428865, n, 1e-6)

	total, err := stats.TotalSampleSize(1396)
	require.NoError(t, err)
	power, err := newPower(t, 0.259, 0.213, 0, cfg, total).Power()
	require.NoError(t, err)
	assert.InDelta(t, 0.80, power, 0.01)
}

func TestProportionPower_OneTailedNeedsFewerSamples(t *testing.T) {
	target, err := stats.TargetPower(0.8)
	require.NoError(t, err)

	n, err := newPower(t, 0.259, 0.213, 0, mustConfig(t, 0.05, false), target).MinSampleSize()
	require.NoError(t, err)
	assert.InDelta(t, 1097.2231669534988, n, 1e-6)
}

func TestProportionPower_PowerAtSmallerSample(t *testing.T) {
	total, err := stats.TotalSampleSize(1000)
	require.NoError(t, err)

	power, err := newPower(t, 0.259, 0.213, 0, mustConfig(t, 0.05, true), total).Power()
	require.NoError(t, err)
	assert.InDelta(t, 0.6557341348398412, power, 1e-9)
}

func TestProportionPower_CriticalZ(t *testing.T) {
	target, err := stats.TargetPower(0.8)
	require.NoError(t, err)

	two := newPower(t, 0.2, 0.25, 0, mustConfig(t, 0.05, true), target)
	one := newPower(t, 0.2, 0.25, 0, mustConfig(t, 0.05, false), target)

	assert.InDelta(t, 1.959964, two.ZAlpha(), 1e-6)
	assert.InDelta(t, 1.644854, one.ZAlpha(), 1e-6)
	assert.InDelta(t, 0.05, two.Delta(), 1e-12)
}

func TestProportionPower_EffectMatchesObserved(t *testing.T) {
	pc, pt := 0.1, 0.15
	target, err := stats.TargetPower(0.8)
	require.NoError(t, err)

	_, err = stats.NewProportionPower(pc, pt, pt-pc, mustConfig(t, 0.05, true), target)
	assert.ErrorIs(t, err, stats.ErrDomain)
}

func TestProportionPower_MissingTarget(t *testing.T) {
	cfg := mustConfig(t, 0.05, true)

	total, err := stats.TotalSampleSize(1000)
	require.NoError(t, err)
	_, err = newPower(t, 0.259, 0.213, 0, cfg, total).MinSampleSize()
	assert.ErrorIs(t, err, stats.ErrConfiguration)

	target, err := stats.TargetPower(0.8)
	require.NoError(t, err)
	_, err = newPower(t, 0.259, 0.213, 0, cfg, target).Power()
	assert.ErrorIs(t, err, stats.ErrConfiguration)

	var none stats.PowerTarget
	pp := newPower(t, 0.259, 0.213, 0, cfg, none)
	_, err = pp.MinSampleSize()
	assert.ErrorIs(t, err, stats.ErrConfiguration)
	_, err = pp.Power()
	assert.ErrorIs(t, err, stats.ErrConfiguration)
}

func TestProportionPower_InvalidInput(t *testing.T) {
	target, err := stats.TargetPower(0.8)
	require.NoError(t, err)

	_, err = stats.NewProportionPower(0.2, 0.3, 0, stats.TestConfig{Alpha: 1}, target)
	assert.ErrorIs(t, err, stats.ErrDomain)

	_, err = stats.NewProportionPower(-0.2, 0.3, 0, mustConfig(t, 0.05, true), target)
	assert.ErrorIs(t, err, stats.ErrDomain)

	_, err = stats.NewProportionPower(0.95, 0.9, 0.1, mustConfig(t, 0.05, true), target)
	assert.ErrorIs(t, err, stats.ErrDomain)

	_, err = stats.TargetPower(1)
	assert.ErrorIs(t, err, stats.ErrDomain)
	_, err = stats.TotalSampleSize(0)
	assert.ErrorIs(t, err, stats.ErrDomain)
}

func TestProportionPower_Curve(t *testing.T) {
	var none stats.PowerTarget
	pp := newPower(t, 0.259, 0.213, 0, mustConfig(t, 0.05, true), none)

	curve, err := pp.PowerCurve([]float64{250, 500, 1000, 1396, 2000})
	require.NoError(t, err)
	require.Len(t, curve, 5)

	for i := 1; i < len(curve); i++ {
		assert.Greater(t, curve[i].Power, curve[i-1].Power)
	}
	assert.InDelta(t, 0.6557341348398412, curve[2].Power, 1e-9)

	_, err = pp.PowerCurve([]float64{100, -1})
	assert.ErrorIs(t, err, stats.ErrDomain)
}

func TestProportionPower_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		pc := rapid.Float64Range(0.05, 0.95).Draw(rt, "pControl")
		pt := rapid.Float64Range(0.05, 0.95).Draw(rt, "pTreatment")
		effect := rapid.Float64Range(-0.04, 0.04).Draw(rt, "effect")
		alpha := rapid.Float64Range(0.01, 0.2).Draw(rt, "alpha")
		power := rapid.Float64Range(0.51, 0.98).Draw(rt, "power")
		twoTailed := rapid.Bool().Draw(rt, "twoTailed")

		if d := pt - pc - effect; d > -1e-3 && d < 1e-3 {
			rt.Skip("hypothesized effect too close to observed difference")
		}

		cfg, err := stats.NewTestConfig(alpha, twoTailed)
		require.NoError(rt, err)
		target, err := stats.TargetPower(power)
		require.NoError(rt, err)

		pp, err := stats.NewProportionPower(pc, pt, effect, cfg, target)
		require.NoError(rt, err)

		n, err := pp.MinSampleSize()
		require.NoError(rt, err)

		total, err := stats.TotalSampleSize(n)
		require.NoError(rt, err)
		got, err := pp.WithTarget(total).Power()
		require.NoError(rt, err)

		assert.InDelta(rt, power, got, 1e-6)
	})
}
