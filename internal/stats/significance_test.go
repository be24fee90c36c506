package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagesplit/pagesplit/internal/stats"
)

func mustConfig(t *testing.T, alpha float64, twoTailed bool) stats.TestConfig {
	t.Helper()
	cfg, err := stats.NewTestConfig(alpha, twoTailed)
	require.NoError(t, err)
	return cfg
}

func TestZTest_KnownValue(t *testing.T) {
	// 100/1000 vs 105/1000 is nowhere near significant
	control := stats.ProportionSample{Rate: 0.100, Count: 1000}
	treatment := stats.ProportionSample{Rate: 0.105, Count: 1000}

	res, err := stats.ZTest(control, treatment, 0, mustConfig(t, 0.05, true))
	require.NoError(t, err)

	assert.InDelta(t, 0.3686174115717622, res.ZScore, 1e-9)
	assert.InDelta(t, 0.7124129155997545, res.PValue, 1e-9)
	assert.False(t, res.RejectNull)
}

func TestZTest_ClearWinner(t *testing.T) {
	control := stats.ProportionSample{Rate: 0.10, Count: 1000}
	treatment := stats.ProportionSample{Rate: 0.15, Count: 1000}

	res, err := stats.ZTest(control, treatment, 0, mustConfig(t, 0.05, true))
	require.NoError(t, err)

	assert.InDelta(t, 3.3806170189140654, res.ZScore, 1e-9)
	assert.InDelta(t, 0.0007232327164301555, res.PValue, 1e-9)
	assert.True(t, res.RejectNull)
}

func TestZTest_TailModes(t *testing.T) {
	cases := []struct {
		name      string
		control   stats.ProportionSample
		treatment stats.ProportionSample
		effect    float64
	}{
		{"small lift", stats.ProportionSample{Rate: 0.100, Count: 1000}, stats.ProportionSample{Rate: 0.105, Count: 1000}, 0},
		{"drop", stats.ProportionSample{Rate: 0.259, Count: 700}, stats.ProportionSample{Rate: 0.213, Count: 690}, 0},
		{"with effect", stats.ProportionSample{Rate: 0.120, Count: 145000}, stats.ProportionSample{Rate: 0.118, Count: 145300}, 0.001},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			one, err := stats.ZTest(tc.control, tc.treatment, tc.effect, mustConfig(t, 0.05, false))
			require.NoError(t, err)
			two, err := stats.ZTest(tc.control, tc.treatment, tc.effect, mustConfig(t, 0.05, true))
			require.NoError(t, err)

			assert.Equal(t, one.ZScore, two.ZScore)
			assert.Equal(t, 2*one.PValue, two.PValue)
			assert.Equal(t, two.PValue < 0.05, two.RejectNull)
			assert.Equal(t, one.PValue < 0.05, one.RejectNull)
		})
	}
}

func TestZTest_TwoTailedUsesUndividedAlpha(t *testing.T) {
	// Pick counts where the two-tailed p-value lands between alpha/2 and alpha
	control := stats.ProportionSample{Rate: 0.10, Count: 2000}
	treatment := stats.ProportionSample{Rate: 0.12, Count: 2000}

	res, err := stats.ZTest(control, treatment, 0, mustConfig(t, 0.05, true))
	require.NoError(t, err)

	require.Greater(t, res.PValue, 0.025)
	require.Less(t, res.PValue, 0.05)
	assert.True(t, res.RejectNull, "p=%f must be compared against alpha, not alpha/2", res.PValue)
}

func TestZTest_Symmetry(t *testing.T) {
	control := stats.ProportionSample{Rate: 0.259, Count: 700}
	treatment := stats.ProportionSample{Rate: 0.213, Count: 690}
	cfg := mustConfig(t, 0.05, true)

	forward, err := stats.ZTest(control, treatment, 0.01, cfg)
	require.NoError(t, err)
	swapped, err := stats.ZTest(treatment, control, -0.01, cfg)
	require.NoError(t, err)

	assert.InDelta(t, -forward.ZScore, swapped.ZScore, 1e-12)
	assert.InDelta(t, forward.PValue, swapped.PValue, 1e-12)
	assert.Equal(t, forward.RejectNull, swapped.RejectNull)
}

func TestZTest_ZeroCount(t *testing.T) {
	cfg := mustConfig(t, 0.05, true)
	ok := stats.ProportionSample{Rate: 0.1, Count: 100}
	empty := stats.ProportionSample{Rate: 0, Count: 0}

	_, err := stats.ZTest(empty, ok, 0, cfg)
	assert.ErrorIs(t, err, stats.ErrDomain)

	_, err = stats.ZTest(ok, empty, 0, cfg)
	assert.ErrorIs(t, err, stats.ErrDomain)
}

func TestZTest_InvalidInput(t *testing.T) {
	ok := stats.ProportionSample{Rate: 0.1, Count: 100}

	_, err := stats.ZTest(ok, ok, 0, stats.TestConfig{Alpha: 0, TwoTailed: true})
	assert.ErrorIs(t, err, stats.ErrDomain)

	_, err = stats.ZTest(ok, stats.ProportionSample{Rate: 1.2, Count: 100}, 0, mustConfig(t, 0.05, true))
	assert.ErrorIs(t, err, stats.ErrDomain)

	// Nobody converted in either group: the pooled variance is zero
	none := stats.ProportionSample{Rate: 0, Count: 100}
	_, err = stats.ZTest(none, none, 0, mustConfig(t, 0.05, true))
	assert.ErrorIs(t, err, stats.ErrDomain)
}

func TestNewTestConfig(t *testing.T) {
	for _, alpha := range []float64{0, 1, -0.1, 1.5} {
		_, err := stats.NewTestConfig(alpha, true)
		assert.ErrorIs(t, err, stats.ErrDomain, "alpha=%v", alpha)
	}

	cfg, err := stats.NewTestConfig(0.01, false)
	require.NoError(t, err)
	assert.Equal(t, "one-tailed", cfg.Tails())
}
