package report_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagesplit/pagesplit/internal/analysis"
	"github.com/pagesplit/pagesplit/internal/prep"
	"github.com/pagesplit/pagesplit/internal/report"
	"github.com/pagesplit/pagesplit/internal/stats"
	"github.com/pagesplit/pagesplit/internal/store"
)

func sampleReport() *analysis.Report {
	return &analysis.Report{
		Source:      "events.csv",
		EffectSize:  0,
		Config:      stats.TestConfig{Alpha: 0.05, TwoTailed: true},
		TargetPower: 0.8,
		Summary: prep.Summary{
			Control:    prep.VariantSummary{Rows: 1000, Conversions: 100, Rate: 0.1},
			Treatment:  prep.VariantSummary{Rows: 1000, Conversions: 105, Rate: 0.105},
			InputRows:  2003,
			Mismatched: 1,
			Total:      2000,
		},
		Test:          stats.TestResult{ZScore: 0.3686, PValue: 0.7124},
		MinSampleSize: 57760.2,
		Power:         0.078,
		RunID:         "abc",
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteReport(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "SOURCE: events.csv")
	assert.Contains(t, out, "two-tailed")
	assert.Contains(t, out, "control (old_page)")
	assert.Contains(t, out, "10.50%")
	assert.Contains(t, out, "p-value: 0.7124")
	assert.Contains(t, out, "Fail to reject the null hypothesis")
	assert.Contains(t, out, "Minimum total sample size: 57760")
	assert.Contains(t, out, "Not enough data for the target power")
	assert.Contains(t, out, "saved as run abc")
}

func TestWriteTest(t *testing.T) {
	var buf bytes.Buffer
	cfg := stats.TestConfig{Alpha: 0.05, TwoTailed: false}
	require.NoError(t, report.WriteTest(&buf, stats.TestResult{ZScore: 2.5, PValue: 0.0062, RejectNull: true}, cfg))

	assert.Equal(t, "z-score: 2.500000\np-value: 0.006200\nreject null (alpha=0.05, one-tailed): true\n", buf.String())
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0%", report.FormatPercent(0))
	assert.Equal(t, "12.04%", report.FormatPercent(0.1204))
}

func sampleRuns() []*store.Run {
	return []*store.Run{{
		ID:            "run-1",
		Label:         "hero",
		Source:        "events.csv",
		CreatedAt:     time.Unix(1_700_000_000, 0),
		Alpha:         0.05,
		TwoTailed:     true,
		TargetPower:   0.8,
		ControlRows:   1000,
		ControlRate:   0.1,
		TreatmentRows: 1000,
		TreatmentRate: 0.105,
		PValue:        0.71,
		MinSampleSize: 57760.2,
		Power:         0.078,
	}}
}

func TestWriteRunsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteRunsCSV(&buf, sampleRuns()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "run-1", rows[1][0])
	assert.Equal(t, "1700000000", rows[1][3])
	assert.Equal(t, "true", rows[1][5])
	assert.Equal(t, "57760.2", rows[1][17])
}

func TestWriteRunsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteRunsJSON(&buf, sampleRuns()))

	var out struct {
		Runs []report.RunJSON `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Runs, 1)
	assert.Equal(t, "hero", out.Runs[0].Label)
	assert.Equal(t, 1000, out.Runs[0].Treatment.Rows)
	assert.Equal(t, 0.105, out.Runs[0].Treatment.Rate)
}

func TestWritePowerCurvePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.png")
	curve := []stats.CurvePoint{{Total: 500, Power: 0.35}, {Total: 1000, Power: 0.66}, {Total: 1500, Power: 0.83}}

	require.NoError(t, report.WritePowerCurvePNG(path, curve, 0.8))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	assert.Error(t, report.WritePowerCurvePNG(path, curve[:1], 0.8))
}
