// Package report renders analysis results for people: console text, CSV and
// JSON exports, and power curve charts.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/pagesplit/pagesplit/internal/analysis"
	"github.com/pagesplit/pagesplit/internal/prep"
	"github.com/pagesplit/pagesplit/internal/stats"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// WriteReport prints a full analysis report.
func WriteReport(w io.Writer, r *analysis.Report) error {
	var b strings.Builder

	fmt.Fprintln(&b, headerStyle.Render("SOURCE: "+r.Source))
	fmt.Fprintf(&b, "ALPHA: %g (%s)   EFFECT SIZE: %g   TARGET POWER: %g\n",
		r.Config.Alpha, r.Config.Tails(), r.EffectSize, r.TargetPower)
	fmt.Fprintln(&b)

	s := r.Summary
	fmt.Fprintln(&b, mutedStyle.Render(fmt.Sprintf(
		"rows: %d   mismatched dropped: %d (%.2f%%)   duplicate users dropped: %d   analysed: %d",
		s.InputRows, s.Mismatched, s.MismatchPercent(), s.DuplicateUsers, s.Total)))
	fmt.Fprintln(&b)

	if err := writeVariants(&b, s); err != nil {
		return err
	}
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "z-score: %.4f   p-value: %.4f\n", r.Test.ZScore, r.Test.PValue)
	if r.Test.RejectNull {
		fmt.Fprintln(&b, goodStyle.Render("Reject the null hypothesis: the difference is significant"))
	} else {
		fmt.Fprintln(&b, warnStyle.Render("Fail to reject the null hypothesis"))
	}
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Minimum total sample size: %s\n", formatCount(r.MinSampleSize))
	fmt.Fprintf(&b, "Achieved power at %d: %.4f\n", s.Total, r.Power)
	if !r.Sufficient() {
		fmt.Fprintln(&b, warnStyle.Render("Not enough data for the target power"))
	}

	if r.RunID != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, mutedStyle.Render("saved as run "+r.RunID))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeVariants(w io.Writer, s prep.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANT\tROWS\tCONVERSIONS\tRATE\t95% CI")

	rows := []struct {
		name string
		v    prep.VariantSummary
	}{
		{"control (" + prep.PageOld + ")", s.Control},
		{"treatment (" + prep.PageNew + ")", s.Treatment},
	}
	for _, row := range rows {
		lower, upper := stats.WilsonInterval(row.v.Conversions, row.v.Rows, 0.95)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t[%.2f%%, %.2f%%]\n",
			row.name, row.v.Rows, row.v.Conversions, FormatPercent(row.v.Rate), lower*100, upper*100)
	}
	return tw.Flush()
}

// WriteTest prints a bare significance test result.
func WriteTest(w io.Writer, res stats.TestResult, cfg stats.TestConfig) error {
	_, err := fmt.Fprintf(w, "z-score: %.6f\np-value: %.6f\nreject null (alpha=%g, %s): %t\n",
		res.ZScore, res.PValue, cfg.Alpha, cfg.Tails(), res.RejectNull)
	return err
}

// FormatPercent renders a rate as a percentage.
func FormatPercent(rate float64) string {
	if rate == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}

func formatCount(n float64) string {
	return fmt.Sprintf("%.0f", n)
}
