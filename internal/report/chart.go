package report

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/pagesplit/pagesplit/internal/stats"
)

// WritePowerCurvePNG renders achieved power against total sample size, with
// a horizontal line at the target power.
func WritePowerCurvePNG(path string, curve []stats.CurvePoint, target float64) error {
	if len(curve) < 2 {
		return fmt.Errorf("power curve needs at least two points, got %d", len(curve))
	}

	x := make([]float64, len(curve))
	y := make([]float64, len(curve))
	line := make([]float64, len(curve))
	for i, p := range curve {
		x[i] = p.Total
		y[i] = p.Power
		line[i] = target
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name: "Total sample size",
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
		YAxis: chart.YAxis{
			Name: "Power",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 1,
			},
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.2f")
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Power",
				XValues: x,
				YValues: y,
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Target %.2f", target),
				XValues: x,
				YValues: line,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}
