// Package charts renders expense data as PNG images with go-chart.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"spendtrack/internal/core"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// CategoryPie renders spending by category as a pie chart. Slices below
// one percent of the total are dropped to keep labels readable.
func (g *Generator) CategoryPie(stats core.Stats) ([]byte, error) {
	if stats.TotalExpenses.Cents == 0 {
		return nil, ErrNoData
	}

	// Fixed iteration order so identical data renders identically.
	categories := make([]core.Category, 0, len(stats.CategoryStats))
	for cat := range stats.CategoryStats {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	total := stats.TotalExpenses.Float64()
	values := make([]chart.Value, 0, len(categories))
	for _, cat := range categories {
		amount := stats.CategoryStats[cat].Float64()
		percentage := amount / total * 100
		if percentage <= 1.0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: $%.2f (%.1f%%)", cat, amount, percentage),
			Value: amount,
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:  "Spending by Category",
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render category pie chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// MonthlyBars renders total spending per month as a bar chart, months in
// chronological order.
func (g *Generator) MonthlyBars(stats core.Stats) ([]byte, error) {
	if len(stats.MonthlyStats) == 0 {
		return nil, ErrNoData
	}

	months := make([]string, 0, len(stats.MonthlyStats))
	for m := range stats.MonthlyStats {
		months = append(months, m)
	}
	sort.Strings(months)

	bars := make([]chart.Value, 0, len(months))
	for _, m := range months {
		bars = append(bars, chart.Value{
			Label: m,
			Value: stats.MonthlyStats[m].Float64(),
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(150),
			},
		})
	}

	graph := chart.BarChart{
		Title:    "Monthly Spending",
		Width:    1200,
		Height:   600,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("$%.0f", v.(float64))
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render monthly bar chart: %w", err)
	}
	return buffer.Bytes(), nil
}
