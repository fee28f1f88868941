package outwriter

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/riskboard/schema"
)

const (
	chartWidth  = "100%"
	chartHeight = "420px"

	// echarts skips "-" points instead of drawing them as zero
	echartsNull = "-"
)

// writeHTMLDashboard renders every chart on one standalone HTML page.
func writeHTMLDashboard(w io.Writer, result *schema.DashboardResult) error {
	page := components.NewPage()
	page.PageTitle = "Risk dashboard"

	for i, chart := range result.Charts {
		subtitle := ""
		if i == 0 {
			subtitle = result.Summary.Text
		}
		page.AddCharts(buildHTMLChart(chart, subtitle))
	}
	return page.Render(w)
}

// buildHTMLChart converts a chart into its echarts form.
func buildHTMLChart(chart schema.Chart, subtitle string) components.Charter {
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: chart.Title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(chart.Series) > 1), Top: "10%"}),
		charts.WithYAxisOpts(opts.YAxis{Name: chart.YAxisLabel}),
	}

	if chart.Kind == schema.LineChart {
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(chart.Categories)
		for _, s := range chart.Series {
			data := make([]opts.LineData, len(chart.Categories))
			for i := range data {
				data[i] = opts.LineData{Value: echartsValue(s.Data, i)}
			}
			line.AddSeries(s.Name, data, seriesColor(s.Color)...)
		}
		return line
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(global...)
	bar.SetXAxis(chart.Categories)
	for _, s := range chart.Series {
		data := make([]opts.BarData, len(chart.Categories))
		for i := range data {
			data[i] = opts.BarData{Value: echartsValue(s.Data, i)}
			if chart.ID == schema.TestingChart {
				if color := testingTagColor(chart.Categories[i]); color != "" {
					data[i].ItemStyle = &opts.ItemStyle{Color: color}
				}
			}
		}
		bar.AddSeries(s.Name, data, seriesColor(s.Color)...)
	}
	return bar
}

func echartsValue(data []*float64, i int) any {
	if i >= len(data) || data[i] == nil {
		return echartsNull
	}
	return *data[i]
}

func seriesColor(color string) []charts.SeriesOpts {
	if color == "" {
		return nil
	}
	return []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: color})}
}

// testingTagColor finds the color of a testing tag by its label.
func testingTagColor(label string) string {
	for _, info := range schema.TestingTags {
		if info.Label == label {
			return info.Color
		}
	}
	return ""
}
