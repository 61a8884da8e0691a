package charts

import (
	"errors"
	"fmt"
	"io"

	"github.com/coolBuddy03/sitemapmonitoring/internal/report"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyDataset is returned when there is nothing to draw.
var ErrEmptyDataset = errors.New("charts: dataset is empty")

// Format selects the image encoding.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat maps a query value to a Format, defaulting to SVG.
func ParseFormat(s string) Format {
	if s == string(PNG) {
		return PNG
	}
	return SVG
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

const (
	chartWidth  = 640
	chartHeight = 360
)

var axisColor = drawing.Color{R: 255, G: 255, B: 255, A: 255}

func drawingColor(c report.Color, alpha float64) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: uint8(alpha * 255)}
}

// RenderCategories draws the category distribution as a doughnut chart.
// Empty categories are left out of the drawing.
func RenderCategories(w io.Writer, ds CategoryDataset, f Format) error {
	if ds.Total == 0 {
		return ErrEmptyDataset
	}

	values := make([]chart.Value, 0, len(ds.Segments))
	palette := seriesPalette{ColorPalette: chart.AlternateColorPalette}
	for _, s := range ds.Segments {
		if s.Count == 0 {
			continue
		}
		palette.series = append(palette.series, drawingColor(s.color, report.FillAlpha))
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", s.Label, s.Percent),
			Value: float64(s.Count),
			Style: chart.Style{
				FillColor:   drawingColor(s.color, report.FillAlpha),
				StrokeColor: drawingColor(s.color, report.BorderAlpha),
				StrokeWidth: 1,
				FontColor:   axisColor,
			},
		})
	}

	donut := chart.DonutChart{
		Width:        chartWidth,
		Height:       chartHeight,
		Values:       values,
		ColorPalette: palette,
	}
	if err := donut.Render(f.provider(), w); err != nil {
		return fmt.Errorf("charts: render categories: %w", err)
	}
	return nil
}

// seriesPalette colors the donut by category. A donut with a single value is
// drawn as a plain circle from the palette, ignoring the value's own style.
type seriesPalette struct {
	chart.ColorPalette
	series []drawing.Color
}

func (p seriesPalette) GetSeriesColor(index int) drawing.Color {
	if index < len(p.series) {
		return p.series[index]
	}
	return p.ColorPalette.GetSeriesColor(index)
}

// labelRoom is the space under the bars for labels wrapped onto two lines.
const labelRoom = 48

// RenderStatusCodes draws the top status codes as a bar chart.
func RenderStatusCodes(w io.Writer, ds StatusCodeDataset, f Format) error {
	if len(ds.Bars) == 0 {
		return ErrEmptyDataset
	}

	// Bars grow from zero; go-chart rejects a data range of zero width.
	var top int
	bars := make([]chart.Value, 0, len(ds.Bars))
	for _, b := range ds.Bars {
		top = max(top, b.Count)
		bars = append(bars, chart.Value{
			Label: b.Label,
			Value: float64(b.Count),
			Style: chart.Style{
				FillColor:   drawingColor(b.color, report.FillAlpha),
				StrokeColor: drawingColor(b.color, report.BorderAlpha),
				StrokeWidth: 1,
			},
		})
	}

	bc := chart.BarChart{
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: labelRoom},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(top, 1))},
		},
		Bars: bars,
	}
	if err := bc.Render(f.provider(), w); err != nil {
		return fmt.Errorf("charts: render status codes: %w", err)
	}
	return nil
}
