package services

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"smarthire/internal/models"
)

// ChartRenderer draws the per-question tone chart stored alongside the
// aggregate scores. Rendering is a pure function of the settled responses,
// so a re-render for the same interview produces the same artifact.
type ChartRenderer interface {
	RenderToneChart(responses []models.VideoResponse) ([]byte, error)
}

type toneChartRenderer struct{}

func NewToneChartRenderer() ChartRenderer {
	return &toneChartRenderer{}
}

type toneSeries struct {
	label  string
	color  color.RGBA
	offset float64
	value  func(models.ToneScores) float64
}

// One bar per tone per question, grouped around each question tick.
var toneChartSeries = []toneSeries{
	{"Analytical", rgb(0x34, 0x98, 0xdb), -2, func(t models.ToneScores) float64 { return t.Analytical }},
	{"Confident", rgb(0x2e, 0xcc, 0x71), -1, func(t models.ToneScores) float64 { return t.Confident }},
	{"Fear", rgb(0xe7, 0x4c, 0x3c), 0, func(t models.ToneScores) float64 { return t.Fear }},
	{"Joy", rgb(0xf3, 0x9c, 0x12), 1, func(t models.ToneScores) float64 { return t.Joy }},
	{"Tentative", rgb(0x9b, 0x59, 0xb6), 2, func(t models.ToneScores) float64 { return t.Tentative }},
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// RenderToneChart implements ChartRenderer.
func (c *toneChartRenderer) RenderToneChart(responses []models.VideoResponse) ([]byte, error) {
	if len(responses) == 0 {
		return nil, fmt.Errorf("no responses to chart")
	}

	p := plot.New()
	p.Title.Text = "Tone Analysis by Question"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Y.Max = 100

	barWidth := vg.Points(15)

	labels := make([]string, len(responses))
	for i, r := range responses {
		labels[i] = fmt.Sprintf("Q%d", r.QuestionNumber)
	}

	for _, series := range toneChartSeries {
		values := make(plotter.Values, len(responses))
		for i, r := range responses {
			values[i] = series.value(r.Tones())
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s bars: %w", series.label, err)
		}
		bars.Color = series.color
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(series.offset) * barWidth

		p.Add(bars)
		p.Legend.Add(series.label, bars)
	}

	p.NominalX(labels...)
	p.Legend.Top = true

	writerTo, err := p.WriterTo(12*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writerTo.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}

	return buf.Bytes(), nil
}
