package leaderboardservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors used for rendered charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	TextColor  drawing.Color
}

// DefaultPalette is used by RenderChart.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("101418"),
	Bar:        drawing.ColorFromHex("e4572e"),
	TextColor:  drawing.ColorFromHex("f3f3f3"),
}

// MaxChartBars caps the bars drawn on one chart; image width grows with them.
const MaxChartBars = 50

// RenderChart draws the current top entries as a PNG bar chart of scores.
// limit <= 0 uses the configured top N; anything above MaxChartBars is capped.
func (s *LeaderboardService) RenderChart(ctx context.Context, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = s.cfg.TopN
	}
	limit = min(limit, MaxChartBars)

	view, err := s.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	bars := make([]chart.Value, 0, len(view.Entries))
	for _, e := range view.Entries {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("#%d %s", e.Rank, e.Username),
			Value: float64(e.Score),
		})
	}
	return GenerateScoreChart(bars, DefaultPalette)
}

// GenerateScoreChart renders labelled scores as a PNG bar chart.
func GenerateScoreChart(bars []chart.Value, palette ChartPalette) ([]byte, error) {
	if len(bars) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	for i := range bars {
		bars[i].Style = chart.Style{
			FillColor:   palette.Bar,
			StrokeColor: palette.Bar,
		}
	}

	graph := chart.BarChart{
		Width:    120*len(bars) + 160,
		Height:   420,
		BarWidth: 60,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Style{
			FontColor: palette.TextColor,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render leaderboard chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws a message over an empty bar chart. go-chart
// refuses to render without data, so it carries one invisible zero bar on a
// fixed range.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No leaderboard published yet"
	)

	graph := chart.BarChart{
		Width:    width,
		Height:   height,
		BarWidth: 1,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.Hidden(),
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: []chart.Value{{
			Value: 0,
			Style: chart.Style{
				FillColor:   drawing.ColorTransparent,
				StrokeColor: drawing.ColorTransparent,
			},
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
				r.SetFont(defaults.Font)
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (width - tb.Width()) / 2
				y := (height + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render empty leaderboard chart: %w", err)
	}
	return buffer.Bytes(), nil
}
