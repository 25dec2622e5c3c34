// Package chart は gonum/plot を使ってダッシュボード用の PNG チャートを描画します。
package chart

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"stock_predictor/internal/feature/prediction/domain"
	"stock_predictor/internal/feature/prediction/domain/entity"
)

var (
	colorObserved = color.RGBA{A: 255}
	colorYhat     = color.RGBA{R: 0x00, G: 0x72, B: 0xb2, A: 255}
	colorBand     = color.RGBA{R: 0x00, G: 0x72, B: 0xb2, A: 0x40}
	colorHistory  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}
)

// Renderer draws the history, forecast and components charts.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer は指定サイズ（インチ）のレンダラーを作成します。0 以下の値は既定値（10x6）になります。
func NewRenderer(widthIn, heightIn float64) *Renderer {
	if widthIn <= 0 {
		widthIn = 10
	}
	if heightIn <= 0 {
		heightIn = 6
	}
	return &Renderer{width: vg.Length(widthIn) * vg.Inch, height: vg.Length(heightIn) * vg.Inch}
}

// RenderAll は3つのチャートを並行に描画します。いずれかが失敗した場合は最初のエラーを返します。
func (r *Renderer) RenderAll(ctx context.Context, title string, prices entity.PriceSeries, f entity.Forecast, comps entity.Components) (entity.ChartImages, error) {
	var out entity.ChartImages
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := r.History(title, prices)
		out.History = b
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := r.Forecast(prices, f)
		out.Forecast = b
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := r.Components(comps)
		out.Components = b
		return err
	})

	if err := g.Wait(); err != nil {
		return entity.ChartImages{}, err
	}
	return out, nil
}

// History は調整後終値の折れ線グラフを描画します。
func (r *Renderer) History(title string, prices entity.PriceSeries) ([]byte, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("history chart: %w", domain.ErrNoChartData)
	}

	p := newTimePlot(title, "Date", "Adjusted Close")
	xys := make(plotter.XYs, len(prices))
	for i, bar := range prices {
		xys[i] = plotter.XY{X: unix(bar.Date), Y: bar.AdjClose}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("history chart: %w", err)
	}
	line.Color = colorHistory
	line.Width = vg.Points(1.2)
	p.Add(plotter.NewGrid(), line)

	return encode(p, r.width, r.height)
}

// Forecast は観測値の散布図、予測値の折れ線、80%区間の帯を重ねて描画します。
func (r *Renderer) Forecast(prices entity.PriceSeries, f entity.Forecast) ([]byte, error) {
	if len(f) == 0 {
		return nil, fmt.Errorf("forecast chart: %w", domain.ErrNoChartData)
	}

	p := newTimePlot("", "ds", "y")

	yhat := make(plotter.XYs, len(f))
	upper := make(plotter.XYs, len(f))
	lower := make(plotter.XYs, len(f))
	for i, pt := range f {
		x := unix(pt.DS)
		yhat[i] = plotter.XY{X: x, Y: pt.Yhat}
		upper[i] = plotter.XY{X: x, Y: pt.YhatUpper}
		lower[len(f)-1-i] = plotter.XY{X: x, Y: pt.YhatLower}
	}

	band, err := plotter.NewPolygon(append(upper, lower...))
	if err != nil {
		return nil, fmt.Errorf("forecast chart: %w", err)
	}
	band.Color = colorBand
	band.LineStyle.Width = 0

	line, err := plotter.NewLine(yhat)
	if err != nil {
		return nil, fmt.Errorf("forecast chart: %w", err)
	}
	line.Color = colorYhat
	line.Width = vg.Points(1.2)

	p.Add(plotter.NewGrid(), band)
	if len(prices) > 0 {
		obs := make(plotter.XYs, len(prices))
		for i, bar := range prices {
			obs[i] = plotter.XY{X: unix(bar.Date), Y: bar.AdjClose}
		}
		sc, err := plotter.NewScatter(obs)
		if err != nil {
			return nil, fmt.Errorf("forecast chart: %w", err)
		}
		sc.GlyphStyle.Color = colorObserved
		sc.GlyphStyle.Radius = vg.Points(0.8)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add("observed", sc)
	}
	p.Add(line)
	p.Legend.Add("yhat", line)
	p.Legend.Add("80% interval", band)
	p.Legend.Top = true
	p.Legend.Left = true

	return encode(p, r.width, r.height)
}

// Components はトレンドと各季節性を縦に並べたパネルとして描画します。
func (r *Renderer) Components(c entity.Components) ([]byte, error) {
	if len(c.DS) == 0 || len(c.Trend) != len(c.DS) {
		return nil, fmt.Errorf("components chart: %w", domain.ErrNoChartData)
	}

	panels := make([][]*plot.Plot, 0, 1+len(c.Seasonal))

	trend := newTimePlot("", "ds", "trend")
	xys := make(plotter.XYs, len(c.DS))
	for i, ds := range c.DS {
		xys[i] = plotter.XY{X: unix(ds), Y: c.Trend[i]}
	}
	tl, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("components chart: %w", err)
	}
	tl.Color = colorYhat
	trend.Add(plotter.NewGrid(), tl)
	panels = append(panels, []*plot.Plot{trend})

	for _, s := range c.Seasonal {
		sp, err := seasonalPanel(s)
		if err != nil {
			return nil, fmt.Errorf("components chart: %w", err)
		}
		panels = append(panels, []*plot.Plot{sp})
	}

	height := r.height / 2 * vg.Length(len(panels))
	img := vgimg.New(r.width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(panels),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(panels, tiles, dc)
	for i := range panels {
		panels[i][0].Draw(canvases[i][0])
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("components chart: %w", err)
	}
	return buf.Bytes(), nil
}

var weekdayTicks = []plot.Tick{
	{Value: 0, Label: "Sunday"},
	{Value: 1, Label: "Monday"},
	{Value: 2, Label: "Tuesday"},
	{Value: 3, Label: "Wednesday"},
	{Value: 4, Label: "Thursday"},
	{Value: 5, Label: "Friday"},
	{Value: 6, Label: "Saturday"},
}

func seasonalPanel(s entity.SeasonalProfile) (*plot.Plot, error) {
	if len(s.DS) == 0 || len(s.DS) != len(s.Values) {
		return nil, fmt.Errorf("%s profile: %w", s.Name, domain.ErrNoChartData)
	}

	p := plot.New()
	xys := make(plotter.XYs, len(s.Values))
	if s.Name == entity.SeasonalityWeekly {
		p.X.Label.Text = "Day of week"
		p.X.Tick.Marker = plot.ConstantTicks(weekdayTicks)
		for i, v := range s.Values {
			xys[i] = plotter.XY{X: float64(i), Y: v}
		}
	} else {
		p.X.Label.Text = "Day of year"
		p.X.Tick.Marker = plot.TimeTicks{Format: "January 2"}
		for i, v := range s.Values {
			xys[i] = plotter.XY{X: unix(s.DS[i]), Y: v}
		}
	}
	p.Y.Label.Text = s.Name

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = colorYhat
	p.Add(plotter.NewGrid(), line)
	return p, nil
}

func newTimePlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	return p
}

func encode(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unix(t time.Time) float64 {
	return float64(t.Unix())
}
