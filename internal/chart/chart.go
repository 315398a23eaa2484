// Package chart turns a ranked frequency list into an ECharts HTML artifact.
package chart

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hyperifyio/pagefreq/internal/freq"
)

// DefaultHeight is the display height of an artifact in pixels.
const DefaultHeight = 600

// Options control page-level presentation shared by every kind.
type Options struct {
	// Height in pixels; zero means DefaultHeight.
	Height int
	// PageTitle is the HTML <title>; empty uses the kind's label.
	PageTitle string
}

func (o Options) height() int {
	if o.Height > 0 {
		return o.Height
	}
	return DefaultHeight
}

func (o Options) initOpts(k Kind) charts.GlobalOpts {
	title := o.PageTitle
	if title == "" {
		title = k.Label()
	}
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Height:    strconv.Itoa(o.height()) + "px",
	})
}

// Artifact is a rendered chart ready to embed.
type Artifact struct {
	Kind   Kind
	HTML   []byte
	Height int
}

// Renderer writes one chart kind for already ranked entries.
type Renderer interface {
	Render(w io.Writer, entries []freq.Entry) error
}

// RendererFor returns the renderer of k.
func RendererFor(k Kind, o Options) (Renderer, error) {
	switch k {
	case Pie:
		return pieRenderer{o}, nil
	case Bar:
		return barRenderer{o}, nil
	case Line:
		return lineRenderer{o}, nil
	case WordCloud:
		return wordCloudRenderer{o}, nil
	case Radar:
		return radarRenderer{o}, nil
	default:
		return nil, fmt.Errorf("no renderer for %v", k)
	}
}

// Build renders entries as k in memory.
func Build(k Kind, entries []freq.Entry, o Options) (Artifact, error) {
	r, err := RendererFor(k, o)
	if err != nil {
		return Artifact{}, err
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, entries); err != nil {
		return Artifact{}, fmt.Errorf("render %v: %w", k, err)
	}
	return Artifact{Kind: k, HTML: buf.Bytes(), Height: o.height()}, nil
}

func axis(entries []freq.Entry) ([]string, []int) {
	labels := make([]string, len(entries))
	counts := make([]int, len(entries))
	for i, e := range entries {
		labels[i] = e.Token
		counts[i] = e.Count
	}
	return labels, counts
}

type pieRenderer struct{ o Options }

func (r pieRenderer) Render(w io.Writer, entries []freq.Entry) error {
	data := make([]opts.PieData, len(entries))
	for i, e := range entries {
		data[i] = opts.PieData{Name: e.Token, Value: e.Count}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.o.initOpts(Pie))
	pie.AddSeries("", data, charts.WithLabelOpts(opts.Label{Show: true, Formatter: "{b}: {c}"}))
	return pie.Render(w)
}

type barRenderer struct{ o Options }

func (r barRenderer) Render(w io.Writer, entries []freq.Entry) error {
	labels, counts := axis(entries)
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		data[i] = opts.BarData{Value: c}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.o.initOpts(Bar), charts.WithTitleOpts(opts.Title{Title: Bar.Label()}))
	bar.SetXAxis(labels).AddSeries("", data)
	return bar.Render(w)
}

type lineRenderer struct{ o Options }

func (r lineRenderer) Render(w io.Writer, entries []freq.Entry) error {
	labels, counts := axis(entries)
	data := make([]opts.LineData, len(counts))
	for i, c := range counts {
		data[i] = opts.LineData{Value: c}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(r.o.initOpts(Line), charts.WithTitleOpts(opts.Title{Title: Line.Label()}))
	line.SetXAxis(labels).
		AddSeries("", data, charts.WithLineChartOpts(opts.LineChart{Smooth: true}))
	return line.Render(w)
}

type wordCloudRenderer struct{ o Options }

func (r wordCloudRenderer) Render(w io.Writer, entries []freq.Entry) error {
	data := make([]opts.WordCloudData, len(entries))
	for i, e := range entries {
		data[i] = opts.WordCloudData{Name: e.Token, Value: e.Count}
	}
	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(r.o.initOpts(WordCloud), charts.WithTitleOpts(opts.Title{Title: WordCloud.Label()}))
	wc.AddSeries("", data)
	return wc.Render(w)
}

// radarSeriesName labels the single radar series.
const radarSeriesName = "词频统计"

type radarRenderer struct{ o Options }

// Render draws one indicator per token scaled to that token's own count, so
// every ranked token reaches the rim.
func (r radarRenderer) Render(w io.Writer, entries []freq.Entry) error {
	indicators := make([]*opts.Indicator, len(entries))
	values := make([]float32, len(entries))
	for i, e := range entries {
		indicators[i] = &opts.Indicator{Name: e.Token, Max: float32(e.Count)}
		values[i] = float32(e.Count)
	}
	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		r.o.initOpts(Radar),
		charts.WithTitleOpts(opts.Title{Title: Radar.Label()}),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
	)
	radar.AddSeries(radarSeriesName, []opts.RadarData{{Name: radarSeriesName, Value: values}},
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ff6666"}),
		charts.WithLabelOpts(opts.Label{Show: false}),
	)
	return radar.Render(w)
}
