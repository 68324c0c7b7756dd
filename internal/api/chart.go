package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/sprint.report/internal/biomech"
	"github.com/banshee-data/sprint.report/internal/httputil"
	"github.com/banshee-data/sprint.report/internal/report"
	"github.com/banshee-data/sprint.report/internal/session"
	"github.com/banshee-data/sprint.report/internal/sprint"
)

// showChart renders the session's scores over time as an HTML line chart.
func (s *Server) showChart(w http.ResponseWriter, r *http.Request) {
	as, ok := s.loadHistory(w, r)
	if !ok {
		return
	}

	line := scoreChart(r.PathValue("id"), as)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// showPlot renders the same history as a static PNG.
func (s *Server) showPlot(w http.ResponseWriter, r *http.Request) {
	as, ok := s.loadHistory(w, r)
	if !ok {
		return
	}
	if len(as) == 0 {
		httputil.NotFound(w, report.ErrNoMetrics.Error())
		return
	}

	var buf bytes.Buffer
	if err := report.WriteScores(&buf, "png", session.MetricsOf(as)); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render plot: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func scoreChart(id string, as []sprint.Analysis) *charts.Line {
	x := make([]string, len(as))
	overall := make([]opts.LineData, len(as))
	knee := make([]opts.LineData, len(as))
	velocity := make([]opts.LineData, len(as))
	symmetry := make([]opts.LineData, len(as))

	var t0 int64
	if len(as) > 0 {
		t0 = as[0].Metrics.Timestamp
	}
	for i, a := range as {
		m := a.Metrics
		x[i] = strconv.FormatFloat(float64(m.Timestamp-t0)/1000, 'f', 2, 64)
		overall[i] = opts.LineData{Value: m.OverallScore}
		knee[i] = opts.LineData{Value: biomech.KneeScore(m.KneeAngle)}
		velocity[i] = opts.LineData{Value: biomech.VelocityScore(m.HipVelocity)}
		symmetry[i] = opts.LineData{Value: biomech.SymmetryScore(m.ArmSymmetry)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Sprint form", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Sprint form score", Subtitle: fmt.Sprintf("session=%s frames=%d", id, len(as))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "score", Min: 0, Max: 100}),
	)
	line.SetXAxis(x).
		AddSeries("overall", overall).
		AddSeries("knee", knee).
		AddSeries("velocity", velocity).
		AddSeries("symmetry", symmetry).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}
