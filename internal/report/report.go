// Package report renders session metrics to static images.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/sprint.report/internal/biomech"
	"github.com/banshee-data/sprint.report/internal/fsutil"
	"github.com/banshee-data/sprint.report/internal/monitoring"
	"github.com/banshee-data/sprint.report/internal/security"
	"github.com/banshee-data/sprint.report/internal/sprint"
)

const (
	plotWidth  = 14 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// ErrNoMetrics is returned when there is nothing to plot.
var ErrNoMetrics = errors.New("no metrics to plot")

var (
	overallColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	kneeColor     = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
	velocityColor = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	symmetryColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// ScorePlot builds a plot of the overall score and the three sub-scores
// against seconds since the first frame.
func ScorePlot(title string, ms []sprint.Metrics) (*plot.Plot, error) {
	if len(ms) == 0 {
		return nil, ErrNoMetrics
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Y.Max = 100
	p.Add(plotter.NewGrid())

	t0 := ms[0].Timestamp
	series := []struct {
		name  string
		color color.Color
		width vg.Length
		score func(sprint.Metrics) float64
	}{
		{"overall", overallColor, vg.Points(2), func(m sprint.Metrics) float64 { return m.OverallScore }},
		{"knee", kneeColor, vg.Points(1), func(m sprint.Metrics) float64 { return biomech.KneeScore(m.KneeAngle) }},
		{"velocity", velocityColor, vg.Points(1), func(m sprint.Metrics) float64 { return biomech.VelocityScore(m.HipVelocity) }},
		{"symmetry", symmetryColor, vg.Points(1), func(m sprint.Metrics) float64 { return biomech.SymmetryScore(m.ArmSymmetry) }},
	}

	for _, s := range series {
		pts := make(plotter.XYs, len(ms))
		for i, m := range ms {
			pts[i] = plotter.XY{X: float64(m.Timestamp-t0) / 1000, Y: s.score(m)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.Color = s.color
		line.Width = s.width
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	p.Legend.Top = false
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = 10
	return p, nil
}

func plotTitle(ms []sprint.Metrics) string {
	return fmt.Sprintf("Sprint form (%d frames)", len(ms))
}

// WriteScores renders ScorePlot to w in the given format (png, svg, pdf).
func WriteScores(w io.Writer, format string, ms []sprint.Metrics) error {
	p, err := ScorePlot(plotTitle(ms), ms)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotWidth, plotHeight, format)
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// PlotScores writes ScorePlot to path. The format follows the extension
// (.png, .svg, .pdf) and path must be under the working or temp directory.
func PlotScores(ms []sprint.Metrics, path string) error {
	if err := security.ValidateExportPath(path); err != nil {
		return fmt.Errorf("invalid plot path: %w", err)
	}
	p, err := ScorePlot(plotTitle(ms), ms)
	if err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}

// Exporter writes one PNG per session into Dir, named after the session
// label.
type Exporter struct {
	FS  fsutil.FileSystem
	Dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{FS: fsutil.OSFileSystem{}, Dir: dir}
}

// Export writes the score plot for label and returns the file path.
func (e *Exporter) Export(label string, ms []sprint.Metrics) (string, error) {
	if len(ms) == 0 {
		return "", ErrNoMetrics
	}
	if err := e.FS.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	path, err := security.ExportPath(e.Dir, label, "-scores.png")
	if err != nil {
		return "", fmt.Errorf("invalid export path: %w", err)
	}

	f, err := e.FS.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteScores(f, "png", ms); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	monitoring.Logf("exported %d frames to %s", len(ms), path)
	return path, nil
}
