// Command sprint-replay analyses a recorded JSON-lines pose stream, either
// locally or by uploading it to a running sprint-server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/sprint.report/internal/api"
	"github.com/banshee-data/sprint.report/internal/config"
	"github.com/banshee-data/sprint.report/internal/db"
	"github.com/banshee-data/sprint.report/internal/monitoring"
	"github.com/banshee-data/sprint.report/internal/pose"
	"github.com/banshee-data/sprint.report/internal/report"
	"github.com/banshee-data/sprint.report/internal/session"
	"github.com/banshee-data/sprint.report/internal/sprint"
)

var (
	replayPath = flag.String("replay", "-", "JSON-lines frame file, or - for stdin")
	plotPath   = flag.String("plot", "", "Write a score plot to this file (.png, .svg, .pdf)")
	exportDir  = flag.String("export-dir", "", "Write <label>-scores.png into this directory")
	configPath = flag.String("config", "", "Analysis config JSON")
	dbPath     = flag.String("db", "", "Also store the session in this SQLite database")
	serverURL  = flag.String("server", "", "Upload frames to a sprint-server at this URL instead of analysing locally")
	label      = flag.String("label", "replay", "Session label")
	jsonOut    = flag.Bool("json", false, "Print one JSON analysis per line instead of a table")
	quiet      = flag.Bool("quiet", false, "Suppress diagnostic logging")
)

type options struct {
	Label    string
	PlotPath string
	Export   string
	DBPath   string
	Server   string
	JSON     bool
	Config   *config.AnalysisConfig
}

func main() {
	flag.Parse()
	if *quiet {
		monitoring.SetLogger(nil)
	}

	cfg := config.EmptyAnalysisConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadAnalysisConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	var in io.Reader = os.Stdin
	if *replayPath != "-" {
		f, err := os.Open(*replayPath)
		if err != nil {
			log.Fatalf("failed to open replay file: %v", err)
		}
		in = f
	}
	det := pose.NewReplayDetector(in)
	defer det.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{
		Label:    *label,
		PlotPath: *plotPath,
		Export:   *exportDir,
		DBPath:   *dbPath,
		Server:   *serverURL,
		JSON:     *jsonOut,
		Config:   cfg,
	}
	if err := run(ctx, det, opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, det pose.Detector, opts options, out io.Writer) error {
	var (
		analyses []sprint.Analysis
		err      error
	)
	if opts.Server != "" {
		analyses, err = upload(ctx, det, opts, out)
	} else {
		analyses, err = analyseLocally(ctx, det, opts, out)
	}
	if err != nil {
		return err
	}

	ms := session.MetricsOf(analyses)
	if !opts.JSON {
		printSummary(out, session.Summarize(ms))
	}
	if opts.PlotPath != "" {
		if err := report.PlotScores(ms, opts.PlotPath); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", opts.PlotPath)
	}
	if opts.Export != "" && len(ms) > 0 {
		if _, err := report.NewExporter(opts.Export).Export(opts.Label, ms); err != nil {
			return err
		}
	}
	return nil
}

func analyseLocally(ctx context.Context, det pose.Detector, opts options, out io.Writer) ([]sprint.Analysis, error) {
	var mopts []session.Option
	if opts.DBPath != "" {
		database, err := db.NewDB(opts.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		mopts = append(mopts, session.WithStore(database))
	}

	s, err := session.NewManager(opts.Config, mopts...).Create(opts.Label)
	if err != nil {
		return nil, err
	}

	var analyses []sprint.Analysis
	emit := printer(out, opts.JSON)
	_, err = s.Drain(ctx, det, opts.Config.GetUseAccurateModel(), func(a sprint.Analysis) {
		analyses = append(analyses, a)
		emit(a)
	})
	return analyses, err
}

func upload(ctx context.Context, det pose.Detector, opts options, out io.Writer) ([]sprint.Analysis, error) {
	c := api.NewClient(opts.Server, nil)
	info, err := c.CreateSession(ctx, opts.Label)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote session: %w", err)
	}
	monitoring.Logf("uploading to session %s", info.ID)

	var analyses []sprint.Analysis
	emit := printer(out, opts.JSON)
	for {
		f, err := det.Detect(ctx, pose.Image{}, opts.Config.GetUseAccurateModel())
		switch {
		case errors.Is(err, io.EOF):
			return analyses, nil
		case ctx.Err() != nil:
			return analyses, ctx.Err()
		case err != nil:
			monitoring.Logf("skipping frame: %v", err)
			continue
		}

		a, err := c.PostFrame(ctx, info.ID, f)
		if err != nil {
			monitoring.Logf("server rejected frame %d: %v", f.Timestamp, err)
			continue
		}
		analyses = append(analyses, a)
		emit(a)
	}
}

func printer(out io.Writer, asJSON bool) func(sprint.Analysis) {
	if asJSON {
		enc := json.NewEncoder(out)
		return func(a sprint.Analysis) {
			if err := enc.Encode(a); err != nil {
				monitoring.Logf("failed to encode analysis: %v", err)
			}
		}
	}
	fmt.Fprintf(out, "%-10s %8s %8s %8s %6s %-8s\n", "ts_ms", "knee", "hip_v", "sym", "score", "priority")
	return func(a sprint.Analysis) {
		m := a.Metrics
		sym := fmt.Sprintf("%8.1f", m.ArmSymmetry)
		if sprint.IsUnmeasurable(m.ArmSymmetry) {
			sym = fmt.Sprintf("%8s", "n/a")
		}
		fmt.Fprintf(out, "%-10d %8.1f %8.2f %s %6.1f %-8s\n",
			m.Timestamp, m.KneeAngle, m.HipVelocity, sym, m.OverallScore, a.Priority)
	}
}

func printSummary(out io.Writer, s session.Summary) {
	if s.Frames == 0 {
		fmt.Fprintln(out, "no frames analysed")
		return
	}
	fmt.Fprintf(out, "\nframes %d  score %.1f ± %.1f (min %.1f, max %.1f)  best at %d ms\n",
		s.Frames, s.MeanScore, s.StdDevScore, s.MinScore, s.MaxScore, s.Best.Timestamp)
}
