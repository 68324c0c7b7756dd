package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/sprint.report/internal/api"
	"github.com/banshee-data/sprint.report/internal/config"
	"github.com/banshee-data/sprint.report/internal/db"
	"github.com/banshee-data/sprint.report/internal/monitoring"
	"github.com/banshee-data/sprint.report/internal/observability"
	"github.com/banshee-data/sprint.report/internal/pose"
	"github.com/banshee-data/sprint.report/internal/session"
	"github.com/banshee-data/sprint.report/internal/timeutil"
	"github.com/banshee-data/sprint.report/internal/version"
)

var (
	devMode     = flag.Bool("dev", false, "Feed a demo session from a synthetic detector")
	devStep     = flag.Float64("dev-step", 0.4, "Hip advance per synthetic frame in dev mode (detector units)")
	listen      = flag.String("listen", ":8080", "Listen address")
	dbPath      = flag.String("db", "sprint.db", "Path to the SQLite database")
	configPath  = flag.String("config", "", "Analysis config JSON (defaults to "+config.DefaultConfigPath+" when present)")
	verbose     = flag.Bool("verbose", false, "Log every analysed frame")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// loadConfig reads -config, or the canonical defaults file when it exists,
// or falls back to built-in defaults.
func loadConfig(path string) (*config.AnalysisConfig, error) {
	if path != "" {
		return config.LoadAnalysisConfig(path)
	}
	if _, err := os.Stat(config.DefaultConfigPath); err == nil {
		return config.LoadAnalysisConfig(config.DefaultConfigPath)
	}
	return config.EmptyAnalysisConfig(), nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if flag.NArg() > 0 && flag.Arg(0) == "migrate" {
		if err := db.RunMigrateCommand(flag.Args()[1:], *dbPath, os.Stdout); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	monitoring.SetVerbose(*verbose)
	log.Printf("sprint-server %s", version.String())

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	manager := session.NewManager(cfg,
		session.WithStore(database),
		session.WithMetrics(observability.DefaultMetrics),
	)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *devMode {
		demo, err := manager.Create("dev demo")
		if err != nil {
			log.Fatalf("failed to create demo session: %v", err)
		}
		det := pose.NewStaticDetector(timeutil.RealClock{}, *devStep)
		log.Printf("dev mode: feeding session %s every %v", demo.ID, cfg.GetCaptureInterval())

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer det.Close()
			if err := demo.Run(ctx, det, cfg.GetCaptureInterval(), cfg.GetUseAccurateModel()); err != nil {
				log.Printf("dev capture loop: %v", err)
			}
			log.Print("dev capture routine terminated")
		}()
	}

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(manager, database, cfg).ServeMux()
		if err := database.AttachAdminRoutes(mux); err != nil {
			log.Printf("admin routes disabled: %v", err)
		}

		server := &http.Server{
			Addr:              *listen,
			Handler:           api.LoggingMiddleware(mux),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("failed to start server: %v", err)
			}
		}()
		log.Printf("listening on %s", *listen)

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}

		log.Printf("HTTP server routine stopped")
	}()

	// Wait for all goroutines to finish
	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
