// Command dashboard serves the lap comparison UI over the normalized
// artifacts, with the lap index debug surface mounted under /debug/.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/laptrace.report/internal/config"
	"github.com/banshee-data/laptrace.report/internal/dashboard"
	"github.com/banshee-data/laptrace.report/internal/fsutil"
	"github.com/banshee-data/laptrace.report/internal/lapstore"
	"github.com/banshee-data/laptrace.report/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to JSON config file")
	listen      = flag.String("listen", "", "Listen address (overrides config)")
	cleanedDir  = flag.String("cleaned", "", "Directory of cleaned artifacts (overrides config)")
	session     = flag.String("session", "", "Session label for artifact filenames (overrides config)")
	dbPath      = flag.String("db", "", "Lap index database path (overrides config; 'none' disables)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *cfg.Listen == "" {
		log.Fatal("Listen address is required")
	}

	var store *lapstore.Store
	if *cfg.DBPath != "none" {
		store, err = lapstore.Open(*cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open lap index: %v", err)
		}
		defer store.Close()
	}

	mux := http.NewServeMux()
	if store != nil {
		if err := store.AttachAdminRoutes(mux); err != nil {
			log.Fatalf("Failed to attach admin routes: %v", err)
		}
	}

	srv := dashboard.NewServer(cfg, fsutil.OSFileSystem{}, store)
	mux.Handle("/", srv.ServeMux())

	server := &http.Server{
		Addr:    *cfg.Listen,
		Handler: dashboard.LoggingMiddleware(mux),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("%s listening on %s", version.String(), *cfg.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("Graceful shutdown complete")
}

func loadConfig() (*config.Pipeline, error) {
	var cfg *config.Pipeline
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Defaults()
	}

	overrides := &config.Pipeline{}
	if *listen != "" {
		overrides.Listen = listen
	}
	if *cleanedDir != "" {
		overrides.CleanedDir = cleanedDir
	}
	if *session != "" {
		overrides.Session = session
	}
	if *dbPath != "" {
		overrides.DBPath = dbPath
	}
	cfg.Merge(overrides)
	return cfg, cfg.Validate()
}
