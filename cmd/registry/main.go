package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/irielink/internal/api"
	"github.com/erazemk/irielink/internal/auth"
	"github.com/erazemk/irielink/internal/config"
	"github.com/erazemk/irielink/internal/db"
	"github.com/erazemk/irielink/internal/logging"
	"github.com/erazemk/irielink/internal/metrics"
	"github.com/erazemk/irielink/internal/store"
	"github.com/erazemk/irielink/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("registry", flag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: registry [flags]

Flags override the REGISTRY_* environment variables.

Flags:
  -d, -db <path>          SQLite database path (default: registry.db)
  -a, -addr <host:port>   listen address (default: :3000)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("registry stopped", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.IsDev() && os.Getenv(config.EnvPrefix+"_ADMIN_PASSWORD") == "" {
		slog.Warn("using the development admin password")
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	ctx := context.Background()
	imported, err := store.ImportLegacyCategories(ctx, database)
	if err != nil {
		return fmt.Errorf("importing legacy categories: %w", err)
	}
	if imported > 0 {
		slog.Info("legacy categories imported", "items", imported)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	secret := cfg.SessionSecret
	if secret == "" {
		if secret, err = store.GetSessionSecret(ctx, database); err != nil {
			return err
		}
	}
	sessions, err := auth.NewSessions(secret, cfg.SessionTTL)
	if err != nil {
		return err
	}
	gate, err := auth.NewGate(cfg.AdminPassword)
	if err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	srv, err := web.NewServer(database, gate, sessions, m)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	srv.SecureCookie = !cfg.IsDev()
	webRouter, err := srv.NewRouter()
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.NewRouter(database))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.LoggingMiddleware(m)(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}
