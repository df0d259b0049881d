package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/config"
	"github.com/erazemk/trgovina/internal/insights"
	"github.com/erazemk/trgovina/internal/logging"
	"github.com/erazemk/trgovina/internal/metrics"
	"github.com/erazemk/trgovina/internal/notify"
	"github.com/erazemk/trgovina/internal/startup"
	"github.com/erazemk/trgovina/internal/web"
)

func main() {
	fs := flag.NewFlagSet("trgovina", flag.ContinueOnError)

	var addr string
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")

	var apiURL string
	fs.StringVar(&apiURL, "api", "", "")
	fs.StringVar(&apiURL, "u", "", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	var envFile string
	fs.StringVar(&envFile, "env", ".env", "")
	fs.StringVar(&envFile, "e", ".env", "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: trgovina [flags]

Flags:
  -a, -addr <host:port>   listen address (default: $ADDR or :8080)
  -u, -api <url>          REST API base URL (default: $API_BASE_URL or http://localhost:5000)
  -l, -log <path>         log file path (default: $LOG_PATH, stdout/stderr only)
  -e, -env <path>         .env file to load if present (default: .env)
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

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		os.Exit(1)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if logPath != "" {
		cfg.LogPath = logPath
	}

	closeLog, err := logging.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	flashKey, err := notify.DeriveKey(cfg.FlashSecret)
	if err != nil {
		slog.Error("failed to derive flash key", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	client := apiclient.New(cfg.APIBaseURL, cfg.APIKey, cfg.APITimeout, m)
	charts := web.NewChartStore()
	poller := insights.NewPoller(client.Insights(), cfg.InsightsInterval, charts, m)

	seq := startup.NewSequence(cfg.StartupTimeout,
		startup.Step{Name: "config", Run: func(context.Context) error {
			return checkAPIURL(cfg.APIBaseURL)
		}},
		startup.Step{Name: "api", Optional: true, Run: func(ctx context.Context) error {
			_, err := client.Inventory().Summary(ctx)
			return err
		}},
	)

	srv, err := web.New(web.Options{
		Client:      client,
		Metrics:     m,
		Poller:      poller,
		Charts:      charts,
		Flash:       notify.NewFlashCodec(flashKey),
		Startup:     seq,
		FilterMode:  cfg.FilterMode,
		ReloadDelay: cfg.ReloadDelay,
		RateLimit:   cfg.RateLimit,
	})
	if err != nil {
		slog.Error("failed to set up web server", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := seq.Start(ctx); err != nil {
			slog.Error("startup failed", "error", err)
			return
		}
		slog.Info("startup complete", "api", cfg.APIBaseURL, "filter_mode", cfg.FilterMode)
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("insights poller stopped", "error", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// checkAPIURL rejects a base URL the client cannot call.
func checkAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API base URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("API base URL %q has no host", raw)
	}
	return nil
}
