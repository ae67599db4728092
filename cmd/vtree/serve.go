package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/preview"
	"github.com/vango-dev/vtree/internal/resume"
	"github.com/vango-dev/vtree/pkg/telemetry"
)

func serveCmd() *cobra.Command {
	var (
		addr  string
		watch bool
		poll  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of the resume",
		Long: `Serve a live preview of the resume.

Browsers receive the rendered page and then only the mutations each
change produces. With --watch the resume file is reloaded whenever it
changes on disk, and connected browsers update in place.

Examples:
  vtree serve
  vtree serve --addr=0.0.0.0:8080 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Preview.Addr = addr
			}
			return runServe(cmd.Context(), cfg, watch, poll)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the resume when its file changes")
	cmd.Flags().DurationVar(&poll, "poll", 500*time.Millisecond, "How often --watch checks the resume file")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, watch bool, poll time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cfg.Logger(os.Stderr)
	data, err := resume.Load(cfg.ResumePath())
	if err != nil {
		return err
	}

	// The server supplies its own scheduler; the lock only satisfies the
	// timer scheduler's constructor.
	opts, err := cfg.EngineOptions(new(sync.Mutex))
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	opts = append(opts, cfg.TelemetryOptions(reg)...)
	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		// Same registry, so this is the sink TelemetryOptions created.
		metrics = telemetry.Prometheus(telemetry.WithRegistry(reg))
	}

	srv := preview.New(preview.Config{
		Addr:            cfg.Preview.Addr,
		ReadBufferSize:  cfg.Preview.ReadBufferSize,
		WriteBufferSize: cfg.Preview.WriteBufferSize,
		Logger:          logger,
		Registry:        reg,
		Metrics:         metrics,
		Options:         opts,
		Title:           resume.Title(data),
		Lang:            resume.Locale(cfg.Resume.Locale).String(),
		Styles:          []string{resume.Styles},
	})
	srv.Start(ctx)
	if err := srv.Update(ctx, resume.Render(data, cfg.Resume.Locale)); err != nil {
		return err
	}

	if watch {
		go watchResume(ctx, cfg, srv, poll)
	}

	printBanner()
	success("Preview at http://%s", cfg.Preview.Addr)
	info("Press Ctrl+C to stop")
	return srv.Run(ctx)
}

// watchResume re-renders whenever the resume file's modification time
// changes. Load errors are logged and the previous tree stays up.
func watchResume(ctx context.Context, cfg *config.Config, srv *preview.Server, poll time.Duration) {
	path := cfg.ResumePath()
	logger := cfg.Logger(os.Stderr).With("component", "watch")

	var last time.Time
	if fi, err := os.Stat(path); err == nil {
		last = fi.ModTime()
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		fi, err := os.Stat(path)
		if err != nil || !fi.ModTime().After(last) {
			continue
		}
		last = fi.ModTime()

		data, err := resume.Load(path)
		if err != nil {
			logger.Error("reload failed", "path", path, "error", err)
			continue
		}
		if err := srv.Update(ctx, resume.Render(data, cfg.Resume.Locale)); err != nil {
			logger.Error("update failed", "error", err)
			continue
		}
		success("Reloaded %s", path)
	}
}
