package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/faultline/internal/api"
	"github.com/hugo-lorenzo-mato/faultline/internal/config"
	"github.com/hugo-lorenzo-mato/faultline/internal/crashlog"
	"github.com/hugo-lorenzo-mato/faultline/internal/diagnostics"
	"github.com/hugo-lorenzo-mato/faultline/internal/events"
	"github.com/hugo-lorenzo-mato/faultline/internal/store"
	"github.com/hugo-lorenzo-mato/faultline/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the capture service with report API and watcher",
	Long: `Run the capture service: the crash handler armed on this process, the
reports directory watcher, and the HTTP report API with live events.

Examples:
  # Start with defaults (127.0.0.1:8321)
  faultline serve

  # Start on a custom host and port
  faultline serve --host 0.0.0.0 --port 3000`,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "",
		"Host address to bind to (overrides server.host)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0,
		"Port to listen on (overrides server.port)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	// Arm capture before anything else so faults during startup are
	// reported too.
	fin := diagnostics.NewFinalizer(cfg.Reports.Dir, cfg.Reports.MaxFiles, cfg.Reports.BufferCapacity, logger.Logger)
	fin.SetBuildInfo(diagnostics.BuildInfo{Version: appVersion, Commit: appCommit, Date: appDate})

	var (
		handler  *crashlog.Handler
		registry *crashlog.Registry
	)
	if cfg.Capture.Enabled {
		handler = newCaptureHandler(cfg, fin)
		registry = crashlog.NewRegistry(handler)
		registry.Install()
		if cfg.Capture.PanicOnFault {
			registry.InitThread()
		}
		fin.Prime()
		logger.Info("crash capture armed",
			slog.Int("max_frames", cfg.Reports.MaxFrames),
			slog.Int("buffer_capacity", cfg.Reports.BufferCapacity))
	}

	st, err := store.Open(cfg.Reports.IndexPath)
	if err != nil {
		return fmt.Errorf("opening report index: %w", err)
	}
	defer st.Close()

	bus := events.New(100)
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sampler := diagnostics.NewSampler(10*time.Second, 60)
	sampler.Start(ctx)
	defer sampler.Stop()
	fin.AttachSampler(sampler)

	// Retention pass before serving; afterwards the finalizer rotates on
	// each capture.
	if removed, pruneErr := st.PruneKeep(ctx, cfg.Reports.MaxFiles); pruneErr != nil {
		logger.Warn("startup prune failed", slog.String("error", pruneErr.Error()))
	} else if removed > 0 {
		total, _ := st.Count(ctx)
		bus.Publish(events.NewReportPrunedEvent("serve", removed, total))
		logger.Info("pruned old reports", slog.Int("removed", removed), slog.Int("kept", total))
	}

	watcher := watch.New(cfg.Reports.Dir, cfg.Watch.DebounceDuration(), st, bus, logger.Logger)
	server := api.NewServer(st, cfg.Reports.Dir, bus,
		api.WithLogger(logger.Logger),
		api.WithAllowedOrigins(cfg.Server.CORSOrigins),
	)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if registry != nil && cfg.Capture.PanicOnFault {
			registry.InitThread()
		}
		if handler != nil {
			defer crashlog.RecoverAndCapture(handler)
		}
		if err := watcher.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watcher: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if registry != nil && cfg.Capture.PanicOnFault {
			registry.InitThread()
		}
		if handler != nil {
			defer crashlog.RecoverAndCapture(handler)
		}
		if err := server.ListenAndServe(gctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	logger.Info("faultline serving",
		slog.String("addr", addr),
		slog.String("reports", cfg.Reports.Dir),
		slog.Bool("capture", cfg.Capture.Enabled))

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
