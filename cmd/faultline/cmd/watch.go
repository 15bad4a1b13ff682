package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/faultline/internal/events"
	"github.com/hugo-lorenzo-mato/faultline/internal/store"
	"github.com/hugo-lorenzo-mato/faultline/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the reports directory and keep the index fresh",
	Long: `Watch the reports directory in the foreground. New crash reports are
indexed as they appear and announced in the logs; reports removed on disk
drop out of the index. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Reports.IndexPath)
	if err != nil {
		return err
	}
	defer st.Close()

	bus := events.New(100)
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := watch.New(cfg.Reports.Dir, cfg.Watch.DebounceDuration(), st, bus, logger.Logger)
	logger.Info("watching reports directory",
		slog.String("dir", cfg.Reports.Dir),
		slog.String("index", st.Path()))

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("watcher stopped")
	return nil
}
