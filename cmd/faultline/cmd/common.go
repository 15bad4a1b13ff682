package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/faultline/internal/config"
	"github.com/hugo-lorenzo-mato/faultline/internal/logging"
	"github.com/hugo-lorenzo-mato/faultline/internal/store"
)

// newLogger builds the CLI logger from the persistent flags. Logs go to
// stderr so stdout stays clean for report content and JSON output.
func newLogger() *logging.Logger {
	return logging.New(logging.Config{
		Level:  logLevel,
		Format: logFormat,
		Output: os.Stderr,
	})
}

// loadConfig loads the effective configuration through the shared viper
// instance so persistent flag bindings apply.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoaderWithViper(viper.GetViper())
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openSyncedStore opens the report index and reconciles it against the
// reports directory, so commands always see the on-disk truth.
func openSyncedStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Reports.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("opening report index: %w", err)
	}
	if _, _, err := st.Sync(ctx, cfg.Reports.Dir); err != nil {
		st.Close()
		return nil, fmt.Errorf("syncing report index: %w", err)
	}
	return st, nil
}

// resolveReport finds a report by full ID, unique ID prefix, or file name.
func resolveReport(ctx context.Context, st *store.Store, ref string) (*store.Report, error) {
	if rep, err := st.Get(ctx, ref); err != nil {
		return nil, err
	} else if rep != nil {
		return rep, nil
	}

	reports, err := st.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []store.Report
	for _, rep := range reports {
		if strings.HasPrefix(rep.ID, ref) || rep.FileName == ref {
			matches = append(matches, rep)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no report matches %q", ref)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%q is ambiguous (%d reports match), use a longer prefix", ref, len(matches))
	}
}

// shortID trims a report ID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
