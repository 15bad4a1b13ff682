package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/faultline/internal/tui/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse crash reports interactively",
	Long: `Browse crash reports in an interactive terminal UI: fuzzy-filter the
report list, read reports in a scrollable pane, and copy them to the
clipboard.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openSyncedStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	return browse.Run(st, cfg.Reports.Dir)
}
