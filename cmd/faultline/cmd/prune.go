package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old crash reports beyond a keep count",
	Long: `Remove the oldest crash reports so that at most --keep remain. Both the
report files and their index rows are removed. Without --keep the configured
reports.max_files bound applies.`,
	RunE: runPrune,
}

var (
	pruneKeep int
)

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", 0, "Number of newest reports to keep (default: reports.max_files)")
}

func runPrune(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	keep := cfg.Reports.MaxFiles
	if cmd.Flags().Changed("keep") {
		keep = pruneKeep
	}
	if keep < 0 {
		return fmt.Errorf("keep must be zero or positive")
	}

	st, err := openSyncedStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	removed, err := st.PruneKeep(ctx, keep)
	if err != nil {
		return fmt.Errorf("pruning reports: %w", err)
	}

	remaining, err := st.Count(ctx)
	if err != nil {
		return err
	}

	if removed == 0 {
		fmt.Printf("Nothing to prune (%d report(s), keeping %d)\n", remaining, keep)
		return nil
	}

	fmt.Printf("Removed %d report(s), %d remaining\n", removed, remaining)
	return nil
}
