package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/faultline/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List captured crash reports",
	Long: `List captured crash reports, newest first.

The index is reconciled against the reports directory before listing, so the
output always reflects the files on disk.`,
	RunE: runList,
}

var (
	listJSON bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}

func runList(_ *cobra.Command, _ []string) error {
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

	reports, err := st.List(ctx)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}

	if len(reports) == 0 {
		if listJSON {
			return json.NewEncoder(os.Stdout).Encode([]store.Report{})
		}
		fmt.Println("No crash reports captured.")
		fmt.Println("Reports appear after a fault; run 'faultline selftest' to produce one on purpose.")
		return nil
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	// Table output
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCAPTURED\tREASON\tSIGNAL\tFRAMES\tSIZE")
	fmt.Fprintln(w, "--\t--------\t------\t------\t------\t----")

	for _, rep := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			shortID(rep.ID),
			formatCaptureTime(rep.CapturedAt),
			rep.Reason,
			rep.Signal,
			rep.Frames,
			formatBytes(rep.SizeBytes),
		)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%d report(s)\n", len(reports))
	fmt.Println("Use 'faultline show <id>' to print a report")

	return nil
}

func formatCaptureTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
