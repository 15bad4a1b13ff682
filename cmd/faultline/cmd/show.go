package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/faultline/internal/clip"
	"github.com/hugo-lorenzo-mato/faultline/internal/fsutil"
	"github.com/hugo-lorenzo-mato/faultline/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show [report]",
	Short: "Print a crash report",
	Long: `Print a crash report to stdout. The report can be referenced by ID,
unique ID prefix, or file name; with no argument the latest report is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

var (
	showCopy bool
	showJSON bool
)

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showCopy, "copy", false, "Copy the report to the clipboard")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output indexed metadata as JSON instead of the report text")
}

func runShow(_ *cobra.Command, args []string) error {
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

	var rep *store.Report
	if len(args) == 0 {
		rep, err = st.Latest(ctx)
		if err != nil {
			return err
		}
		if rep == nil {
			return fmt.Errorf("no reports captured")
		}
	} else {
		rep, err = resolveReport(ctx, st, args[0])
		if err != nil {
			return err
		}
	}

	if showJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	data, err := fsutil.ReadDirFile(cfg.Reports.Dir, rep.FileName)
	if err != nil {
		return fmt.Errorf("reading report %s: %w", rep.FileName, err)
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return err
	}

	if showCopy {
		res, err := clip.WriteAll(string(data))
		if err != nil {
			return fmt.Errorf("copying report: %w", err)
		}
		// Status goes to stderr; stdout carries only the report.
		switch res.Method {
		case clip.MethodNative:
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
		case clip.MethodOSC52:
			fmt.Fprintln(os.Stderr, "Copied via terminal (OSC52)")
		case clip.MethodFile:
			fmt.Fprintf(os.Stderr, "Clipboard unavailable, saved to %s\n", res.FilePath)
		}
	}

	return nil
}
