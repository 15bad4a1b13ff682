package cmd

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

//go:embed report_format.md
var formatGuide string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the crash report format guide",
	Long:  "Render the crash report format guide: sections, field layout, skip notices, and tooling.",
	RunE:  runDocs,
}

var (
	docsPlain bool
)

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.Flags().BoolVar(&docsPlain, "plain", false, "Print raw markdown without rendering")
}

func runDocs(_ *cobra.Command, _ []string) error {
	if docsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(formatGuide)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(formatGuide)
		return nil
	}

	out, err := renderer.Render(formatGuide)
	if err != nil {
		fmt.Print(formatGuide)
		return nil
	}

	fmt.Print(out)
	return nil
}
