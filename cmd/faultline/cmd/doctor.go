package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/faultline/internal/clip"
	"github.com/hugo-lorenzo-mato/faultline/internal/config"
	"github.com/hugo-lorenzo-mato/faultline/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the capture environment",
	Long:  "Verify that crash reports can be written, indexed, and inspected on this system.",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type doctorCheck struct {
	name     string
	required bool
	run      func(cfg *config.Config) (string, error)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	checks := []doctorCheck{
		{"reports directory", true, checkReportsDir},
		{"report index", true, checkReportIndex},
		{"core dump limit", false, checkCoreLimit},
		{"GOTRACEBACK", false, checkGotraceback},
		{"clipboard", false, checkClipboard},
	}

	fmt.Println("Checking capture environment...")
	fmt.Println()

	requiredOk := true
	for _, check := range checks {
		note, checkErr := check.run(cfg)
		icon := "✓"
		if checkErr != nil {
			if check.required {
				icon = "✗"
				requiredOk = false
			} else {
				icon = "⚠"
			}
			note = checkErr.Error()
		}
		if note != "" {
			fmt.Printf("  %s %s: %s\n", icon, check.name, note)
		} else {
			fmt.Printf("  %s %s\n", icon, check.name)
		}
	}
	fmt.Println()

	fmt.Println("Validating configuration...")
	fmt.Println()

	configOk := true
	if err := config.ValidateConfig(cfg); err != nil {
		configOk = false
		if verrs, ok := err.(config.ValidationErrors); ok {
			for _, verr := range verrs {
				fmt.Printf("  ✗ %s\n", verr.Error())
			}
		} else {
			fmt.Printf("  ✗ %s\n", err.Error())
		}
		fmt.Println()
		fmt.Println("Fix the configuration before arming capture.")
	} else {
		fmt.Println("  ✓ configuration valid")
	}
	fmt.Println()

	if !requiredOk || !configOk {
		return fmt.Errorf("environment check failed")
	}

	fmt.Println("Capture environment ready")
	return nil
}

func checkReportsDir(cfg *config.Config) (string, error) {
	if err := os.MkdirAll(cfg.Reports.Dir, 0o750); err != nil {
		return "", fmt.Errorf("cannot create %s: %w", cfg.Reports.Dir, err)
	}
	probe := filepath.Join(cfg.Reports.Dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return "", fmt.Errorf("%s is not writable: %w", cfg.Reports.Dir, err)
	}
	_ = os.Remove(probe)
	return cfg.Reports.Dir + " writable", nil
}

func checkReportIndex(cfg *config.Config) (string, error) {
	st, err := store.Open(cfg.Reports.IndexPath)
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", cfg.Reports.IndexPath, err)
	}
	defer st.Close()

	count, err := st.Count(context.Background())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d report(s) indexed", count), nil
}

func checkGotraceback(_ *config.Config) (string, error) {
	switch v := os.Getenv("GOTRACEBACK"); v {
	case "":
		return "default", nil
	case "none":
		return "", fmt.Errorf("GOTRACEBACK=none suppresses runtime stack traces")
	default:
		return v, nil
	}
}

func checkClipboard(_ *config.Config) (string, error) {
	switch clip.Probe() {
	case clip.MethodNative:
		return "native clipboard available", nil
	case clip.MethodOSC52:
		return "terminal clipboard (OSC52)", nil
	default:
		return "", fmt.Errorf("no clipboard; copy falls back to temp files")
	}
}
