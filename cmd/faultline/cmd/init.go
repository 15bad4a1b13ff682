package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/faultline/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize faultline in the current directory",
	Long: `Initialize faultline in the current directory.
Writes the default configuration file and creates the state directories.`,
	RunE: runInit,
}

var (
	initForce bool
	initUser  bool
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
	initCmd.Flags().BoolVar(&initUser, "user", false, "Write the per-user config (~/.config/faultline) instead")
}

func runInit(_ *cobra.Command, _ []string) error {
	if initUser {
		path, err := config.EnsureUserConfigFile()
		if err != nil {
			return err
		}
		fmt.Println("User configuration file:", path)
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	configPath := filepath.Join(cwd, ".faultline.yaml")

	if _, err := os.Stat(configPath); err == nil {
		if !initForce {
			return fmt.Errorf("configuration already exists, use --force to overwrite")
		}
		// Replace the existing file without a torn-write window.
		if err := config.AtomicWrite(configPath, []byte(config.DefaultConfigYAML)); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	} else if err := os.WriteFile(configPath, []byte(config.DefaultConfigYAML), 0o644); err != nil { //nolint:gosec // Config file needs to be readable
		return fmt.Errorf("writing config: %w", err)
	}

	// Create directories
	dirs := []string{
		config.DefaultStateDir,
		filepath.Join(config.DefaultStateDir, "reports"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(cwd, dir), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	fmt.Println("Initialized faultline in", cwd)
	fmt.Println("Configuration file: .faultline.yaml")
	fmt.Println("Run 'faultline doctor' to verify setup")

	return nil
}
