//go:build !unix

package cmd

import "github.com/hugo-lorenzo-mato/faultline/internal/config"

func checkCoreLimit(_ *config.Config) (string, error) {
	return "not applicable on this platform", nil
}
