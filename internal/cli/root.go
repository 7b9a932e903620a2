package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "guardline",
	Short: "Line-level access control for source files",
	Long:  "Resolves inline @guard tags into per-line permissions for AI and human actors.\nScopes follow program structure: functions, classes, blocks, signatures, statements.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default ~/.guardline/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
