// Package cmd contains the command-line interface logic for xsscan.
// It uses the Cobra library to create the CLI.
package cmd

import (
	"github.com/spf13/cobra"
)

const Version = "1.0.0"

var (
	configPath string
	outputDir  string

	rootCmd = &cobra.Command{
		Use:   "xsscan",
		Short: "xsscan is a context-aware reflected XSS scanner.",
		Long: `A reflected cross-site-scripting scanner that classifies where input
lands in a response and fires context-specific exploit strings to confirm
execution. Only test applications you own or have permission to test.`,
		Version: Version,
	}
)

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "Directory containing xsscan.yaml")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Directory to save reports (overrides config)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
