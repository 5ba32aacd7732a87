// Package main provides the referral_agent CLI, which scores tracked job
// applications against a resume and drafts referral outreach.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "referral_agent",
	Short: "Job application tracker assistant",
	Long: `referral_agent reads a job application tracker workbook, scores each new posting against your resume,
finds three people at the company who could refer you, and drafts a short intro message for each.

Configuration can be loaded from a JSON file using --config. Environment variables override the file
and command-line flags override both.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
