package main

import (
	"fmt"
	"os"

	"github.com/jonathan/referral-scout/internal/tracker"
	"github.com/spf13/cobra"
)

var initTrackerCmd = &cobra.Command{
	Use:   "init-tracker",
	Short: "Create the tracker workbook, or migrate an existing one",
	RunE:  runInitTracker,
}

var initTrackerPath string

func init() {
	initTrackerCmd.Flags().StringVarP(&initTrackerPath, "tracker", "t", "", "Path to the tracker workbook (overrides tracker_path)")

	rootCmd.AddCommand(initTrackerCmd)
}

func runInitTracker(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(os.Getenv)
	if err != nil {
		return err
	}
	if initTrackerPath != "" {
		cfg.TrackerPath = initTrackerPath
	}

	t, err := tracker.Open(cfg.TrackerPath, tracker.Options{Verbose: cfg.Verbose})
	if err != nil {
		return err
	}
	defer func() { _ = t.Close() }()

	out := cmd.OutOrStdout()
	switch {
	case t.Created():
		_, _ = fmt.Fprintf(out, "Created tracker: %s\n", t.Path())
	case t.Migrated():
		_, _ = fmt.Fprintf(out, "Migrated tracker: %s\n", t.Path())
	default:
		_, _ = fmt.Fprintf(out, "Tracker is up to date: %s\n", t.Path())
	}
	_, _ = fmt.Fprintln(out, "Paste a job link in column A and the job description in column B, then run 'referral_agent run'.")
	return nil
}
