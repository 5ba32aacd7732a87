package main

import (
	"fmt"
	"os"

	"github.com/jonathan/referral-scout/internal/observability"
	"github.com/spf13/cobra"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Build (or load from cache) the structured resume profile",
	Long:  "Extracts text from the resume document and derives skills, experience, education, certifications, projects and tools. The profile is cached until the document changes.",
	RunE:  runParseResume,
}

var (
	parseResumePath  string
	parseResumeForce bool
)

func init() {
	parseResumeCmd.Flags().StringVarP(&parseResumePath, "resume", "r", "", "Path to the resume document (overrides resume_path)")
	parseResumeCmd.Flags().BoolVar(&parseResumeForce, "force", false, "Ignore the cache and rebuild the profile")

	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(os.Getenv)
	if err != nil {
		return err
	}
	if parseResumePath != "" {
		cfg.ResumePath = parseResumePath
	}

	ctx := cmd.Context()
	builder, _, cleanup, err := newResumeBuilder(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	build := builder.BuildOrLoad
	if parseResumeForce {
		build = builder.Rebuild
	}
	profile, err := build(ctx, cfg.ResumePath)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintResumeProfile(profile)
	return nil
}
