package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/jonathan/referral-scout/internal/config"
	"github.com/jonathan/referral-scout/internal/matching"
	"github.com/jonathan/referral-scout/internal/observability"
	"github.com/jonathan/referral-scout/internal/outreach"
	"github.com/jonathan/referral-scout/internal/parsing"
	"github.com/jonathan/referral-scout/internal/pipeline"
	"github.com/jonathan/referral-scout/internal/tracker"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Process every unprocessed row in the tracker",
	Long: `Reads the tracker workbook and, for every row with a job link and JD text but no match score:
interprets the job description, scores it against the resume, finds three referral profiles,
drafts an intro message for each, and saves the row before moving to the next.`,
	RunE: runTrackerCmd,
}

var (
	runTrackerPath string
	runResumePath  string
	runSenderName  string
	runUseBrowser  bool
)

func init() {
	runCommand.Flags().StringVarP(&runTrackerPath, "tracker", "t", "", "Path to the tracker workbook (overrides tracker_path)")
	runCommand.Flags().StringVarP(&runResumePath, "resume", "r", "", "Path to the resume document (overrides resume_path)")
	runCommand.Flags().StringVarP(&runSenderName, "name", "n", "", "Your name as it appears in outreach messages (overrides sender_name)")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Render web search pages with a headless browser (requires Chrome)")

	rootCmd.AddCommand(runCommand)
}

func runTrackerCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(os.Getenv)
	if err != nil {
		return err
	}
	if runTrackerPath != "" {
		cfg.TrackerPath = runTrackerPath
	}
	if runResumePath != "" {
		cfg.ResumePath = runResumePath
	}
	if runSenderName != "" {
		cfg.SenderName = runSenderName
	}
	if runUseBrowser {
		cfg.UseBrowser = true
	}
	if err := cfg.Require(config.Needs{LLM: true, Search: true, Sender: true}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	deps, cleanup, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	summary, err := pipeline.Run(ctx, deps, pipeline.RunOptions{
		TrackerPath:  cfg.TrackerPath,
		ResumePath:   cfg.ResumePath,
		APICallDelay: cfg.APICallDelay(),
		Out:          out,
		Verbose:      cfg.Verbose,
	})
	if summary != nil {
		observability.NewPrinter(out).PrintSummary(summary)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

// buildDependencies wires the pipeline collaborators from configuration.
func buildDependencies(ctx context.Context, cfg *config.Config) (pipeline.Dependencies, func(), error) {
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return pipeline.Dependencies{}, nil, err
	}
	locator, err := newLocator(ctx, cfg)
	if err != nil {
		_ = client.Close()
		return pipeline.Dependencies{}, nil, err
	}
	builder, database, closeDB, err := newResumeBuilder(ctx, cfg)
	if err != nil {
		_ = client.Close()
		return pipeline.Dependencies{}, nil, err
	}

	deps := pipeline.Dependencies{
		OpenStore: pipeline.TrackerOpener(tracker.Options{Verbose: cfg.Verbose}),
		Resume:    builder,
		Components: pipeline.Components{
			Interpreter: parsing.NewInterpreter(client, cfg.Verbose),
			Scorer:      matching.NewScorer(client, cfg.Verbose),
			Referrals:   locator,
			Composer:    outreach.NewComposer(client, cfg.SenderName, cfg.Verbose),
		},
	}
	if database != nil {
		deps.Runs = database
	}

	cleanup := func() {
		closeDB()
		_ = client.Close()
	}
	return deps, cleanup, nil
}
