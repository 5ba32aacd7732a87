package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/referral-scout/internal/config"
	"github.com/jonathan/referral-scout/internal/fetch"
	"github.com/jonathan/referral-scout/internal/ingestion"
	"github.com/jonathan/referral-scout/internal/observability"
	"github.com/jonathan/referral-scout/internal/parsing"
	"github.com/spf13/cobra"
)

var parseJobCmd = &cobra.Command{
	Use:   "parse-job",
	Short: "Interpret a job description into a structured job profile",
	Long: `Interprets a job description into the structured job profile used for scoring.
The text comes from a file (--in) or is fetched from a job board posting (--url).
The profile is printed, and written as JSON when --out is given.`,
	RunE: runParseJob,
}

var (
	parseInputFile  string
	parseJobURL     string
	parseOutputFile string
	parseUseBrowser bool
)

func init() {
	parseJobCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to job description text file")
	parseJobCmd.Flags().StringVar(&parseJobURL, "url", "", "Job posting URL to fetch the description from")
	parseJobCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to output JSON file")
	parseJobCmd.Flags().BoolVar(&parseUseBrowser, "use-browser", false, "Render the posting with a headless browser (requires Chrome)")

	rootCmd.AddCommand(parseJobCmd)
}

func runParseJob(cmd *cobra.Command, _ []string) error {
	if parseInputFile != "" && parseJobURL != "" {
		return fmt.Errorf("cannot use --in with --url")
	}
	if parseInputFile == "" && parseJobURL == "" {
		return fmt.Errorf("must provide either --in or --url")
	}

	cfg, err := settingsFor(config.Needs{LLM: true})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var rawText string
	if parseInputFile != "" {
		rawText, err = ingestion.IngestFromFile(parseInputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
	} else {
		rawText, err = fetch.JobPosting(ctx, parseJobURL, fetch.PostingOptions{
			UseBrowser: parseUseBrowser || cfg.UseBrowser,
			Verbose:    cfg.Verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
	}
	if strings.TrimSpace(rawText) == "" {
		return fmt.Errorf("job description is empty")
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	profile, err := parsing.NewInterpreter(client, cfg.Verbose).Interpret(ctx, rawText)
	if err != nil {
		return fmt.Errorf("failed to parse job profile: %w", err)
	}

	out := cmd.OutOrStdout()
	observability.NewPrinter(out).PrintJobProfile(profile)

	if parseOutputFile != "" {
		jsonBytes, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(parseOutputFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Output: %s\n", parseOutputFile)
	}
	return nil
}
