package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/referral-scout/internal/config"
	"github.com/jonathan/referral-scout/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the settings loader reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "LLM_PROVIDER", "GOOGLE_SEARCH_API_KEY",
		"GOOGLE_SEARCH_CX", "SEARCH_BACKEND", "DATABASE_URL", "REDIS_URL", "RESUME_PATH", "TRACKER_PATH", "SENDER_NAME",
	} {
		t.Setenv(name, "")
	}
}

func TestInitTrackerCommand(t *testing.T) {
	resetGlobals(t)
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tracker", "jobs.xlsx")
	initTrackerPath = path
	t.Cleanup(func() { initTrackerPath = "" })

	var out bytes.Buffer
	initTrackerCmd.SetOut(&out)
	require.NoError(t, runInitTracker(initTrackerCmd, nil))
	assert.Contains(t, out.String(), "Created tracker: "+path)

	out.Reset()
	require.NoError(t, runInitTracker(initTrackerCmd, nil))
	assert.Contains(t, out.String(), "Tracker is up to date")

	tr, err := tracker.Open(path, tracker.Options{})
	require.NoError(t, err)
	defer func() { _ = tr.Close() }()
	rows, err := tr.ListUnprocessedRows()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunCommand_MissingCredentials(t *testing.T) {
	resetGlobals(t)
	clearEnv(t)
	runTrackerPath = filepath.Join(t.TempDir(), "jobs.xlsx")
	t.Cleanup(func() { runTrackerPath = "" })

	err := runTrackerCmd(runCommand, nil)
	assert.ErrorIs(t, err, config.ErrMissingCredentials)

	_, statErr := os.Stat(runTrackerPath)
	assert.True(t, os.IsNotExist(statErr), "no work happens before credentials are checked")
}

func TestRunCommand_MissingSender(t *testing.T) {
	resetGlobals(t)
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	err := runTrackerCmd(runCommand, nil)
	assert.ErrorIs(t, err, config.ErrMissingSetting)
}

func TestParseJobCommand_Flags(t *testing.T) {
	resetGlobals(t)
	t.Cleanup(func() { parseInputFile, parseJobURL = "", "" })

	parseInputFile, parseJobURL = "", ""
	err := runParseJob(parseJobCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must provide either --in or --url")

	parseInputFile, parseJobURL = "job.txt", "https://example.com/job"
	err = runParseJob(parseJobCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot use --in with --url")
}

func TestParseJobCommand_MissingCredentials(t *testing.T) {
	resetGlobals(t)
	clearEnv(t)
	parseInputFile = filepath.Join(t.TempDir(), "job.txt")
	t.Cleanup(func() { parseInputFile = "" })

	err := runParseJob(parseJobCmd, nil)
	assert.ErrorIs(t, err, config.ErrMissingCredentials)
}

func TestFindReferralsCommand_CustomSearchNeedsKeys(t *testing.T) {
	resetGlobals(t)
	clearEnv(t)
	t.Setenv("SEARCH_BACKEND", "customsearch")

	err := runFindReferrals(findReferralsCmd, nil)
	assert.ErrorIs(t, err, config.ErrMissingCredentials)
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "parse-resume", "parse-job", "find-referrals", "init-tracker"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestParseJobCommand_InputFile(t *testing.T) {
	resetGlobals(t)
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Cleanup(func() { parseInputFile = "" })

	parseInputFile = filepath.Join(t.TempDir(), "missing.txt")
	err := runParseJob(parseJobCmd, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "file not found")

	parseInputFile = filepath.Join(t.TempDir(), "blank.txt")
	require.NoError(t, os.WriteFile(parseInputFile, []byte("  \n\t\n  "), 0644))
	err = runParseJob(parseJobCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description is empty")
}
