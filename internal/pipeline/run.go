package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/referral-scout/internal/retry"
	"github.com/jonathan/referral-scout/internal/tracker"
	"github.com/jonathan/referral-scout/internal/types"
)

// Store is the tracker as seen by a run.
type Store interface {
	RowWriter
	ListUnprocessedRows() ([]types.TrackerRow, error)
	Path() string
	Close() error
}

// StoreOpener opens the tracker at path with exclusive access.
type StoreOpener func(path string) (Store, error)

// TrackerOpener opens workbook trackers with the given options.
func TrackerOpener(opts tracker.Options) StoreOpener {
	return func(path string) (Store, error) {
		t, err := tracker.Open(path, opts)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}

// ResumeSource builds or loads the cached resume profile.
type ResumeSource interface {
	BuildOrLoad(ctx context.Context, documentPath string) (*types.ResumeProfile, error)
}

// RunRecorder records run history. It is optional.
type RunRecorder interface {
	CreateRun(ctx context.Context, runID uuid.UUID, trackerPath string) error
	CompleteRun(ctx context.Context, runID uuid.UUID, succeeded, failed int) error
}

// Dependencies are everything a run needs beyond its options.
type Dependencies struct {
	OpenStore  StoreOpener
	Resume     ResumeSource
	Components Components
	Runs       RunRecorder
}

// RunOptions holds configuration for a tracker run.
type RunOptions struct {
	TrackerPath  string
	ResumePath   string
	APICallDelay time.Duration
	Sleep        retry.SleepFunc
	Out          io.Writer
	OnProgress   ProgressCallback
	Verbose      bool
}

// Run processes every unprocessed tracker row. The tracker is opened and the
// resume profile loaded before any row work; failures there are returned and
// no collaborator is called. Row failures are reported in the summary.
func Run(ctx context.Context, deps Dependencies, opts RunOptions) (*types.RunSummary, error) {
	start := time.Now()
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	runID := uuid.New()
	summary := &types.RunSummary{RunID: runID.String(), TrackerPath: opts.TrackerPath}

	fmt.Fprintf(out, "Reading tracker: %s\n", opts.TrackerPath)
	store, err := deps.OpenStore(opts.TrackerPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && opts.Verbose {
			log.Printf("[TRACKER] close failed: %v", closeErr)
		}
	}()
	summary.TrackerPath = store.Path()

	rows, err := store.ListUnprocessedRows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No unprocessed rows found.")
		summary.Elapsed = time.Since(start)
		return summary, nil
	}
	fmt.Fprintf(out, "Found %d unprocessed job(s)...\n\n", len(rows))

	fmt.Fprintln(out, "Parsing resume...")
	resume, err := deps.Resume.BuildOrLoad(ctx, opts.ResumePath)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "  Resume loaded: %d skills, %s experience\n\n", len(resume.Skills), resume.ExperienceYears)

	if deps.Runs != nil {
		if err := deps.Runs.CreateRun(ctx, runID, summary.TrackerPath); err != nil {
			fmt.Fprintf(out, "Warning: Failed to record run: %v\n", err)
		} else if opts.Verbose {
			log.Printf("[PIPELINE] Recorded run %s", runID)
		}
	}

	processor := NewProcessor(deps.Components, store, resume, ProcessorOptions{
		APICallDelay: opts.APICallDelay,
		Sleep:        opts.Sleep,
		Out:          out,
		OnProgress:   opts.OnProgress,
		Verbose:      opts.Verbose,
	})
	summary.Outcomes = processor.ProcessRows(ctx, rows)
	summary.Elapsed = time.Since(start)

	if deps.Runs != nil {
		succeeded, failed := len(summary.Succeeded()), len(summary.Failed())
		if err := deps.Runs.CompleteRun(context.WithoutCancel(ctx), runID, succeeded, failed); err != nil {
			fmt.Fprintf(out, "Warning: Failed to complete run record: %v\n", err)
		}
	}

	return summary, ctx.Err()
}
