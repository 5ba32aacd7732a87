// Package pipeline runs tracker rows through interpretation, scoring, referral
// search and outreach drafting, persisting each row as it completes.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jonathan/referral-scout/internal/retry"
	"github.com/jonathan/referral-scout/internal/types"
)

// DefaultAPICallDelay is the pause between consecutive completion calls for a row.
const DefaultAPICallDelay = 2 * time.Second

// Interpreter turns job-description text into a JobProfile.
type Interpreter interface {
	Interpret(ctx context.Context, rawText string) (*types.JobProfile, error)
}

// Scorer rates a resume against a job.
type Scorer interface {
	Score(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile, rawJobText string) (*types.MatchResult, error)
}

// ReferralFinder returns exactly three referral candidates.
type ReferralFinder interface {
	FindReferrals(ctx context.Context, company, jobTitle string) ([]types.ReferralCandidate, error)
}

// Composer drafts one message per candidate.
type Composer interface {
	Compose(ctx context.Context, candidates []types.ReferralCandidate, resume *types.ResumeProfile, job *types.JobProfile) ([]string, error)
}

// RowWriter persists a processed row.
type RowWriter interface {
	PersistRowResult(rowID int, result *types.RowResult) error
}

// ProgressEvent reports a row entering a new state.
type ProgressEvent struct {
	RowID   int    `json:"row_id"`
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// ProgressCallback is called on every row state change.
type ProgressCallback func(event ProgressEvent)

// Components are the per-row collaborators.
type Components struct {
	Interpreter Interpreter
	Scorer      Scorer
	Referrals   ReferralFinder
	Composer    Composer
}

// ProcessorOptions tunes a Processor.
type ProcessorOptions struct {
	APICallDelay time.Duration
	Sleep        retry.SleepFunc
	Out          io.Writer
	OnProgress   ProgressCallback
	Verbose      bool
}

// Processor moves rows through the state machine one at a time.
type Processor struct {
	components Components
	store      RowWriter
	resume     *types.ResumeProfile
	opts       ProcessorOptions
}

// NewProcessor creates a Processor for one run's resume profile.
func NewProcessor(components Components, store RowWriter, resume *types.ResumeProfile, opts ProcessorOptions) *Processor {
	if opts.APICallDelay < 0 {
		opts.APICallDelay = 0
	}
	if opts.Sleep == nil {
		opts.Sleep = retry.Sleep
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Processor{components: components, store: store, resume: resume, opts: opts}
}

// rowRun tracks one row's state.
type rowRun struct {
	p     *Processor
	rowID int
	state State
}

func (r *rowRun) advance(next State, message string) error {
	if !r.state.CanTransition(next) {
		return &TransitionError{From: r.state, To: next}
	}
	r.state = next
	if r.p.opts.OnProgress != nil {
		r.p.opts.OnProgress(ProgressEvent{RowID: r.rowID, State: next, Message: message})
	}
	if r.p.opts.Verbose {
		log.Printf("[PIPELINE] row %d -> %s", r.rowID, next)
	}
	return nil
}

// ProcessRows processes rows in order. It stops early only when ctx ends.
func (p *Processor) ProcessRows(ctx context.Context, rows []types.TrackerRow) []types.RowOutcome {
	outcomes := make([]types.RowOutcome, 0, len(rows))
	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}
		outcomes = append(outcomes, p.ProcessRow(ctx, row))
	}
	return outcomes
}

// ProcessRow runs one row to a terminal state. Failures are recorded in the
// outcome rather than returned.
func (p *Processor) ProcessRow(ctx context.Context, row types.TrackerRow) types.RowOutcome {
	start := time.Now()
	run := &rowRun{p: p, rowID: row.RowID, state: StatePending}
	outcome := types.RowOutcome{RowID: row.RowID}

	fmt.Fprintf(p.opts.Out, "Processing row %d...\n", row.RowID)
	err := p.process(ctx, run, row, &outcome)
	outcome.Duration = time.Since(start)

	if err != nil {
		outcome.Succeeded = false
		outcome.Error = err.Error()
		fmt.Fprintf(p.opts.Out, "  ERROR processing row %d: %v\n\n", row.RowID, err)
		if run.state != StateFailed {
			_ = run.advance(StateFailed, err.Error())
		}
		return outcome
	}

	outcome.Succeeded = true
	return outcome
}

func (p *Processor) process(ctx context.Context, run *rowRun, row types.TrackerRow, outcome *types.RowOutcome) error {
	if err := run.advance(StateInterpreting, ""); err != nil {
		return err
	}
	job, err := p.components.Interpreter.Interpret(ctx, row.JobDescText)
	if err != nil {
		return fmt.Errorf("job description interpretation failed: %w", err)
	}
	outcome.JobTitle = job.JobTitle
	outcome.CompanyName = job.CompanyName
	fmt.Fprintf(p.opts.Out, "  Role: %s at %s\n", job.JobTitle, job.CompanyName)

	if err := p.opts.Sleep(ctx, p.opts.APICallDelay); err != nil {
		return err
	}

	if err := run.advance(StateScoring, job.JobTitle); err != nil {
		return err
	}
	match, err := p.components.Scorer.Score(ctx, p.resume, job, row.JobDescText)
	if err != nil {
		return fmt.Errorf("match scoring failed: %w", err)
	}
	outcome.MatchPercentage = match.MatchPercentage
	fmt.Fprintf(p.opts.Out, "  Match: %d%%\n", match.MatchPercentage)

	if err := run.advance(StateLocatingReferrals, job.CompanyName); err != nil {
		return err
	}
	referrals, err := p.components.Referrals.FindReferrals(ctx, job.CompanyName, job.JobTitle)
	if err != nil {
		return fmt.Errorf("referral search failed: %w", err)
	}
	fmt.Fprintf(p.opts.Out, "  Found %d referral profile(s)\n", countReal(referrals))

	if err := p.opts.Sleep(ctx, p.opts.APICallDelay); err != nil {
		return err
	}

	if err := run.advance(StateComposing, ""); err != nil {
		return err
	}
	messages, err := p.components.Composer.Compose(ctx, referrals, p.resume, job)
	if err != nil {
		return fmt.Errorf("message drafting failed: %w", err)
	}
	fmt.Fprintf(p.opts.Out, "  Generated %d message(s)\n", len(messages))

	result := &types.RowResult{Match: *match, Referrals: referrals, Messages: messages}
	if err := p.store.PersistRowResult(row.RowID, result); err != nil {
		return err
	}
	if err := run.advance(StatePersisted, ""); err != nil {
		return err
	}
	fmt.Fprintf(p.opts.Out, "  Saved to tracker\n\n")
	return nil
}

func countReal(candidates []types.ReferralCandidate) int {
	n := 0
	for _, c := range candidates {
		if !c.IsSentinel() {
			n++
		}
	}
	return n
}
