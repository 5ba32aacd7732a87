package types

import "time"

// TrackerRow is an unprocessed row read from the tracker store.
type TrackerRow struct {
	RowID       int    `json:"row_id"`
	JobLink     string `json:"job_link"`
	JobDescText string `json:"jd_text"`
}

// RowResult is everything persisted back to the tracker for one processed row.
type RowResult struct {
	Match     MatchResult         `json:"match"`
	Referrals []ReferralCandidate `json:"referrals"`
	Messages  []string            `json:"messages"`
}

// RowOutcome records how a single row fared during a run. It is reported, never persisted.
type RowOutcome struct {
	RowID           int           `json:"row_id"`
	Succeeded       bool          `json:"succeeded"`
	JobTitle        string        `json:"job_title,omitempty"`
	CompanyName     string        `json:"company_name,omitempty"`
	MatchPercentage int           `json:"match_percentage,omitempty"`
	Error           string        `json:"error,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// RunSummary is the end-of-run report.
type RunSummary struct {
	RunID       string        `json:"run_id"`
	TrackerPath string        `json:"tracker_path"`
	Outcomes    []RowOutcome  `json:"outcomes"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Succeeded returns the outcomes of rows that were persisted.
func (s *RunSummary) Succeeded() []RowOutcome {
	return s.filter(true)
}

// Failed returns the outcomes of rows that were skipped.
func (s *RunSummary) Failed() []RowOutcome {
	return s.filter(false)
}

func (s *RunSummary) filter(succeeded bool) []RowOutcome {
	var out []RowOutcome
	for _, o := range s.Outcomes {
		if o.Succeeded == succeeded {
			out = append(out, o)
		}
	}
	return out
}
