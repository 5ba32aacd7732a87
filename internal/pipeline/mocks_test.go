package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/referral-scout/internal/types"
)

type MockInterpreter struct {
	InterpretFunc func(ctx context.Context, rawText string) (*types.JobProfile, error)
	Calls         int
}

func (m *MockInterpreter) Interpret(ctx context.Context, rawText string) (*types.JobProfile, error) {
	m.Calls++
	if m.InterpretFunc != nil {
		return m.InterpretFunc(ctx, rawText)
	}
	return &types.JobProfile{JobTitle: "Data Engineer", CompanyName: "Acme", RequiredSkills: []string{"Python"}}, nil
}

type MockScorer struct {
	ScoreFunc func(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile, raw string) (*types.MatchResult, error)
	Calls     int
}

func (m *MockScorer) Score(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile, raw string) (*types.MatchResult, error) {
	m.Calls++
	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, resume, job, raw)
	}
	return &types.MatchResult{MatchPercentage: 72, Improvements: []string{"a", "b", "c"}}, nil
}

type MockReferralFinder struct {
	FindFunc func(ctx context.Context, company, jobTitle string) ([]types.ReferralCandidate, error)
	Calls    int
}

func (m *MockReferralFinder) FindReferrals(ctx context.Context, company, jobTitle string) ([]types.ReferralCandidate, error) {
	m.Calls++
	if m.FindFunc != nil {
		return m.FindFunc(ctx, company, jobTitle)
	}
	return []types.ReferralCandidate{
		{Name: "Jane Doe", Title: "Data Engineer", URL: "https://www.linkedin.com/in/jane", Relationship: types.RelationshipSameRole},
		types.NewSentinelCandidate("https://www.google.com/search?q=a"),
		types.NewSentinelCandidate("https://www.google.com/search?q=b"),
	}, nil
}

type MockComposer struct {
	ComposeFunc func(ctx context.Context, candidates []types.ReferralCandidate, resume *types.ResumeProfile, job *types.JobProfile) ([]string, error)
	Calls       int
}

func (m *MockComposer) Compose(ctx context.Context, candidates []types.ReferralCandidate, resume *types.ResumeProfile, job *types.JobProfile) ([]string, error) {
	m.Calls++
	if m.ComposeFunc != nil {
		return m.ComposeFunc(ctx, candidates, resume, job)
	}
	msgs := make([]string, len(candidates))
	for i := range msgs {
		msgs[i] = "hello"
	}
	return msgs, nil
}

type MockResumeSource struct {
	Profile *types.ResumeProfile
	Err     error
	Calls   int
}

func (m *MockResumeSource) BuildOrLoad(_ context.Context, _ string) (*types.ResumeProfile, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Profile != nil {
		return m.Profile, nil
	}
	return &types.ResumeProfile{Skills: []string{"Python", "SQL"}, ExperienceYears: "5 years"}, nil
}

type MockStore struct {
	Rows       []types.TrackerRow
	ListErr    error
	PersistErr map[int]error
	Persisted  map[int]*types.RowResult
	Closed     bool
}

func (m *MockStore) ListUnprocessedRows() ([]types.TrackerRow, error) {
	return m.Rows, m.ListErr
}

func (m *MockStore) PersistRowResult(rowID int, result *types.RowResult) error {
	if err := m.PersistErr[rowID]; err != nil {
		return err
	}
	if m.Persisted == nil {
		m.Persisted = map[int]*types.RowResult{}
	}
	m.Persisted[rowID] = result
	return nil
}

func (m *MockStore) Path() string { return "/tmp/tracker.xlsx" }

func (m *MockStore) Close() error {
	m.Closed = true
	return nil
}

type MockRunRecorder struct {
	Created   []uuid.UUID
	Completed map[uuid.UUID][2]int
	CreateErr error
}

func (m *MockRunRecorder) CreateRun(_ context.Context, runID uuid.UUID, _ string) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, runID)
	return nil
}

func (m *MockRunRecorder) CompleteRun(_ context.Context, runID uuid.UUID, succeeded, failed int) error {
	if m.Completed == nil {
		m.Completed = map[uuid.UUID][2]int{}
	}
	m.Completed[runID] = [2]int{succeeded, failed}
	return nil
}

type mocks struct {
	interpreter *MockInterpreter
	scorer      *MockScorer
	referrals   *MockReferralFinder
	composer    *MockComposer
}

func newMocks() *mocks {
	return &mocks{
		interpreter: &MockInterpreter{},
		scorer:      &MockScorer{},
		referrals:   &MockReferralFinder{},
		composer:    &MockComposer{},
	}
}

func (m *mocks) components() Components {
	return Components{
		Interpreter: m.interpreter,
		Scorer:      m.scorer,
		Referrals:   m.referrals,
		Composer:    m.composer,
	}
}

func (m *mocks) totalCalls() int {
	return m.interpreter.Calls + m.scorer.Calls + m.referrals.Calls + m.composer.Calls
}

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

var errBoom = errors.New("boom")
