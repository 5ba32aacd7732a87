package pipeline

import "fmt"

// State is a row's position in the processing sequence.
type State string

const (
	StatePending           State = "pending"
	StateInterpreting      State = "interpreting"
	StateScoring           State = "scoring"
	StateLocatingReferrals State = "locating_referrals"
	StateComposing         State = "composing"
	StatePersisted         State = "persisted"
	StateFailed            State = "failed"
)

// transitions lists the legal successors of each state. Every working state
// may fail; terminal states have no successors.
var transitions = map[State][]State{
	StatePending:           {StateInterpreting, StateFailed},
	StateInterpreting:      {StateScoring, StateFailed},
	StateScoring:           {StateLocatingReferrals, StateFailed},
	StateLocatingReferrals: {StateComposing, StateFailed},
	StateComposing:         {StatePersisted, StateFailed},
	StatePersisted:         nil,
	StateFailed:            nil,
}

// CanTransition reports whether moving from s to next is legal.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends a row's processing.
func (s State) Terminal() bool {
	return s == StatePersisted || s == StateFailed
}

// TransitionError reports an illegal state change.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal row transition %s -> %s", e.From, e.To)
}
