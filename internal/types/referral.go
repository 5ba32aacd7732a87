package types

// ReferralSlots is the number of referral candidates emitted per tracker row.
const ReferralSlots = 3

// Sentinel values used when no real profile could be located for a slot.
const (
	SentinelName  = "Could not find profile"
	SentinelTitle = "Try searching manually"
)

// RelationshipType classifies why a referral candidate is relevant.
type RelationshipType string

const (
	// RelationshipSameRole is someone holding the same job title at the company
	RelationshipSameRole RelationshipType = "same_role"
	// RelationshipHiringManager is a likely manager of the role
	RelationshipHiringManager RelationshipType = "hiring_manager"
	// RelationshipPeer is an adjacent-role engineer
	RelationshipPeer RelationshipType = "peer"
	// RelationshipUnknown marks sentinel candidates
	RelationshipUnknown RelationshipType = "unknown"
)

// ReferralCandidate is a person who could introduce the applicant at the target company.
type ReferralCandidate struct {
	Name         string           `json:"name"`
	Title        string           `json:"title"`
	URL          string           `json:"url"`
	Relationship RelationshipType `json:"connection_type"`
}

// IsSentinel reports whether the candidate is a placeholder for an unfilled slot.
func (c ReferralCandidate) IsSentinel() bool {
	return c.Name == SentinelName
}

// NewSentinelCandidate returns the placeholder candidate pointing at a manual search URL.
func NewSentinelCandidate(searchURL string) ReferralCandidate {
	return ReferralCandidate{
		Name:         SentinelName,
		Title:        SentinelTitle,
		URL:          searchURL,
		Relationship: RelationshipUnknown,
	}
}
