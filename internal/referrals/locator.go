// Package referrals locates people at a target company who could refer the applicant.
package referrals

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/referral-scout/internal/retry"
	"github.com/jonathan/referral-scout/internal/search"
	"github.com/jonathan/referral-scout/internal/types"
)

// Default pacing and search sizes.
const (
	DefaultSearchPause       = 5 * time.Second
	DefaultRateLimitCooldown = 30 * time.Second
	DefaultResultsPerSearch  = 5
	DefaultFallbackResults   = 10
	ManualSearchBaseURL      = "https://www.google.com/search?"
)

// DefaultManagerTitles are the title alternatives searched for a likely hiring manager.
var DefaultManagerTitles = []string{"Engineering Manager", "Data Lead", "Head of Data"}

// DefaultPeerTitles are the adjacent-role title alternatives searched for peers.
var DefaultPeerTitles = []string{"Data Engineer", "Analytics Engineer", "Software Engineer"}

// Options tunes the locator. Zero values take the defaults above.
type Options struct {
	SearchPause       time.Duration
	RateLimitCooldown time.Duration
	ResultsPerSearch  int
	FallbackResults   int
	ManagerTitles     []string
	PeerTitles        []string
	Verbose           bool
}

func (o Options) withDefaults() Options {
	if o.SearchPause < 0 {
		o.SearchPause = 0
	} else if o.SearchPause == 0 {
		o.SearchPause = DefaultSearchPause
	}
	if o.RateLimitCooldown <= 0 {
		o.RateLimitCooldown = DefaultRateLimitCooldown
	}
	if o.ResultsPerSearch <= 0 {
		o.ResultsPerSearch = DefaultResultsPerSearch
	}
	if o.FallbackResults <= 0 {
		o.FallbackResults = DefaultFallbackResults
	}
	if len(o.ManagerTitles) == 0 {
		o.ManagerTitles = DefaultManagerTitles
	}
	if len(o.PeerTitles) == 0 {
		o.PeerTitles = DefaultPeerTitles
	}
	return o
}

// Locator runs the targeted searches and assembles exactly three candidates.
type Locator struct {
	backend search.Backend
	opts    Options
	sleep   retry.SleepFunc
}

// NewLocator creates a Locator over any search backend.
func NewLocator(backend search.Backend, opts Options) *Locator {
	return &Locator{backend: backend, opts: opts.withDefaults(), sleep: retry.Sleep}
}

// WithSleep replaces the sleeper used for pacing and cooldowns.
func (l *Locator) WithSleep(sleep retry.SleepFunc) *Locator {
	l.sleep = sleep
	return l
}

type targetedSearch struct {
	query        string
	relationship types.RelationshipType
	label        string
}

// FindReferrals returns exactly types.ReferralSlots candidates for the company.
// Search failures degrade to sentinel slots; only context cancellation is returned.
func (l *Locator) FindReferrals(ctx context.Context, company, jobTitle string) ([]types.ReferralCandidate, error) {
	searches := l.targetedSearches(company, jobTitle)
	candidates := make([]types.ReferralCandidate, 0, types.ReferralSlots)
	seen := make(map[string]bool)

	for i, s := range searches {
		if len(candidates) >= types.ReferralSlots {
			break
		}
		if i > 0 {
			if err := l.sleep(ctx, l.opts.SearchPause); err != nil {
				return nil, err
			}
		}

		profiles, err := l.searchProfiles(ctx, s.query, l.opts.ResultsPerSearch, s.label)
		if err != nil {
			return nil, err
		}
		for _, p := range profiles {
			if seen[p.URL] {
				continue
			}
			p.Relationship = s.relationship
			candidates = append(candidates, p)
			seen[p.URL] = true
			break
		}
	}

	if len(candidates) < types.ReferralSlots {
		if err := l.sleep(ctx, l.opts.SearchPause); err != nil {
			return nil, err
		}
		fallback := FallbackQuery(company)
		profiles, err := l.searchProfiles(ctx, fallback, l.opts.FallbackResults, "fallback")
		if err != nil {
			return nil, err
		}
		for _, p := range profiles {
			if len(candidates) >= types.ReferralSlots {
				break
			}
			if seen[p.URL] {
				continue
			}
			p.Relationship = types.RelationshipPeer
			candidates = append(candidates, p)
			seen[p.URL] = true
		}
	}

	for len(candidates) < types.ReferralSlots {
		query := searches[len(candidates)].query
		candidates = append(candidates, types.NewSentinelCandidate(ManualSearchURL(query)))
	}

	if l.opts.Verbose {
		found := 0
		for _, c := range candidates {
			if !c.IsSentinel() {
				found++
			}
		}
		log.Printf("[REFERRALS] %s: %d of %d slots filled from search", company, found, types.ReferralSlots)
	}
	return candidates, nil
}

// searchProfiles runs one query with a single cooldown retry on transient
// failure. Any remaining failure counts as zero results unless ctx is done.
func (l *Locator) searchProfiles(ctx context.Context, query string, count int, label string) ([]types.ReferralCandidate, error) {
	policy := retry.Once(l.opts.RateLimitCooldown)
	policy.ShouldRetry = search.IsTransient
	policy.Sleep = l.sleep
	policy.OnRetry = func(_ int, err error) {
		if l.opts.Verbose {
			log.Printf("[SEARCH] %s search rate limited, waiting %s: %v", label, l.opts.RateLimitCooldown, err)
		}
	}

	results, err := retry.Value(ctx, policy, func(ctx context.Context) ([]search.Result, error) {
		return l.backend.Search(ctx, query, count)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if l.opts.Verbose {
			log.Printf("[SEARCH] %s search failed, treating as no results: %v", label, err)
		}
		return nil, nil
	}

	profiles := make([]types.ReferralCandidate, 0, len(results))
	for _, r := range results {
		if c, ok := ParseResult(r); ok {
			profiles = append(profiles, c)
		}
	}
	return profiles, nil
}

func (l *Locator) targetedSearches(company, jobTitle string) []targetedSearch {
	return []targetedSearch{
		{query: SameRoleQuery(company, jobTitle), relationship: types.RelationshipSameRole, label: "same role"},
		{query: titlesQuery(company, l.opts.ManagerTitles), relationship: types.RelationshipHiringManager, label: "hiring manager"},
		{query: titlesQuery(company, l.opts.PeerTitles), relationship: types.RelationshipPeer, label: "peer"},
	}
}

// SameRoleQuery searches profiles at company holding exactly jobTitle.
func SameRoleQuery(company, jobTitle string) string {
	return profileScope + quote(company) + " " + quote(jobTitle)
}

// FallbackQuery is the broad search used when targeted searches leave slots open.
func FallbackQuery(company string) string {
	return profileScope + quote(company) + " engineer"
}

// ManualSearchURL builds the search-engine link stored in sentinel slots.
func ManualSearchURL(query string) string {
	return ManualSearchBaseURL + url.Values{"q": {query}}.Encode()
}

const profileScope = "site:linkedin.com/in "

func titlesQuery(company string, titles []string) string {
	quoted := make([]string, len(titles))
	for i, t := range titles {
		quoted[i] = quote(t)
	}
	return profileScope + quote(company) + " " + strings.Join(quoted, " OR ")
}

func quote(s string) string {
	return `"` + s + `"`
}
