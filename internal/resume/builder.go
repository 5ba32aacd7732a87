// Package resume builds the structured resume profile once per run and caches it by
// document path and modification time.
package resume

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/referral-scout/internal/ingestion"
	"github.com/jonathan/referral-scout/internal/profilecache"
	"github.com/jonathan/referral-scout/internal/types"
)

// Builder turns a resume document into a ResumeProfile, reusing the cached profile
// while the document is unchanged.
type Builder struct {
	extractor ingestion.Extractor
	cache     profilecache.Store
	verbose   bool
}

// NewBuilder creates a Builder.
func NewBuilder(extractor ingestion.Extractor, cache profilecache.Store, verbose bool) *Builder {
	return &Builder{
		extractor: extractor,
		cache:     cache,
		verbose:   verbose,
	}
}

// Fingerprint is the cache fingerprint for a document modification time.
func Fingerprint(modTime time.Time) string {
	return modTime.UTC().Format(time.RFC3339Nano)
}

// BuildOrLoad returns the cached profile when the document's modification time matches
// the cached fingerprint, otherwise extracts, derives and overwrites the cache entry.
func (b *Builder) BuildOrLoad(ctx context.Context, documentPath string) (*types.ResumeProfile, error) {
	return b.build(ctx, documentPath, false)
}

// Rebuild ignores any cached entry and derives the profile again.
func (b *Builder) Rebuild(ctx context.Context, documentPath string) (*types.ResumeProfile, error) {
	return b.build(ctx, documentPath, true)
}

func (b *Builder) build(ctx context.Context, documentPath string, force bool) (*types.ResumeProfile, error) {
	identity, err := filepath.Abs(documentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve resume path: %w", err)
	}

	info, err := os.Stat(identity)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, identity)
		}
		return nil, fmt.Errorf("failed to stat resume: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrDocumentNotFound, identity)
	}

	fingerprint := Fingerprint(info.ModTime())

	if !force {
		if cached := b.lookup(ctx, identity, fingerprint); cached != nil {
			return cached, nil
		}
	}

	if b.verbose {
		log.Printf("[RESUME] Extracting text from %s", identity)
	}
	text, err := b.extractor.ExtractText(ctx, identity)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrDocumentNotFound, err)
		}
		return nil, fmt.Errorf("failed to extract resume text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", ErrExtractionEmpty, identity)
	}

	profile := Derive(text)
	profile.SourceModTime = info.ModTime().UTC()

	entry := profilecache.Entry{
		Identity:    identity,
		Fingerprint: fingerprint,
		Profile:     profile,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := b.cache.Put(ctx, entry); err != nil {
		log.Printf("[RESUME] Warning: failed to cache resume profile: %v", err)
	} else if b.verbose {
		log.Printf("[RESUME] Cached profile for %s (%d skills, %d projects)", identity, len(profile.Skills), len(profile.Projects))
	}

	return &profile, nil
}

func (b *Builder) lookup(ctx context.Context, identity, fingerprint string) *types.ResumeProfile {
	entry, err := b.cache.Get(ctx, identity)
	if err != nil {
		log.Printf("[RESUME] Warning: profile cache unreadable, rebuilding: %v", err)
		return nil
	}
	if entry == nil || entry.Fingerprint != fingerprint {
		if b.verbose && entry != nil {
			log.Printf("[RESUME] Resume changed since last run, rebuilding")
		}
		return nil
	}
	if b.verbose {
		log.Printf("[RESUME] Using cached profile for %s", identity)
	}
	profile := entry.Profile
	return &profile
}
