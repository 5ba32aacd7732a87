package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jonathan/referral-scout/internal/config"
	"github.com/jonathan/referral-scout/internal/db"
	"github.com/jonathan/referral-scout/internal/ingestion"
	"github.com/jonathan/referral-scout/internal/llm"
	"github.com/jonathan/referral-scout/internal/profilecache"
	"github.com/jonathan/referral-scout/internal/referrals"
	"github.com/jonathan/referral-scout/internal/resume"
	"github.com/jonathan/referral-scout/internal/search"
)

// loadSettings resolves configuration: defaults, then the --config file, then
// environment variables, then the global --verbose flag.
func loadSettings(getenv func(string) string) (*config.Config, error) {
	var fileCfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = *loaded
	}

	cfg := fileCfg.MergeWithDefaults(config.Defaults())
	cfg.ApplyEnv(getenv)
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// settingsFor loads settings and checks what a command needs.
func settingsFor(needs config.Needs) (*config.Config, error) {
	cfg, err := loadSettings(os.Getenv)
	if err != nil {
		return nil, err
	}
	if err := cfg.Require(needs); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLLMClient builds the completion client for the configured provider,
// wrapped with the single-retry policy.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	inner, err := llm.NewClient(ctx, llmConfig(cfg), cfg.LLMAPIKey())
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return llm.NewRetryingClient(inner, cfg.LLMRetryCooldown(), cfg.Verbose), nil
}

// llmConfig returns the provider defaults with the configured timeout and
// per-tier model overrides applied.
func llmConfig(cfg *config.Config) *llm.Config {
	llmCfg := llm.ConfigFor(llm.Provider(cfg.LLMProvider))
	llmCfg.CallTimeout = cfg.LLMTimeout()
	for tier, model := range cfg.LLMModels {
		llmCfg = llmCfg.WithModel(llm.ModelTier(tier), model)
	}
	return llmCfg
}

// newSearchBackend builds the configured people-search backend.
func newSearchBackend(ctx context.Context, cfg *config.Config) (search.Backend, error) {
	return search.New(ctx, search.Config{
		Backend:    cfg.SearchBackend,
		APIKey:     cfg.GoogleSearchAPIKey,
		CX:         cfg.GoogleSearchCX,
		Timeout:    cfg.SearchTimeout(),
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
	})
}

// newLocator builds a referral locator over the configured backend.
func newLocator(ctx context.Context, cfg *config.Config) (*referrals.Locator, error) {
	backend, err := newSearchBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return referrals.NewLocator(backend, referrals.Options{
		SearchPause:       cfg.SearchPause(),
		RateLimitCooldown: cfg.RateLimitCooldown(),
		ManagerTitles:     cfg.ManagerTitles,
		PeerTitles:        cfg.PeerTitles,
		Verbose:           cfg.Verbose,
	}), nil
}

// newResumeBuilder builds the resume profile builder. The profile cache lives
// in PostgreSQL when a database URL is set, in Redis when a Redis URL is set,
// and in the local cache file otherwise. The returned cleanup closes whatever
// connection was opened; the database is returned for run history.
func newResumeBuilder(ctx context.Context, cfg *config.Config) (*resume.Builder, *db.DB, func(), error) {
	extractor := ingestion.NewFileExtractor()

	switch {
	case cfg.DatabaseURL != "":
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Verbose {
			log.Printf("[DB] Using PostgreSQL profile cache")
		}
		return resume.NewBuilder(extractor, database.Profiles(), cfg.Verbose), database, database.Close, nil

	case cfg.RedisURL != "":
		rdb, err := profilecache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if cfg.Verbose {
			log.Printf("[CACHE] Using Redis profile cache")
		}
		store := profilecache.NewRedisStore(rdb, 0)
		return resume.NewBuilder(extractor, store, cfg.Verbose), nil, func() { _ = store.Close() }, nil

	default:
		store := profilecache.NewFileStore(cfg.ProfileCachePath)
		return resume.NewBuilder(extractor, store, cfg.Verbose), nil, func() {}, nil
	}
}
