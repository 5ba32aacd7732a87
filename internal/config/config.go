// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrMissingCredentials is returned when a backend selected for the command has no key.
var ErrMissingCredentials = errors.New("missing credentials")

// ErrMissingSetting is returned when a setting required by the command is empty.
var ErrMissingSetting = errors.New("missing required setting")

// Provider and backend names.
const (
	ProviderGemini       = "gemini"
	ProviderAnthropic    = "anthropic"
	SearchBackendCustom  = "customsearch"
	SearchBackendWeb     = "web"
	defaultTrackerPath   = "tracker/my_job_application_tracker.xlsx"
	defaultResumePath    = "resume/resume.pdf"
	defaultCachePath     = "resume/.parsed_resume.json"
	defaultAPIDelay      = 2
	defaultLLMCooldown   = 5
	defaultSearchPause   = 5
	defaultSearchBackoff = 30
	defaultLLMTimeout    = 60
	defaultSearchTimeout = 15
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment variables or CLI flags.
// Timings are in seconds.
type Config struct {
	// Paths
	ResumePath       string `json:"resume_path,omitempty"`
	TrackerPath      string `json:"tracker_path,omitempty"`
	ProfileCachePath string `json:"profile_cache_path,omitempty"`

	// Sender
	SenderName string `json:"sender_name,omitempty"`

	// Text completion
	LLMProvider     string `json:"llm_provider,omitempty" validate:"omitempty,oneof=gemini anthropic"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`
	// LLMModels overrides the provider's model per tier (lite, standard, advanced).
	LLMModels map[string]string `json:"llm_models,omitempty" validate:"omitempty,dive,keys,oneof=lite standard advanced,endkeys,required"`

	// People search
	SearchBackend      string   `json:"search_backend,omitempty" validate:"omitempty,oneof=customsearch web"`
	GoogleSearchAPIKey string   `json:"google_search_api_key,omitempty"`
	GoogleSearchCX     string   `json:"google_search_cx,omitempty"`
	UseBrowser         bool     `json:"use_browser,omitempty"`
	ManagerTitles      []string `json:"manager_titles,omitempty" validate:"omitempty,dive,required"`
	PeerTitles         []string `json:"peer_titles,omitempty" validate:"omitempty,dive,required"`

	// Timings
	APICallDelaySeconds      float64 `json:"api_call_delay_seconds,omitempty" validate:"gte=0,lte=600"`
	LLMRetryCooldownSeconds  float64 `json:"llm_retry_cooldown_seconds,omitempty" validate:"gte=0,lte=600"`
	SearchPauseSeconds       float64 `json:"search_pause_seconds,omitempty" validate:"gte=0,lte=600"`
	RateLimitCooldownSeconds float64 `json:"rate_limit_cooldown_seconds,omitempty" validate:"gte=0,lte=3600"`
	LLMTimeoutSeconds        float64 `json:"llm_timeout_seconds,omitempty" validate:"gte=0,lte=600"`
	SearchTimeoutSeconds     float64 `json:"search_timeout_seconds,omitempty" validate:"gte=0,lte=600"`

	// Behavior
	DatabaseURL string `json:"database_url,omitempty" validate:"omitempty,startswith=postgres"`
	RedisURL    string `json:"redis_url,omitempty" validate:"omitempty,startswith=redis"`
	Verbose     bool   `json:"verbose,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ResumePath:               defaultResumePath,
		TrackerPath:              defaultTrackerPath,
		ProfileCachePath:         defaultCachePath,
		LLMProvider:              ProviderGemini,
		SearchBackend:            SearchBackendWeb,
		APICallDelaySeconds:      defaultAPIDelay,
		LLMRetryCooldownSeconds:  defaultLLMCooldown,
		SearchPauseSeconds:       defaultSearchPause,
		RateLimitCooldownSeconds: defaultSearchBackoff,
		LLMTimeoutSeconds:        defaultLLMTimeout,
		SearchTimeoutSeconds:     defaultSearchTimeout,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// envBindings maps environment variables onto config fields.
var envBindings = []struct {
	name  string
	field func(c *Config) *string
}{
	{"GEMINI_API_KEY", func(c *Config) *string { return &c.GeminiAPIKey }},
	{"ANTHROPIC_API_KEY", func(c *Config) *string { return &c.AnthropicAPIKey }},
	{"LLM_PROVIDER", func(c *Config) *string { return &c.LLMProvider }},
	{"GOOGLE_SEARCH_API_KEY", func(c *Config) *string { return &c.GoogleSearchAPIKey }},
	{"GOOGLE_SEARCH_CX", func(c *Config) *string { return &c.GoogleSearchCX }},
	{"SEARCH_BACKEND", func(c *Config) *string { return &c.SearchBackend }},
	{"DATABASE_URL", func(c *Config) *string { return &c.DatabaseURL }},
	{"REDIS_URL", func(c *Config) *string { return &c.RedisURL }},
	{"RESUME_PATH", func(c *Config) *string { return &c.ResumePath }},
	{"TRACKER_PATH", func(c *Config) *string { return &c.TrackerPath }},
	{"SENDER_NAME", func(c *Config) *string { return &c.SenderName }},
}

// ApplyEnv overrides fields with any non-empty environment variables.
// getenv is os.Getenv outside tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	for _, b := range envBindings {
		if v := strings.TrimSpace(getenv(b.name)); v != "" {
			*b.field(c) = v
		}
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the configuration has valid values.
// Required settings are checked per command by Require.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' validation (value %v)", jsonName(fe.StructField()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// jsonName converts a Go field name to its JSON key.
func jsonName(field string) string {
	var sb strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				sb.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Needs lists what a command requires beyond valid values.
type Needs struct {
	LLM    bool
	Search bool
	Sender bool
}

// Require reports the first missing credential or setting for a command.
func (c *Config) Require(needs Needs) error {
	if needs.LLM {
		switch c.LLMProvider {
		case ProviderAnthropic:
			if c.AnthropicAPIKey == "" {
				return fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", ErrMissingCredentials)
			}
		default:
			if c.GeminiAPIKey == "" {
				return fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrMissingCredentials)
			}
		}
	}
	if needs.Search && c.SearchBackend == SearchBackendCustom {
		if c.GoogleSearchAPIKey == "" || c.GoogleSearchCX == "" {
			return fmt.Errorf("%w: GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX are required for the customsearch backend", ErrMissingCredentials)
		}
	}
	if needs.Sender && strings.TrimSpace(c.SenderName) == "" {
		return fmt.Errorf("%w: sender_name (SENDER_NAME)", ErrMissingSetting)
	}
	return nil
}

// LLMAPIKey returns the key for the selected provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == ProviderAnthropic {
		return c.AnthropicAPIKey
	}
	return c.GeminiAPIKey
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// APICallDelay is the pause between completion calls within a row.
func (c *Config) APICallDelay() time.Duration { return seconds(c.APICallDelaySeconds) }

// LLMRetryCooldown is the wait before retrying a failed completion call.
func (c *Config) LLMRetryCooldown() time.Duration { return seconds(c.LLMRetryCooldownSeconds) }

// SearchPause is the wait between consecutive people searches.
func (c *Config) SearchPause() time.Duration { return seconds(c.SearchPauseSeconds) }

// RateLimitCooldown is the wait before retrying a throttled search.
func (c *Config) RateLimitCooldown() time.Duration { return seconds(c.RateLimitCooldownSeconds) }

// LLMTimeout bounds a single completion call.
func (c *Config) LLMTimeout() time.Duration { return seconds(c.LLMTimeoutSeconds) }

// SearchTimeout bounds a single search request.
func (c *Config) SearchTimeout() time.Duration { return seconds(c.SearchTimeoutSeconds) }

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fillString := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fillString(&result.ResumePath, defaults.ResumePath)
	fillString(&result.TrackerPath, defaults.TrackerPath)
	fillString(&result.ProfileCachePath, defaults.ProfileCachePath)
	fillString(&result.SenderName, defaults.SenderName)
	fillString(&result.LLMProvider, defaults.LLMProvider)
	fillString(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	fillString(&result.AnthropicAPIKey, defaults.AnthropicAPIKey)
	fillString(&result.SearchBackend, defaults.SearchBackend)
	fillString(&result.GoogleSearchAPIKey, defaults.GoogleSearchAPIKey)
	fillString(&result.GoogleSearchCX, defaults.GoogleSearchCX)
	fillString(&result.DatabaseURL, defaults.DatabaseURL)
	fillString(&result.RedisURL, defaults.RedisURL)

	if len(result.LLMModels) == 0 {
		result.LLMModels = defaults.LLMModels
	}
	if len(result.ManagerTitles) == 0 {
		result.ManagerTitles = defaults.ManagerTitles
	}
	if len(result.PeerTitles) == 0 {
		result.PeerTitles = defaults.PeerTitles
	}

	fillSeconds := func(dst *float64, def float64) {
		if *dst == 0 {
			*dst = def
		}
	}
	fillSeconds(&result.APICallDelaySeconds, defaults.APICallDelaySeconds)
	fillSeconds(&result.LLMRetryCooldownSeconds, defaults.LLMRetryCooldownSeconds)
	fillSeconds(&result.SearchPauseSeconds, defaults.SearchPauseSeconds)
	fillSeconds(&result.RateLimitCooldownSeconds, defaults.RateLimitCooldownSeconds)
	fillSeconds(&result.LLMTimeoutSeconds, defaults.LLMTimeoutSeconds)
	fillSeconds(&result.SearchTimeoutSeconds, defaults.SearchTimeoutSeconds)

	// Bool fields cannot distinguish unset from false, so CLI flags always win.
	return result
}
