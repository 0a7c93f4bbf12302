// Package config provides configuration loading and validation for the
// scanner. Values come from an optional JSON file with environment
// variables taking precedence, so deployments can override a checked-in
// config without editing it.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/visiblyai/scanner/internal/types"
)

// Config holds everything the scanner needs to run. All fields are
// optional; a scan fails later with a clear error when a required key for
// a selected provider is missing.
type Config struct {
	// Provider credentials
	OpenAIAPIKey    string `json:"openai_api_key,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`

	// Persistence
	DatabaseURL string `json:"database_url,omitempty"`

	// Behavior
	DefaultTier string `json:"default_tier,omitempty"` // plan tier when input omits one
	UseBrowser  bool   `json:"use_browser,omitempty"`  // headless browser fallback for JS-heavy sites
	Verbose     bool   `json:"verbose,omitempty"`
}

// Load reads the JSON config file (if path is non-empty) and then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.applyEnv()
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
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

// applyEnv overlays environment variables onto the config. Environment
// always wins over the file.
func (c *Config) applyEnv() {
	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setIfPresent(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setIfPresent(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setIfPresent(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setIfPresent(&c.DatabaseURL, "DATABASE_URL")
	setIfPresent(&c.DefaultTier, "SCANNER_DEFAULT_TIER")

	if v := os.Getenv("SCANNER_USE_BROWSER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.UseBrowser = b
		}
	}
	if v := os.Getenv("SCANNER_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Verbose = b
		}
	}
}

// Validate checks field values, not presence: which providers are required
// depends on the plan tier at scan time.
func (c *Config) Validate() error {
	if c.DefaultTier != "" {
		switch types.PlanTier(c.DefaultTier) {
		case types.TierFree, types.TierStarter, types.TierPro:
		default:
			return fmt.Errorf("config error: unknown default_tier %q", c.DefaultTier)
		}
	}
	return nil
}

// Tier returns the configured default plan tier, falling back to free.
func (c *Config) Tier() types.PlanTier {
	return types.ParsePlanTier(c.DefaultTier)
}

// HasAnyProviderKey reports whether at least one provider credential is
// configured.
func (c *Config) HasAnyProviderKey() bool {
	return c.OpenAIAPIKey != "" || c.AnthropicAPIKey != "" || c.GeminiAPIKey != ""
}
