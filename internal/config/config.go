// Package config loads fridgechef settings. Sources are applied in order,
// later ones winning: built-in defaults, the YAML file, environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/fridgechef/internal/domain"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "fridgechef.yaml"

// Config holds the application configuration.
type Config struct {
	Spoonacular Spoonacular `yaml:"spoonacular"`
	Speech      Speech      `yaml:"speech"`

	ResultLimit int    `yaml:"result_limit" env:"FRIDGE_RESULT_LIMIT"`
	Offline     bool   `yaml:"offline" env:"FRIDGE_OFFLINE"`
	Catalog     string `yaml:"catalog" env:"FRIDGE_CATALOG"`
	LogFile     string `yaml:"log_file" env:"FRIDGE_LOG_FILE"`
}

// Spoonacular configures the recipe API client.
type Spoonacular struct {
	APIKey            string        `yaml:"api_key" env:"SPOONACULAR_API_KEY"`
	BaseURL           string        `yaml:"base_url" env:"SPOONACULAR_BASE_URL"`
	Timeout           time.Duration `yaml:"timeout" env:"FRIDGE_HTTP_TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"FRIDGE_REQUESTS_PER_SECOND"`
}

// Speech configures narration.
type Speech struct {
	Enabled     bool    `yaml:"enabled" env:"FRIDGE_SPEECH"`
	AzureKey    string  `yaml:"azure_key" env:"AZURE_SPEECH_KEY"`
	AzureRegion string  `yaml:"azure_region" env:"AZURE_SPEECH_REGION"`
	Voice       string  `yaml:"voice" env:"FRIDGE_VOICE"`
	Locale      string  `yaml:"locale" env:"FRIDGE_SPEECH_LOCALE"`
	Rate        float64 `yaml:"rate" env:"FRIDGE_SPEECH_RATE"`
	Volume      float64 `yaml:"volume" env:"FRIDGE_SPEECH_VOLUME"`
	CacheDir    string  `yaml:"cache_dir" env:"FRIDGE_CACHE_DIR"`
	DiskCache   bool    `yaml:"disk_cache" env:"FRIDGE_DISK_CACHE"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Spoonacular: Spoonacular{
			BaseURL:           "https://api.spoonacular.com",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 2,
		},
		Speech: Speech{
			Enabled:   true,
			Voice:     "en-US-AvaNeural",
			Locale:    "en-US",
			Rate:      1,
			Volume:    1,
			CacheDir:  ".fridge-cache/audio",
			DiskCache: true,
		},
		ResultLimit: domain.MaxResults,
		LogFile:     ".fridge-logs/fridgechef.log",
	}
}

// Load builds the configuration. An empty path reads DefaultFile when it
// exists; a non-empty path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, required := path, true
	if file == "" {
		file, required = DefaultFile, false
	}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", file, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("config: reading %s: %w", file, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Spoonacular.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("http timeout must be positive, got %s", c.Spoonacular.Timeout))
	}
	if u, err := url.Parse(c.Spoonacular.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base url %q", c.Spoonacular.BaseURL))
	}
	if c.ResultLimit < 1 || c.ResultLimit > domain.MaxResults {
		errs = append(errs, fmt.Errorf("result limit must be in 1..%d, got %d", domain.MaxResults, c.ResultLimit))
	}
	if c.Speech.Rate <= 0 || c.Speech.Rate > 3 {
		errs = append(errs, fmt.Errorf("speech rate must be in (0, 3], got %g", c.Speech.Rate))
	}
	if c.Speech.Volume <= 0 || c.Speech.Volume > 1 {
		errs = append(errs, fmt.Errorf("speech volume must be in (0, 1], got %g", c.Speech.Volume))
	}
	if strings.TrimSpace(c.Speech.Locale) == "" {
		errs = append(errs, errors.New("speech locale must not be empty"))
	}
	return errors.Join(errs...)
}

// Limit is the page size to request. A config that failed Validate still
// gets the full page.
func (c *Config) Limit() int {
	if c.ResultLimit < 1 || c.ResultLimit > domain.MaxResults {
		return domain.MaxResults
	}
	return c.ResultLimit
}

// UseOffline reports whether the built-in catalog should replace the web
// API, either on request or because no API key is configured.
func (c *Config) UseOffline() bool {
	return c.Offline || strings.TrimSpace(c.Spoonacular.APIKey) == ""
}

// AzureConfigured reports whether real speech synthesis can be used.
func (c *Config) AzureConfigured() bool {
	return c.Speech.AzureKey != "" && c.Speech.AzureRegion != ""
}

// Summary describes the configuration for the log, with secrets masked.
func (c *Config) Summary() string {
	return fmt.Sprintf("api=%s key=%s offline=%t limit=%d speech=%t azure=%s/%s voice=%s locale=%s rate=%g volume=%g",
		c.Spoonacular.BaseURL, mask(c.Spoonacular.APIKey), c.UseOffline(), c.Limit(),
		c.Speech.Enabled, c.Speech.AzureRegion, mask(c.Speech.AzureKey), c.Speech.Voice,
		c.Speech.Locale, c.Speech.Rate, c.Speech.Volume)
}

func mask(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "****"
}
