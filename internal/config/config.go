package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the reporter.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Instantly InstantlyConfig `yaml:"instantly"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	SES       SESConfig       `yaml:"ses"`
	Report    ReportConfig    `yaml:"report"`
	Placement PlacementConfig `yaml:"placement"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `yaml:"log_level"`
}

// InstantlyConfig holds Instantly v2 API configuration.
type InstantlyConfig struct {
	APIKey         string `yaml:"api_key"`
	ClientName     string `yaml:"client_name"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxPages       int    `yaml:"max_pages"`
	HistoryStart   string `yaml:"history_start"` // YYYY-MM-DD, start of the all-time range
}

// Timeout returns the configured timeout as a duration.
func (c InstantlyConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SheetsConfig holds Google Sheets output configuration.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// SESConfig holds AWS SES sending configuration.
type SESConfig struct {
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration.
func (c SESConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Configured reports whether SES credentials are present. When they are
// not, the email step is skipped rather than failed.
func (c SESConfig) Configured() bool {
	return c.AccessKey != "" && c.SecretKey != "" && c.FromEmail != ""
}

// ReportConfig holds report shape settings.
type ReportConfig struct {
	TargetYear int      `yaml:"target_year"`
	Recipients []string `yaml:"recipients"`
}

// PlacementConfig holds inbox-placement analysis settings.
type PlacementConfig struct {
	TestID          string   `yaml:"test_id"`
	EmailBreakdown  bool     `yaml:"email_breakdown"`
	EmailRecipients []string `yaml:"email_recipients"`
}

// Load reads and parses the configuration file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.Instantly.BaseURL == "" {
		cfg.Instantly.BaseURL = "https://api.instantly.ai/api/v2"
	}
	if cfg.Instantly.TimeoutSeconds == 0 {
		cfg.Instantly.TimeoutSeconds = 30
	}
	if cfg.Instantly.MaxPages == 0 {
		cfg.Instantly.MaxPages = 20
	}
	if cfg.Instantly.HistoryStart == "" {
		cfg.Instantly.HistoryStart = "2024-01-01"
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-east-1"
	}
	if cfg.SES.TimeoutSeconds == 0 {
		cfg.SES.TimeoutSeconds = 30
	}
	if cfg.SES.FromName == "" {
		cfg.SES.FromName = "Luxvance Bot"
	}
	if cfg.Report.TargetYear == 0 {
		cfg.Report.TargetYear = time.Now().Year()
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first, so secrets can live in .env
// locally and in real env vars on the deployment host.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("INSTANTLY_API_KEY"); v != "" {
		cfg.Instantly.APIKey = v
	}
	if v := os.Getenv("INSTANTLY_BASE_URL"); v != "" {
		cfg.Instantly.BaseURL = v
	}
	if v := os.Getenv("CONNECT_RESOURCES_SHEET_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("SHEETS_CREDENTIALS_FILE"); v != "" {
		cfg.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.SES.Region = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.SES.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.SES.SecretKey = v
	}
	if v := os.Getenv("REPORT_FROM_EMAIL"); v != "" {
		cfg.SES.FromEmail = v
	}
	if v := os.Getenv("CONNECT_RESOURCES_REPORT_RECIPIENTS"); v != "" {
		cfg.Report.Recipients = splitRecipients(v)
	}
	if v := os.Getenv("PLACEMENT_TEST_ID"); v != "" {
		cfg.Placement.TestID = v
	}

	// Fall back to a per-client key discovered from the environment when
	// no explicit key is set.
	if cfg.Instantly.APIKey == "" && cfg.Instantly.ClientName != "" {
		if key, ok := ClientKeys()[cfg.Instantly.ClientName]; ok {
			cfg.Instantly.APIKey = key
		}
	}

	return cfg, nil
}

// Validate checks the values the report run cannot proceed without.
func (c *Config) Validate() error {
	if c.Instantly.APIKey == "" {
		return fmt.Errorf("instantly API key not set (INSTANTLY_API_KEY or INSTANTLY_API_KEY_<CLIENT>)")
	}
	if c.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet ID not set (CONNECT_RESOURCES_SHEET_ID)")
	}
	return nil
}

func splitRecipients(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// ClientKeys discovers Instantly API keys from INSTANTLY_API_KEY_<NAME>
// environment variables, keyed by a human display name. "GLOBAL_FOOD_VENTURES"
// becomes "Global Food Ventures".
func ClientKeys() map[string]string {
	keys := make(map[string]string)
	for _, kv := range os.Environ() {
		name, val, ok := strings.Cut(kv, "=")
		if !ok || val == "" {
			continue
		}
		raw, found := strings.CutPrefix(name, "INSTANTLY_API_KEY_")
		if !found || raw == "" {
			continue
		}
		keys[displayName(raw)] = val
	}
	return keys
}

// Brand names the generic title-casing gets wrong.
var displayNameFixups = map[string]string{
	"CAMB AI":  "CAMB.ai",
	"KCAL":     "Kcal",
	"CAPQUEST": "CapQuest",
}

func displayName(raw string) string {
	spaced := strings.ReplaceAll(raw, "_", " ")
	if fixed, ok := displayNameFixups[strings.ToUpper(spaced)]; ok {
		return fixed
	}
	words := strings.Fields(spaced)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
