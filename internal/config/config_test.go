package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
instantly:
  client_name: "Connect Resources"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "https://api.instantly.ai/api/v2", cfg.Instantly.BaseURL)
	assert.Equal(t, 30, cfg.Instantly.TimeoutSeconds)
	assert.Equal(t, 20, cfg.Instantly.MaxPages)
	assert.Equal(t, "2024-01-01", cfg.Instantly.HistoryStart)
	assert.Equal(t, "us-east-1", cfg.SES.Region)
	assert.NotZero(t, cfg.Report.TargetYear)
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
app:
  log_level: debug
instantly:
  api_key: file-key
  max_pages: 5
report:
  target_year: 2026
  recipients:
    - ops@luxvance.com
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "file-key", cfg.Instantly.APIKey)
	assert.Equal(t, 5, cfg.Instantly.MaxPages)
	assert.Equal(t, 2026, cfg.Report.TargetYear)
	assert.Equal(t, []string{"ops@luxvance.com"}, cfg.Report.Recipients)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
instantly:
  api_key: file-key
sheets:
  spreadsheet_id: file-sheet
`)
	t.Setenv("INSTANTLY_API_KEY", "env-key")
	t.Setenv("CONNECT_RESOURCES_SHEET_ID", "env-sheet")
	t.Setenv("CONNECT_RESOURCES_REPORT_RECIPIENTS", "a@x.com, b@y.com ,")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Instantly.APIKey)
	assert.Equal(t, "env-sheet", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, cfg.Report.Recipients)
}

func TestLoadFromEnvClientKeyFallback(t *testing.T) {
	path := writeConfig(t, `
instantly:
  client_name: "Global Food Ventures"
sheets:
  spreadsheet_id: sheet-1
`)
	t.Setenv("INSTANTLY_API_KEY_GLOBAL_FOOD_VENTURES", "client-key")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "client-key", cfg.Instantly.APIKey)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")

	cfg.Instantly.APIKey = "k"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spreadsheet")

	cfg.Sheets.SpreadsheetID = "s"
	assert.NoError(t, cfg.Validate())
}

func TestClientKeys(t *testing.T) {
	t.Setenv("INSTANTLY_API_KEY_GLOBAL_FOOD_VENTURES", "key-1")
	t.Setenv("INSTANTLY_API_KEY_CAMB_AI", "key-2")
	t.Setenv("INSTANTLY_API_KEY_CAPQUEST", "key-3")

	keys := ClientKeys()
	assert.Equal(t, "key-1", keys["Global Food Ventures"])
	assert.Equal(t, "key-2", keys["CAMB.ai"])
	assert.Equal(t, "key-3", keys["CapQuest"])
}

func TestSESConfigured(t *testing.T) {
	var c SESConfig
	assert.False(t, c.Configured())
	c.AccessKey, c.SecretKey, c.FromEmail = "a", "s", "bot@luxvance.com"
	assert.True(t, c.Configured())
}
