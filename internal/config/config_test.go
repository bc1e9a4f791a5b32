package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://mail.example.com
ui:
  per_page: 25
  stats_confirm_delay_ms: 750
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal("https://mail.example.com", cfg.API.BaseURL)
	assert.Equal(25, cfg.UI.PerPage)
	assert.Equal(int64(750), cfg.ConfirmDelay().Milliseconds())
	assert.Equal(30, cfg.API.TimeoutSec, "unset keys keep defaults")
	assert.Equal("inbox", cfg.UI.DefaultFolder)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert := assert.New(t)

	cfg := &Config{UI: UIConfig{PerPage: 5000, PollIntervalSec: 1}}
	cfg.normalize()
	assert.Equal(50, cfg.UI.PerPage)
	assert.Equal(120, cfg.UI.PollIntervalSec)
	assert.Equal("http://localhost:5000", cfg.API.BaseURL)
}

func TestApplyEnv(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	err := cfg.applyEnv(context.Background(), envconfig.MapLookuper(map[string]string{
		"MAILDESK_API_URL":  "http://10.0.0.2:5000",
		"MAILDESK_PER_PAGE": "10",
	}))
	require.NoError(t, err)

	assert.Equal("http://10.0.0.2:5000", cfg.API.BaseURL)
	assert.Equal(10, cfg.UI.PerPage)
	assert.Equal(Default().Cache.Path, cfg.Cache.Path, "unset variables change nothing")
}

func TestApplyEnvRejectsBadNumber(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(context.Background(), envconfig.MapLookuper(map[string]string{
		"MAILDESK_PER_PAGE": "lots",
	}))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.API.BaseURL = "https://saved.example.com"
	cfg.UI.PerPage = 20
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com", loaded.API.BaseURL)
	assert.Equal(t, 20, loaded.UI.PerPage)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MAILDESK_TEST_ONLY=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("MAILDESK_TEST_ONLY") })

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("MAILDESK_TEST_ONLY"))
}
