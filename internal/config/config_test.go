package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logagrip/internal/domain"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cs := NewConfigServiceAt(filepath.Join(t.TempDir(), "config.toml"))

	cfg, err := cs.Load()
	require.NoError(t, err)

	assert.Equal(t, "q", cfg.QuitKey)
	assert.Equal(t, 100*time.Millisecond, cfg.TickRate)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
	require.Len(t, cfg.Presets, 5)
	assert.Equal(t, "project-prd", cfg.Presets[0].Name)

	key, err := cfg.Quit()
	require.NoError(t, err)
	assert.Equal(t, domain.Char('q'), key)
}

func TestLoadFromPathRequiresFile(t *testing.T) {
	cs := NewConfigServiceAt("")
	_, err := cs.LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))

	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
quit_key = "<Ctrl+c>"
tick_rate = "250ms"
region = "ap-northeast-1"
debug = true

[[presets]]
name = "lambda"
group_name_prefix = "/aws/lambda/"

[[presets]]
name = "all"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewConfigServiceAt(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.TickRate)
	assert.Equal(t, "ap-northeast-1", cfg.Region)
	assert.True(t, cfg.Debug)

	key, err := cfg.Quit()
	require.NoError(t, err)
	assert.Equal(t, domain.Ctrl('c'), key)

	presets := cfg.DomainPresets()
	require.Len(t, presets, 2)
	assert.Equal(t, "/aws/lambda/", presets[0].Prefix())
	assert.Nil(t, presets[1].GroupNamePrefix)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOGAGRIP_TICK_RATE", "1s")
	t.Setenv("LOGAGRIP_REGION", "eu-west-1")
	t.Setenv("LOGAGRIP_DEBUG", "true")

	cfg, err := NewConfigServiceAt(filepath.Join(t.TempDir(), "none.toml")).Load()
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.TickRate)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.True(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		resource string
	}{
		{"bad quit key", func(c *Config) { c.QuitKey = "<Nope>" }, "quit_key"},
		{"zero tick", func(c *Config) { c.TickRate = 0 }, "tick_rate"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"unnamed preset", func(c *Config) { c.Presets = []PresetConfig{{}} }, "presets[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			var cfgErr *domain.ConfigurationError
			require.ErrorAs(t, cfg.Validate(), &cfgErr)
			assert.Equal(t, tt.resource, cfgErr.Resource)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cs := NewConfigServiceAt(path)

	cfg := DefaultConfig()
	cfg.TickRate = 40 * time.Millisecond
	cfg.Presets = []PresetConfig{{Name: "glue", GroupNamePrefix: "/aws-glue/"}}
	require.NoError(t, cs.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "40ms")

	loaded, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.TickRate, loaded.TickRate)
	assert.Equal(t, cfg.Presets, loaded.Presets)
}
