package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 8, cfg.UI.PageSize)
	assert.Equal(t, 10*time.Second, cfg.UI.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"*.jsonl", "*.json"}, cfg.Import.Patterns)
}

func TestInitReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "docket.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
api:
  base_url: http://cases.internal:8080
  headers:
    x-tenant: north
ui:
  page_size: 20
`), 0644))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DOCKET_UI_THEME=light\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("DOCKET_UI_THEME") })
	t.Setenv("DOCKET_LOG_LEVEL", "debug")

	v := viper.New()
	used, err := Init(v, cfgFile, envFile)
	require.NoError(t, err)
	assert.Equal(t, cfgFile, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://cases.internal:8080", cfg.API.BaseURL)
	assert.Equal(t, "north", cfg.API.Headers["x-tenant"])
	assert.Equal(t, 20, cfg.UI.PageSize)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitWithoutFiles(t *testing.T) {
	dir := t.TempDir()
	v := viper.New()
	used, err := Init(v, filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestValidate(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	base, err := Load(v)
	require.NoError(t, err)

	cases := map[string]func(c *Config){
		"relative base url": func(c *Config) { c.API.BaseURL = "/api" },
		"empty base url":    func(c *Config) { c.API.BaseURL = "" },
		"zero page size":    func(c *Config) { c.UI.PageSize = 0 },
		"zero poll":         func(c *Config) { c.UI.PollInterval = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "docket.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("ui:\n  theme: dark\n"), 0644))

	v := viper.New()
	_, err := Init(v, cfgFile, filepath.Join(dir, ".env"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var themes []string
	go func() {
		_ = Watch(ctx, v, cfgFile, nil, func(c Config) {
			mu.Lock()
			themes = append(themes, c.UI.Theme)
			mu.Unlock()
		})
	}()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(cfgFile, []byte("ui:\n  theme: light\n"), 0644))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(themes) > 0 && themes[len(themes)-1] == "light"
	}, 3*time.Second, 20*time.Millisecond)
}
