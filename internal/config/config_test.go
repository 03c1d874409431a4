package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdash/internal/eventbus"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), "config.toml"))

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigServiceAt(path)

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://api.example.com"
	cfg.List.PageSize = 20
	cfg.List.PollInterval = Duration{30 * time.Second}
	cfg.Auth.Token = "abc"
	require.NoError(t, svc.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "30s")

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromPathKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "http://10.0.0.5:9000"

[list]
page_size = 0
poll_interval = "2m"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := NewConfigServiceAt(path).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Minute, cfg.List.PollInterval.Duration)
	assert.Equal(t, 10, cfg.List.PageSize, "invalid page size falls back")
	assert.Equal(t, []int{10, 20, 50}, cfg.List.PageSizeOptions)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout.Duration)
}

func TestLoadFromPathDropsUnservablePageSizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[list]
page_size = 150
page_size_options = [0, 25, -5, 150, 25, 100]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := NewConfigServiceAt(path).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, []int{25, 100}, cfg.List.PageSizeOptions)
	assert.Equal(t, 25, cfg.List.PageSize)

	require.NoError(t, os.WriteFile(path, []byte("[list]\npage_size_options = [0, 500]\n"), 0600))
	cfg, err = NewConfigServiceAt(path).LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20, 50}, cfg.List.PageSizeOptions, "nothing usable falls back to the defaults")
}

func TestLoadFromPathErrors(t *testing.T) {
	dir := t.TempDir()
	svc := NewConfigServiceAt(filepath.Join(dir, "config.toml"))

	_, err := svc.LoadFromPath(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[list]\npoll_interval = \"soon\"\n"), 0600))
	_, err = svc.LoadFromPath(bad)
	assert.Error(t, err)
}

func TestLoadPublishesEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	got := make(chan eventbus.ConfigLoadedEvent, 1)
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ConfigLoadedEvent); ok {
			got <- ev
		}
	})

	svc := NewConfigServiceWithBus(bus, filepath.Join(t.TempDir(), "config.toml"))
	_, err := svc.Load()
	require.NoError(t, err)

	select {
	case ev := <-got:
		assert.Equal(t, "http://localhost:8080", ev.BaseURL)
	case <-time.After(time.Second):
		t.Fatal("ConfigLoaded event not published")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "https://staging.example.com/")
	t.Setenv(EnvToken, "tok")
	t.Setenv(EnvPollInterval, "15s")

	cfg := DefaultConfig()
	ApplyEnv(cfg)
	assert.Equal(t, "https://staging.example.com", cfg.API.BaseURL)
	assert.Equal(t, "tok", cfg.Auth.Token)
	assert.Equal(t, 15*time.Second, cfg.List.PollInterval.Duration)

	t.Setenv(EnvPollInterval, "never")
	ApplyEnv(cfg)
	assert.Equal(t, 15*time.Second, cfg.List.PollInterval.Duration)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STAFFDASH_BASE_URL=http://from-dotenv:1\n"), 0600))
	t.Setenv(EnvBaseURL, "")
	os.Unsetenv(EnvBaseURL)

	LoadEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	cfg := DefaultConfig()
	ApplyEnv(cfg)
	assert.Equal(t, "http://from-dotenv:1", cfg.API.BaseURL)
}
