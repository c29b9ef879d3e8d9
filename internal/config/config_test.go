package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmops/flowadmin/internal/flownodes"
	"github.com/bpmops/flowadmin/internal/logging"
	"github.com/bpmops/flowadmin/internal/pagination"
)

// isolate points the configuration directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	for _, env := range []string{EnvURL, EnvAppPath, EnvUsername, EnvPassword, EnvLogLevel, EnvLogFormat, EnvOutput, EnvCache} {
		t.Setenv(env, "")
	}
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:8080/bonita", cfg.Server.URL)
	assert.Equal(t, pagination.DefaultPolicy(), cfg.Policy())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.Equal(t, OutputTable, cfg.Output.DefaultFormat)

	opt, err := cfg.SortOption()
	require.NoError(t, err)
	assert.Equal(t, flownodes.SortFailedOnNewest, opt)
}

func TestLoad(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  url: https://bpm.example.com/bonita
  username: walter.bates
list:
  page_size: 40
  load_more_size: 20
  stop_on_short_page: false
  default_sort: name ASC
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://bpm.example.com/bonita", cfg.Server.URL)
	assert.Equal(t, "walter.bates", cfg.Server.Username)
	assert.Equal(t, 30, cfg.Server.TimeoutSeconds, "unset keys keep their defaults")
	assert.Equal(t, pagination.Policy{PageSize: 40, LoadMoreSize: 20}, cfg.Policy())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, path, cfg.Path())

	opt, err := cfg.SortOption()
	require.NoError(t, err)
	assert.Equal(t, flownodes.SortNameAsc, opt)
}

func TestLoad_MissingFile(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestLoadFile_IgnoresEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  url: https://file.example.com/bonita\n"), 0o600))
	t.Setenv(EnvURL, "https://env.example.com/bonita")

	fromFile, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com/bonita", fromFile.Server.URL)

	effective, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com/bonita", effective.Server.URL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestApplyEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvURL, "http://engine:8080/bonita")
	t.Setenv(EnvUsername, "helen.kelly")
	t.Setenv(EnvPassword, "secret")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvOutput, "json")
	t.Setenv(EnvCache, "false")

	cfg := New()
	assert.Equal(t, "http://engine:8080/bonita", cfg.Server.URL)
	assert.Equal(t, "helen.kelly", cfg.Server.Username)
	assert.Equal(t, "secret", cfg.Server.Password)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, OutputJSON, cfg.Output.DefaultFormat)
	assert.False(t, cfg.Cache.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"missing url", func(c *Config) { c.Server.URL = "" }},
		{"bad url", func(c *Config) { c.Server.URL = "not a url" }},
		{"relative app path", func(c *Config) { c.Server.AppPath = "apps/admin" }},
		{"negative timeout", func(c *Config) { c.Server.TimeoutSeconds = -1 }},
		{"page size zero", func(c *Config) { c.List.PageSize = 0 }},
		{"page size too large", func(c *Config) { c.List.PageSize = 1000 }},
		{"unaligned sizes", func(c *Config) { c.List.PageSize = 25 }},
		{"unsupported sort", func(c *Config) { c.List.DefaultSort = "priority ASC" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad output", func(c *Config) { c.Output.DefaultFormat = "yaml" }},
		{"negative ttl", func(c *Config) { c.Cache.TTLSeconds = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := isolate(t)

	cfg := New()
	require.NoError(t, cfg.Set("server.url", "https://bpm.example.com/bonita"))
	require.NoError(t, cfg.Set("list.page_size", "30"))
	require.NoError(t, cfg.Set("list.stop_on_short_page", "false"))
	require.NoError(t, cfg.Save())

	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	loaded, err := Load(DefaultPath())
	require.NoError(t, err)
	assert.Equal(t, "https://bpm.example.com/bonita", loaded.Server.URL)
	assert.Equal(t, 30, loaded.List.PageSize)
	assert.False(t, loaded.List.StopOnShortPage)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("cache.ttl_seconds", "60"))
	v, err := cfg.Get("cache.ttl_seconds")
	require.NoError(t, err)
	assert.Equal(t, 60, v)

	require.NoError(t, cfg.Set("Cache.Enabled", "false"))
	v, err = cfg.Get("cache.enabled")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	section, err := cfg.Get("list")
	require.NoError(t, err)
	assert.IsType(t, ListConfig{}, section)

	require.ErrorIs(t, cfg.Set("server.colour", "blue"), ErrUnknownKey)
	_, err = cfg.Get("server.colour")
	require.ErrorIs(t, err, ErrUnknownKey)

	err = cfg.Set("list.page_size", "twenty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an integer")

	err = cfg.Set("cache.enabled", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "true or false")

	assert.Len(t, cfg.List(), 5)
	assert.Contains(t, Keys(), "list.load_more_size")
}

func TestGlobalConfig(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.Output.DefaultFormat = OutputJSON
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "flowadmin.log")
	SetGlobalConfig(cfg)

	assert.Same(t, cfg, GetGlobalConfig())
	assert.Equal(t, OutputJSON, GetOutputFormat(""))
	assert.Equal(t, OutputTable, GetOutputFormat(OutputTable))
	assert.Equal(t, "info", GetLogLevel())

	require.NoError(t, EnsureLogDir())
	assert.DirExists(t, filepath.Dir(cfg.Logging.File))

	lc := GetLoggingConfig()
	assert.Equal(t, logging.Config{
		Level:  "info",
		Format: "console",
		Output: logging.OutputFile,
		File:   cfg.Logging.File,
	}, lc.ToLoggingConfig())
}

func TestDirs(t *testing.T) {
	dir := isolate(t)
	assert.Equal(t, dir, Dir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), DefaultPath())
	assert.Equal(t, filepath.Join(dir, "logs"), LogDir())
	assert.Equal(t, filepath.Join(dir, "cache"), Default().CacheDir())
}
