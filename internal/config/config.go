// Package config loads, validates and persists the flowadmin configuration file
// (~/.flowadmin/config.yaml) and applies environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/flownodes"
	"github.com/bpmops/flowadmin/internal/pagination"
)

// Environment variables.
const (
	EnvHome      = "FLOWADMIN_HOME"
	EnvURL       = "FLOWADMIN_URL"
	EnvAppPath   = "FLOWADMIN_APP_PATH"
	EnvUsername  = "FLOWADMIN_USERNAME"
	EnvPassword  = "FLOWADMIN_PASSWORD"
	EnvLogLevel  = "FLOWADMIN_LOG_LEVEL"
	EnvLogFormat = "FLOWADMIN_LOG_FORMAT"
	EnvOutput    = "FLOWADMIN_OUTPUT"
	EnvCache     = "FLOWADMIN_CACHE_ENABLED"
)

const (
	configDirName  = ".flowadmin"
	configFileName = "config.yaml"
	logsDirName    = "logs"
	cacheDirName   = "cache"

	defaultURL        = "http://localhost:8080/bonita"
	defaultTimeoutSec = 30
	defaultCacheTTL   = 300

	dirPerm  = 0o700
	filePerm = 0o600
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the flowadmin configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	List    ListConfig    `yaml:"list"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`

	configPath string
}

// ServerConfig locates the engine.
type ServerConfig struct {
	URL      string `yaml:"url" validate:"required,url"`
	AppPath  string `yaml:"app_path" validate:"omitempty,startswith=/"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// TimeoutSeconds bounds every engine request; 0 disables the timeout.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=0"`
}

// ListConfig is the load-more policy and default sort of the failed flow node list.
type ListConfig struct {
	PageSize        int    `yaml:"page_size" validate:"min=1,max=999"`
	LoadMoreSize    int    `yaml:"load_more_size" validate:"min=1,max=999"`
	StopOnShortPage bool   `yaml:"stop_on_short_page"`
	DefaultSort     string `yaml:"default_sort"`
}

// CacheConfig configures the process list cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds" validate:"gte=0"`
	Directory  string `yaml:"directory,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
	File   string `yaml:"file,omitempty"`
}

// OutputConfig configures command output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" validate:"oneof=table json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	policy := pagination.DefaultPolicy()
	return &Config{
		Server: ServerConfig{
			URL:            defaultURL,
			AppPath:        bpm.DefaultAppPath,
			TimeoutSeconds: defaultTimeoutSec,
		},
		List: ListConfig{
			PageSize:        policy.PageSize,
			LoadMoreSize:    policy.LoadMoreSize,
			StopOnShortPage: policy.StopOnShortPage,
			DefaultSort:     bpm.DefaultSort.String(),
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: defaultCacheTTL,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			DefaultFormat: OutputTable,
		},
	}
}

// New returns the configuration from the default path, falling back to the defaults
// when the file does not exist or cannot be read, with environment overrides applied.
func New() *Config {
	path := DefaultPath()
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.configPath = path
		cfg.ApplyEnv()
	}
	return cfg
}

// Load reads path over the defaults and applies environment overrides. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile reads path over the defaults without environment overrides, which is what
// gets saved back by config set.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// ApplyEnv overrides settings from FLOWADMIN_* variables.
func (c *Config) ApplyEnv() {
	overrides := map[string]*string{
		EnvURL:       &c.Server.URL,
		EnvAppPath:   &c.Server.AppPath,
		EnvUsername:  &c.Server.Username,
		EnvPassword:  &c.Server.Password,
		EnvLogLevel:  &c.Logging.Level,
		EnvLogFormat: &c.Logging.Format,
		EnvOutput:    &c.Output.DefaultFormat,
	}
	for env, field := range overrides {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
	if v, err := strconv.ParseBool(os.Getenv(EnvCache)); err == nil {
		c.Cache.Enabled = v
	}
}

// Validate checks the struct tags and the load-more policy alignment.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.SortOption(); err != nil {
		return fmt.Errorf("%w: list.default_sort: %w", ErrInvalidConfig, err)
	}
	return nil
}

// SortOption resolves list.default_sort, which may be an engine expression such as
// "lastUpdateDate DESC" or a dropdown label. Empty means the default sort.
func (c *Config) SortOption() (flownodes.SortOption, error) {
	if c.List.DefaultSort == "" {
		return flownodes.DefaultSortOption, nil
	}
	return flownodes.ParseSortExpr(c.List.DefaultSort)
}

// Save writes the configuration to its path.
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Path returns the file the configuration is read from and saved to.
func (c *Config) Path() string {
	if c.configPath == "" {
		return DefaultPath()
	}
	return c.configPath
}

// SetPath changes the file Save writes to.
func (c *Config) SetPath(path string) {
	c.configPath = path
}

// Policy returns the load-more policy.
func (c *Config) Policy() pagination.Policy {
	return pagination.Policy{
		PageSize:        c.List.PageSize,
		LoadMoreSize:    c.List.LoadMoreSize,
		StopOnShortPage: c.List.StopOnShortPage,
	}
}

// Timeout returns the engine request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// CacheTTL returns the process cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// CacheDir returns the cache directory, defaulting under the config directory.
func (c *Config) CacheDir() string {
	if c.Cache.Directory != "" {
		return c.Cache.Directory
	}
	return filepath.Join(Dir(), cacheDirName)
}

// Dir returns the configuration directory: $FLOWADMIN_HOME, else ~/.flowadmin.
func Dir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return configDirName
	}
	return filepath.Join(userHome, configDirName)
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(Dir(), configFileName)
}

// LogDir returns the default directory of log files.
func LogDir() string {
	return filepath.Join(Dir(), logsDirName)
}

// EnsureLogDir creates the directory of the configured log file.
func EnsureLogDir() error {
	dir := LogDir()
	if file := GetLogFile(); file != "" {
		dir = filepath.Dir(file)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating log directory %s: %w", dir, err)
	}
	return nil
}
