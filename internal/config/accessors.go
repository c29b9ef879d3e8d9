package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned by Get and Set for keys outside the configuration.
var ErrUnknownKey = errors.New("unknown configuration key")

// field binds a dotted key to a configuration value.
type field struct {
	get func(c *Config) any
	set func(c *Config, v string) error
}

func stringField(ptr func(c *Config) *string) field {
	return field{
		get: func(c *Config) any { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

func intField(ptr func(c *Config) *int) field {
	return field{
		get: func(c *Config) any { return *ptr(c) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("value must be an integer: %q", v)
			}
			*ptr(c) = n
			return nil
		},
	}
}

func boolField(ptr func(c *Config) *bool) field {
	return field{
		get: func(c *Config) any { return *ptr(c) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("value must be true or false: %q", v)
			}
			*ptr(c) = b
			return nil
		},
	}
}

//nolint:gochecknoglobals // Static key table.
var fields = map[string]field{
	"server.url":              stringField(func(c *Config) *string { return &c.Server.URL }),
	"server.app_path":         stringField(func(c *Config) *string { return &c.Server.AppPath }),
	"server.username":         stringField(func(c *Config) *string { return &c.Server.Username }),
	"server.password":         stringField(func(c *Config) *string { return &c.Server.Password }),
	"server.timeout_seconds":  intField(func(c *Config) *int { return &c.Server.TimeoutSeconds }),
	"list.page_size":          intField(func(c *Config) *int { return &c.List.PageSize }),
	"list.load_more_size":     intField(func(c *Config) *int { return &c.List.LoadMoreSize }),
	"list.stop_on_short_page": boolField(func(c *Config) *bool { return &c.List.StopOnShortPage }),
	"list.default_sort":       stringField(func(c *Config) *string { return &c.List.DefaultSort }),
	"cache.enabled":           boolField(func(c *Config) *bool { return &c.Cache.Enabled }),
	"cache.ttl_seconds":       intField(func(c *Config) *int { return &c.Cache.TTLSeconds }),
	"cache.directory":         stringField(func(c *Config) *string { return &c.Cache.Directory }),
	"logging.level":           stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":          stringField(func(c *Config) *string { return &c.Logging.Format }),
	"logging.file":            stringField(func(c *Config) *string { return &c.Logging.File }),
	"output.default_format":   stringField(func(c *Config) *string { return &c.Output.DefaultFormat }),
}

// Get returns a value by dotted key. A section name returns the whole section.
func (c *Config) Get(key string) (any, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	switch key {
	case "server":
		return c.Server, nil
	case "list":
		return c.List, nil
	case "cache":
		return c.Cache, nil
	case "logging":
		return c.Logging, nil
	case "output":
		return c.Output, nil
	}
	f, ok := fields[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set parses value into the setting named by key.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// List returns every section by name.
func (c *Config) List() map[string]any {
	return map[string]any{
		"server":  c.Server,
		"list":    c.List,
		"cache":   c.Cache,
		"logging": c.Logging,
		"output":  c.Output,
	}
}

// Keys returns every settable key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
