package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dshills/sshlm/internal/config/layer"
	"github.com/dshills/sshlm/internal/config/loader"
)

// AppName names the configuration and state directories.
const AppName = "sshlm"

// Config provides typed access to the merged configuration.
type Config struct {
	mu sync.RWMutex

	layers *layer.Manager
	fs     loader.FileSystem
	env    *loader.EnvLoader

	// path is the config file in use; explicit is set when the caller
	// named it, which makes a missing file an error.
	path     string
	explicit bool
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath names the config file to load. A missing file is an error.
func WithPath(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.path = path
			c.explicit = true
		}
	}
}

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnvLoader sets the loader for environment overrides. A nil loader
// disables them.
func WithEnvLoader(env *loader.EnvLoader) Option {
	return func(c *Config) {
		c.env = env
	}
}

// New creates a Config holding only the built-in defaults.
func New(opts ...Option) *Config {
	c := &Config{
		layers: layer.NewManager("hotkeys"),
		fs:     loader.DefaultFS(),
		env:    loader.NewEnvLoader(loader.EnvPrefix),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.layers.AddLayer(layer.NewLayerWithData(layer.SourceBuiltin, defaultConfig()))
	return c
}

// Load reads the config file and the environment on top of the defaults.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.path
	if path == "" {
		path = findConfigFile(c.fs, defaultConfigDir())
	}

	data, err := loader.ForPath(c.fs, path).Load()
	if err != nil {
		return err
	}
	if data == nil && c.explicit {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if data != nil {
		l := layer.NewLayerWithData(layer.SourceFile, data)
		l.Path = path
		c.layers.AddLayer(l)
	}

	if c.env != nil {
		envData, err := c.env.Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
		if len(envData) > 0 {
			c.layers.AddLayer(layer.NewLayerWithData(layer.SourceEnv, envData))
		}
	}

	return nil
}

// Path returns the config file that was loaded, or "" if none was.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if l := c.layers.GetLayer(layer.SourceFile.String()); l != nil {
		return l.Path
	}
	return ""
}

// Set overrides a setting from the command line.
func (c *Config) Set(path string, value any) error {
	if !knownSetting(path) {
		return fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	c.layers.Set(layer.SourceArgs, path, value)
	return nil
}

// Source returns the name of the layer that supplies path.
func (c *Config) Source(path string) string {
	return c.layers.WhichLayer(path)
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	return c.layers.Get(path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetDuration returns a duration at the given path. Strings use
// time.ParseDuration syntax ("500ms", "1s").
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: fmt.Sprintf("%q", val)}
		}
		return d, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice at the given path. A plain string
// is split on whitespace.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}

	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...), nil
	case string:
		return strings.Fields(val), nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// GetStringMap returns a table of string values at the given path.
func (c *Config) GetStringMap(path string) (map[string]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "map", Actual: typeName(v)}
	}

	result := make(map[string]string, len(m))
	for k, item := range m {
		s, ok := item.(string)
		if !ok {
			return nil, &TypeError{Path: path + "." + k, Expected: "string", Actual: typeName(item)}
		}
		result[k] = s
	}
	return result, nil
}

// Unknown returns the paths of settings no component reads, sorted.
// The hotkeys table is free-form and never reported.
func (c *Config) Unknown() []string {
	var unknown []string
	for path := range layer.FlattenMap(c.layers.Merge()) {
		if strings.HasPrefix(path, "hotkeys.") || knownSetting(path) {
			continue
		}
		unknown = append(unknown, path)
	}
	sort.Strings(unknown)
	return unknown
}

func knownSetting(path string) bool {
	if path == "hotkeys" || strings.HasPrefix(path, "hotkeys.") {
		return true
	}
	_, ok := layer.GetByPath(defaultConfig(), path)
	return ok
}

// DefaultConfigPath returns the config file used when none is named.
func DefaultConfigPath() string {
	return findConfigFile(loader.DefaultFS(), defaultConfigDir())
}

// DefaultLogFile returns the log file used when none is configured.
func DefaultLogFile() string {
	return filepath.Join(defaultStateDir(), AppName+".log")
}

// findConfigFile returns the first of config.toml, config.yaml and
// config.yml present in dir, or config.toml if none is.
func findConfigFile(fsys loader.FileSystem, dir string) string {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := fsys.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, "config.toml")
}

// defaultConfigDir returns the default user configuration directory.
func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", AppName)
}

// defaultStateDir returns the default directory for logs.
func defaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", AppName)
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"hotkeys": map[string]any{
			"Ctrl+]":  "line",
			"Ctrl+\\": "quit",
		},
		"lineMode": map[string]any{
			"notifier":         "line",
			"notifierDuration": "500ms",
			"warningDuration":  "800ms",
		},
		"quitPrompt": map[string]any{
			"message": "[quit? y/n]",
		},
		"session": map[string]any{
			"command":        []any{"ssh", "-t"},
			"readChunk":      1024,
			"inputTimeout":   "250ms",
			"resizeInterval": "1s",
			"terminateGrace": "500ms",
		},
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
	}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
