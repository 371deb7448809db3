package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/l3aro/go-import-resolver/internal/log"
	"github.com/l3aro/go-import-resolver/pkg/imports"
)

// DirName is the directory holding gir config and cache files.
const DirName = ".gir"

// Config holds all configuration for gir
type Config struct {
	// Language conventions used to build the module index and synthesize guesses
	Extensions    []string `yaml:"extensions" env:"GIR_EXTENSIONS"`
	PackageIndex  string   `yaml:"package_index" env:"GIR_PACKAGE_INDEX"`
	ModuleMarker  string   `yaml:"module_marker" env:"GIR_MODULE_MARKER"`
	ModuleFileExt string   `yaml:"module_file_ext" env:"GIR_MODULE_FILE_EXT"`
	Constructor   string   `yaml:"constructor" env:"GIR_CONSTRUCTOR"`

	// Resolution pass
	Workers   int    `yaml:"workers" env:"GIR_WORKERS"`
	CacheSize int    `yaml:"cache_size" env:"GIR_CACHE_SIZE"`
	CacheFile string `yaml:"cache_file" env:"GIR_CACHE_FILE"`

	// File discovery
	IgnoreFile string `yaml:"ignore_file" env:"GIR_IGNORE_FILE"`

	// Logging
	LogLevel string `yaml:"log_level" env:"GIR_LOG_LEVEL"`
	JSONLogs bool   `yaml:"json_logs" env:"GIR_JSON_LOGS"`
}

// DefaultConfig returns a Config with the Python conventions.
func DefaultConfig() *Config {
	conv := imports.PythonConventions()
	return &Config{
		Extensions:    conv.SourceExtensions,
		PackageIndex:  conv.PackageIndex,
		ModuleMarker:  conv.ModuleMarker,
		ModuleFileExt: conv.ModuleFileExt,
		Constructor:   conv.Constructor,
		Workers:       8,
		CacheSize:     4096,
		CacheFile:     filepath.Join(DirName, "cache", "resolutions.msgpack"),
		IgnoreFile:    ".girignore",
		LogLevel:      "info",
		JSONLogs:      false,
	}
}

// globalConfigFilePath returns the global config file path (~/.gir/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DirName, "config.yaml")
	}
	return filepath.Join(home, DirName, "config.yaml")
}

// ProjectConfigFilePath returns the project-level config file path (./.gir/config.yaml)
func ProjectConfigFilePath() string {
	return filepath.Join(DirName, "config.yaml")
}

// EffectivePath returns the highest-priority config file that exists, or ""
// when only defaults and the environment apply.
func EffectivePath() string {
	for _, p := range []string{ProjectConfigFilePath(), globalConfigFilePath()} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Project-level config (./.gir/config.yaml)
// 2. Environment variables
// 3. Global config (~/.gir/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := mergeFile(cfg, globalConfigFilePath()); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := mergeFile(cfg, ProjectConfigFilePath()); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path.
// Environment variables override values from the file.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML file at path onto cfg. A missing file is skipped.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GIR_EXTENSIONS"); v != "" {
		cfg.Extensions = splitList(v)
	}
	if v, ok := os.LookupEnv("GIR_PACKAGE_INDEX"); ok {
		cfg.PackageIndex = v
	}
	if v := os.Getenv("GIR_MODULE_MARKER"); v != "" {
		cfg.ModuleMarker = v
	}
	if v := os.Getenv("GIR_MODULE_FILE_EXT"); v != "" {
		cfg.ModuleFileExt = v
	}
	if v := os.Getenv("GIR_CONSTRUCTOR"); v != "" {
		cfg.Constructor = v
	}
	if v := os.Getenv("GIR_WORKERS"); v != "" {
		if i := parseInt(v); i > 0 {
			cfg.Workers = i
		}
	}
	if v := os.Getenv("GIR_CACHE_SIZE"); v != "" {
		if i := parseInt(v); i >= 0 {
			cfg.CacheSize = i
		}
	}
	if v, ok := os.LookupEnv("GIR_CACHE_FILE"); ok {
		cfg.CacheFile = v
	}
	if v := os.Getenv("GIR_IGNORE_FILE"); v != "" {
		cfg.IgnoreFile = v
	}
	if v := os.Getenv("GIR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GIR_JSON_LOGS"); v != "" {
		cfg.JSONLogs = parseBool(v)
	}
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must list at least one file extension")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.ModuleMarker == "" {
		return fmt.Errorf("module_marker is required")
	}
	if !strings.HasPrefix(c.ModuleFileExt, ".") {
		return fmt.Errorf("module_file_ext %q must start with a dot", c.ModuleFileExt)
	}
	if c.Constructor == "" {
		return fmt.Errorf("constructor is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// Conventions returns the language conventions described by the config.
func (c *Config) Conventions() imports.Conventions {
	return imports.Conventions{
		SourceExtensions: append([]string(nil), c.Extensions...),
		PackageIndex:     c.PackageIndex,
		ModuleMarker:     c.ModuleMarker,
		ModuleFileExt:    c.ModuleFileExt,
		Constructor:      c.Constructor,
	}
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// parseInt attempts to parse a string as int
func parseInt(s string) int {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return -1
	}
	return i
}
