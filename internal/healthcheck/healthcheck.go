// Package healthcheck verifies that gir can run against a project: the
// configuration in use, the Python parser, the resolution cache and the
// ignore file.
package healthcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/l3aro/go-import-resolver/internal/config"
	"github.com/l3aro/go-import-resolver/pkg/cache"
	"github.com/l3aro/go-import-resolver/pkg/extractor"
)

// Status values reported by a check.
const (
	StatusReady   = "ready"
	StatusMissing = "missing"
	StatusError   = "error"
)

// CheckStatus is the outcome of a single check.
type CheckStatus struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// HealthCheckResult contains the full health check output for display.
type HealthCheckResult struct {
	ConfigPath  string        `json:"config_path" yaml:"config_path"`
	ConfigScope string        `json:"config_scope" yaml:"config_scope"` // "global", "project" or "defaults"
	Checks      []CheckStatus `json:"checks" yaml:"checks"`
}

// Failed reports whether any check ended in error.
func (r *HealthCheckResult) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusError {
			return true
		}
	}
	return false
}

// Check runs every check for the project at root. configPath is the config
// file in effect, or "" when only defaults apply.
func Check(cfg *config.Config, configPath, root string) (*HealthCheckResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	result := &HealthCheckResult{
		ConfigPath:  configPath,
		ConfigScope: scopeFromPath(configPath),
	}
	result.Checks = append(result.Checks,
		checkParser(cfg),
		checkCache(cfg, root),
		checkIgnoreFile(cfg, root),
	)
	return result, nil
}

// scopeFromPath determines "global" or "project" scope from a config file path.
func scopeFromPath(path string) string {
	if path == "" {
		return "defaults"
	}

	home, err := os.UserHomeDir()
	if err == nil {
		globalDir := filepath.Join(home, config.DirName)
		if strings.HasPrefix(path, globalDir) {
			return "global"
		}
	}
	return "project"
}

// checkParser lowers a small module to make sure the grammar is usable.
func checkParser(cfg *config.Config) CheckStatus {
	status := CheckStatus{Name: "parser"}

	fe := extractor.NewPythonFrontend(cfg.Conventions())
	m, err := fe.Parse("probe.py", []byte("import os\n\ndef probe():\n    pass\n"))
	switch {
	case err != nil:
		status.Status = StatusError
		status.Error = err.Error()
	case len(m.Imports) != 1 || len(m.Methods) != 1:
		status.Status = StatusError
		status.Error = "python grammar produced an unexpected tree"
	default:
		status.Status = StatusReady
		status.Detail = "tree-sitter python"
	}
	return status
}

// checkCache inspects the saved resolution cache, if caching is enabled.
func checkCache(cfg *config.Config, root string) CheckStatus {
	status := CheckStatus{Name: "cache"}
	if cfg.CacheSize == 0 || cfg.CacheFile == "" {
		status.Status = StatusMissing
		status.Detail = "disabled"
		return status
	}

	path := cfg.CacheFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		status.Status = StatusMissing
		status.Detail = fmt.Sprintf("%s will be created on the next run", path)
		return status
	}

	info, err := cache.InspectFile(path)
	if err != nil {
		status.Status = StatusError
		status.Error = err.Error()
		return status
	}
	status.Status = StatusReady
	status.Detail = fmt.Sprintf("%d entries, fingerprint %s", info.Entries, info.Fingerprint)
	return status
}

// checkIgnoreFile reports whether the project has an ignore file.
func checkIgnoreFile(cfg *config.Config, root string) CheckStatus {
	status := CheckStatus{Name: "ignore file"}
	path := filepath.Join(root, cfg.IgnoreFile)
	if _, err := os.Stat(path); err != nil {
		status.Status = StatusMissing
		status.Detail = fmt.Sprintf("no %s, default excludes only", cfg.IgnoreFile)
		return status
	}
	status.Status = StatusReady
	status.Detail = path
	return status
}
