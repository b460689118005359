// Package config loads layered YAML configuration. Three files under one
// directory are merged in order: base.yaml, then <APP_ENV>.yaml, then
// local.yaml, with later layers winning key by key. Every file is optional;
// a missing directory just yields an empty configuration.
//
// File contents pass through os.ExpandEnv before parsing, so values may
// reference environment variables as ${VAR}. Keys are addressed with dotted
// paths:
//
//	cfg.GetString("mcp.server.name", "MCP Server")
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// EnvVar names the environment variable that selects the overlay
	// layer.
	EnvVar = "APP_ENV"

	// DefaultEnvironment is used when EnvVar is unset.
	DefaultEnvironment = "development"
)

// Manager holds merged configuration values and re-reads them on demand.
// It is safe for concurrent use.
type Manager struct {
	dir         string
	environment string

	mu     sync.RWMutex
	values map[string]interface{}
}

// Load reads and merges the configuration directory. The overlay layer is
// chosen by APP_ENV, defaulting to "development".
func Load(dir string) (*Manager, error) {
	environment := os.Getenv(EnvVar)
	if environment == "" {
		environment = DefaultEnvironment
	}

	m := &Manager{
		dir:         dir,
		environment: environment,
	}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Default returns an empty manager for hosts that run without config files.
func Default() *Manager {
	return &Manager{
		environment: DefaultEnvironment,
		values:      map[string]interface{}{},
	}
}

// Environment returns the active overlay name.
func (m *Manager) Environment() string {
	return m.environment
}

// Reload re-reads all layers from disk and swaps in the merged result
// atomically. Readers keep seeing the old values until the swap.
func (m *Manager) Reload() error {
	if m.dir == "" {
		return nil
	}

	layers := []string{
		"base.yaml",
		m.environment + ".yaml",
		"local.yaml",
	}

	merged := map[string]interface{}{}
	for _, name := range layers {
		layer, err := loadFile(filepath.Join(m.dir, name))
		if err != nil {
			return err
		}
		if layer != nil {
			merged = deepMerge(merged, layer)
		}
	}

	m.mu.Lock()
	m.values = merged
	m.mu.Unlock()
	return nil
}

// Get returns the value at a dotted key path, or def when any path segment
// is absent.
func (m *Manager) Get(key string, def interface{}) interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	current := interface{}(m.values)
	for _, part := range strings.Split(key, ".") {
		node, ok := current.(map[string]interface{})
		if !ok {
			return def
		}
		current, ok = node[part]
		if !ok {
			return def
		}
	}
	return current
}

// GetString returns the string at key, or def when absent or not a string.
func (m *Manager) GetString(key, def string) string {
	if v, ok := m.Get(key, def).(string); ok {
		return v
	}
	return def
}

// GetInt returns the integer at key, or def when absent or not numeric.
func (m *Manager) GetInt(key string, def int) int {
	switch v := m.Get(key, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// GetFloat returns the float at key, or def when absent or not numeric.
func (m *Manager) GetFloat(key string, def float64) float64 {
	switch v := m.Get(key, def).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// GetBool returns the boolean at key, or def when absent or not a boolean.
func (m *Manager) GetBool(key string, def bool) bool {
	if v, ok := m.Get(key, def).(bool); ok {
		return v
	}
	return def
}

// GetStringMap returns the nested mapping at key, or nil when absent. The
// result is a deep copy.
func (m *Manager) GetStringMap(key string) map[string]interface{} {
	if v, ok := m.Get(key, nil).(map[string]interface{}); ok {
		return deepCopy(v)
	}
	return nil
}

// All returns a deep copy of the merged configuration tree.
func (m *Manager) All() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return deepCopy(m.values)
}

// loadFile reads one layer. Absent files are not an error; unreadable or
// unparsable ones are.
func loadFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var values map[string]interface{}
	if err := yaml.Unmarshal([]byte(expanded), &values); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return values, nil
}

// deepMerge overlays src onto dst. Nested mappings merge recursively;
// scalars and sequences overwrite.
func deepMerge(dst, src map[string]interface{}) map[string]interface{} {
	for key, value := range src {
		if srcMap, ok := value.(map[string]interface{}); ok {
			if dstMap, ok := dst[key].(map[string]interface{}); ok {
				dst[key] = deepMerge(dstMap, srcMap)
				continue
			}
		}
		dst[key] = value
	}
	return dst
}

func deepCopy(src map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(src))
	for key, value := range src {
		if nested, ok := value.(map[string]interface{}); ok {
			out[key] = deepCopy(nested)
			continue
		}
		out[key] = value
	}
	return out
}
