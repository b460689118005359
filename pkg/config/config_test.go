package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func loadDir(t *testing.T, dir string) *Manager {
	t.Helper()
	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m
}

// TestLoadMissingDirectory tests that all layers are optional
func TestLoadMissingDirectory(t *testing.T) {
	m := loadDir(t, filepath.Join(t.TempDir(), "does-not-exist"))

	if got := m.GetString("mcp.server.name", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for empty config, got %q", got)
	}
	if all := m.All(); len(all) != 0 {
		t.Errorf("Expected empty config tree, got %v", all)
	}
}

// TestLoadBaseLayer tests reading values from base.yaml
func TestLoadBaseLayer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
mcp:
  server:
    name: Demo Server
    version: 1.2.3
logging:
  level: info
`)

	m := loadDir(t, dir)

	if got := m.GetString("mcp.server.name", ""); got != "Demo Server" {
		t.Errorf("Expected Demo Server, got %q", got)
	}
	if got := m.GetString("logging.level", ""); got != "info" {
		t.Errorf("Expected info, got %q", got)
	}
}

// TestEnvironmentOverlayWins tests that the APP_ENV layer overrides base
func TestEnvironmentOverlayWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
logging:
  level: info
  format: text
`)
	writeFile(t, dir, "production.yaml", `
logging:
  level: warn
`)

	t.Setenv(EnvVar, "production")
	m := loadDir(t, dir)

	if m.Environment() != "production" {
		t.Errorf("Expected environment production, got %q", m.Environment())
	}
	if got := m.GetString("logging.level", ""); got != "warn" {
		t.Errorf("Expected overlay to win, got %q", got)
	}
	// Keys absent from the overlay survive from base.
	if got := m.GetString("logging.format", ""); got != "text" {
		t.Errorf("Expected base format to survive, got %q", got)
	}
}

// TestLocalLayerWinsLast tests that local.yaml overrides everything
func TestLocalLayerWinsLast(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "port: 1000\n")
	writeFile(t, dir, "development.yaml", "port: 2000\n")
	writeFile(t, dir, "local.yaml", "port: 3000\n")

	t.Setenv(EnvVar, "development")
	m := loadDir(t, dir)

	if got := m.GetInt("port", 0); got != 3000 {
		t.Errorf("Expected local layer to win with 3000, got %d", got)
	}
}

// TestDefaultEnvironment tests the development fallback
func TestDefaultEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "development.yaml", "flag: true\n")

	t.Setenv(EnvVar, "")
	m := loadDir(t, dir)

	if m.Environment() != DefaultEnvironment {
		t.Errorf("Expected default environment, got %q", m.Environment())
	}
	if !m.GetBool("flag", false) {
		t.Error("Expected development.yaml to load by default")
	}
}

// TestExpandEnvVars tests ${VAR} expansion inside file contents
func TestExpandEnvVars(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
api:
  key: ${TEST_CONFIG_API_KEY}
`)

	t.Setenv("TEST_CONFIG_API_KEY", "s3cret")
	m := loadDir(t, dir)

	if got := m.GetString("api.key", ""); got != "s3cret" {
		t.Errorf("Expected expanded env var, got %q", got)
	}
}

// TestGetTypedAccessors tests type coercion and defaults
func TestGetTypedAccessors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
name: demo
count: 7
ratio: 0.25
enabled: true
`)

	m := loadDir(t, dir)

	if got := m.GetString("name", ""); got != "demo" {
		t.Errorf("GetString = %q", got)
	}
	if got := m.GetInt("count", 0); got != 7 {
		t.Errorf("GetInt = %d", got)
	}
	if got := m.GetFloat("ratio", 0); got != 0.25 {
		t.Errorf("GetFloat = %v", got)
	}
	if !m.GetBool("enabled", false) {
		t.Error("GetBool = false")
	}

	// Type mismatches fall back to the default.
	if got := m.GetInt("name", 42); got != 42 {
		t.Errorf("Expected default on type mismatch, got %d", got)
	}
	if got := m.GetString("count", "dflt"); got != "dflt" {
		t.Errorf("Expected default on type mismatch, got %q", got)
	}
	// Missing keys fall back too.
	if got := m.GetString("no.such.key", "dflt"); got != "dflt" {
		t.Errorf("Expected default on missing key, got %q", got)
	}
}

// TestDeepMergeNestedMaps tests that sibling keys in nested maps survive merging
func TestDeepMergeNestedMaps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
mcp:
  server:
    name: base-name
    version: 0.1.0
  transport:
    buffer: 1024
`)
	writeFile(t, dir, "development.yaml", `
mcp:
  server:
    name: dev-name
`)

	t.Setenv(EnvVar, "development")
	m := loadDir(t, dir)

	if got := m.GetString("mcp.server.name", ""); got != "dev-name" {
		t.Errorf("Expected dev-name, got %q", got)
	}
	if got := m.GetString("mcp.server.version", ""); got != "0.1.0" {
		t.Errorf("Expected version to survive merge, got %q", got)
	}
	if got := m.GetInt("mcp.transport.buffer", 0); got != 1024 {
		t.Errorf("Expected sibling subtree to survive merge, got %d", got)
	}
}

// TestAllReturnsCopy tests that mutating the snapshot does not leak back
func TestAllReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
mcp:
  server:
    name: original
`)

	m := loadDir(t, dir)

	snapshot := m.All()
	snapshot["mcp"].(map[string]interface{})["server"].(map[string]interface{})["name"] = "tampered"

	if got := m.GetString("mcp.server.name", ""); got != "original" {
		t.Errorf("Snapshot mutation leaked into manager: %q", got)
	}
}

// TestReload tests picking up on-disk changes
func TestReload(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "port: 1000\n")

	m := loadDir(t, dir)
	if got := m.GetInt("port", 0); got != 1000 {
		t.Fatalf("Expected 1000, got %d", got)
	}

	writeFile(t, dir, "base.yaml", "port: 9999\n")
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if got := m.GetInt("port", 0); got != 9999 {
		t.Errorf("Expected reloaded 9999, got %d", got)
	}
}

// TestMalformedYAML tests that parse failures surface as errors
func TestMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "port: [unclosed\n")

	if _, err := Load(dir); err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
}

// TestGetStringMap tests nested subtree extraction
func TestGetStringMap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
observability:
  metrics:
    port: 9090
`)

	m := loadDir(t, dir)

	sub := m.GetStringMap("observability.metrics")
	if sub == nil {
		t.Fatal("Expected metrics subtree")
	}
	if got, ok := sub["port"].(int); !ok || got != 9090 {
		t.Errorf("Expected port 9090 in subtree, got %v", sub["port"])
	}

	if m.GetStringMap("observability.missing") != nil {
		t.Error("Expected nil for missing subtree")
	}
}

// TestDefault tests the fileless manager
func TestDefault(t *testing.T) {
	m := Default()
	if m.Environment() != DefaultEnvironment {
		t.Errorf("Expected default environment, got %q", m.Environment())
	}
	if got := m.GetString("anything", "x"); got != "x" {
		t.Errorf("Expected default value, got %q", got)
	}
	if err := m.Reload(); err != nil {
		t.Errorf("Reload on fileless manager should be a no-op, got %v", err)
	}
}
