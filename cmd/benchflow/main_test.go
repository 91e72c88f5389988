package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("BENCHFLOW_CONFIG")
	defer os.Setenv("BENCHFLOW_CONFIG", originalEnv)

	os.Unsetenv("BENCHFLOW_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("BENCHFLOW_CONFIG")
	defer os.Setenv("BENCHFLOW_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("BENCHFLOW_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("BENCHFLOW_CONFIG")
	defer os.Setenv("BENCHFLOW_CONFIG", originalEnv)

	os.Setenv("BENCHFLOW_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx, "protocol.yaml", false); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_CompilePipeline runs the full pipeline end to end with MQTT
// and InfluxDB disabled: load, compile, persist, emit.
func TestRun_CompilePipeline(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	protocolPath := filepath.Join(tmpDir, "protocol.yaml")
	dbPath := filepath.Join(tmpDir, "benchflow.db")

	configContent := `
site:
  id: test-bench

database:
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`
	protocolContent := `
name: smoke
apparatus:
  name: bench
  components:
    - name: pump
      type: pump
procedures:
  - component: pump
    start: 0 s
    stop: 30 s
    params:
      rate: 5 ml/min
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := os.WriteFile(protocolPath, []byte(protocolContent), 0600); err != nil {
		t.Fatalf("failed to write test protocol: %v", err)
	}

	originalEnv := os.Getenv("BENCHFLOW_CONFIG")
	defer os.Setenv("BENCHFLOW_CONFIG", originalEnv)
	os.Setenv("BENCHFLOW_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := run(ctx, protocolPath, false); err != nil {
		t.Fatalf("run() = %v, want nil", err)
	}

	// Re-running persists nothing new (duplicate name) but still succeeds.
	if err := run(ctx, protocolPath, false); err != nil {
		t.Fatalf("second run() = %v, want nil", err)
	}
}

// TestRun_ExecuteModeBlockedBySimulateOnly verifies the safety interlock.
func TestRun_ExecuteModeBlockedBySimulateOnly(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
site:
  id: test-bench

database:
  path: "` + filepath.Join(tmpDir, "benchflow.db") + `"
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: error
  format: text
  output: stdout

compiler:
  simulate_only: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("BENCHFLOW_CONFIG")
	defer os.Setenv("BENCHFLOW_CONFIG", originalEnv)
	os.Setenv("BENCHFLOW_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx, "irrelevant.yaml", true); err == nil {
		t.Fatal("run(execute) should fail when compiler.simulate_only is set")
	}
}
