package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	// Create a temporary directory for test files
	tempDir, err := os.MkdirTemp("", "simple-webserver-test")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Test case 1: Valid configuration file
	validConfigPath := filepath.Join(tempDir, "valid-config.yaml")
	validConfigContent := `
server:
  port: 9090
  root: /srv/www
  idle_timeout: 30
  write_timeout: 5
  name: custom-server
  identity: www.example.com
logging:
  log_to_file: true
  log_file_path: /tmp/server.log
  max_size: 20
`
	err = os.WriteFile(validConfigPath, []byte(validConfigContent), 0644)
	if err != nil {
		t.Fatalf("Failed to write valid config file: %v", err)
	}

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("Failed to load valid config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.Root != "/srv/www" {
		t.Errorf("Expected root '/srv/www', got '%s'", cfg.Server.Root)
	}
	if cfg.Server.IdleTimeout != 30 {
		t.Errorf("Expected idle timeout 30, got %d", cfg.Server.IdleTimeout)
	}
	if cfg.WriteTimeoutDuration() != 5*time.Second {
		t.Errorf("Expected write timeout 5s, got %s", cfg.WriteTimeoutDuration())
	}
	if cfg.Server.Name != "custom-server" {
		t.Errorf("Expected name 'custom-server', got '%s'", cfg.Server.Name)
	}
	if cfg.Server.Identity != "www.example.com" {
		t.Errorf("Expected identity 'www.example.com', got '%s'", cfg.Server.Identity)
	}
	if !cfg.Logging.LogToFile {
		t.Errorf("Expected log_to_file to be true")
	}
	if cfg.Logging.LogFilePath != "/tmp/server.log" {
		t.Errorf("Expected log file path '/tmp/server.log', got '%s'", cfg.Logging.LogFilePath)
	}
	if cfg.Logging.MaxSize != 20 {
		t.Errorf("Expected max size 20, got %d", cfg.Logging.MaxSize)
	}
	// Not set in the file, so the default applies
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("Expected default max backups 3, got %d", cfg.Logging.MaxBackups)
	}

	// Test case 2: Default values when settings are omitted
	minimalConfigPath := filepath.Join(tempDir, "minimal-config.yaml")
	minimalConfigContent := `
server:
  port: 8081
`
	err = os.WriteFile(minimalConfigPath, []byte(minimalConfigContent), 0644)
	if err != nil {
		t.Fatalf("Failed to write minimal config file: %v", err)
	}

	minimalCfg, err := Load(minimalConfigPath)
	if err != nil {
		t.Fatalf("Failed to load minimal config: %v", err)
	}
	if minimalCfg.Server.Port != 8081 {
		t.Errorf("Expected port 8081, got %d", minimalCfg.Server.Port)
	}
	if minimalCfg.Server.IdleTimeout != 10 {
		t.Errorf("Expected default idle timeout 10, got %d", minimalCfg.Server.IdleTimeout)
	}
	if minimalCfg.Server.WriteTimeout != 10 {
		t.Errorf("Expected default write timeout 10, got %d", minimalCfg.Server.WriteTimeout)
	}
	if minimalCfg.Server.Name != "simple-webserver" {
		t.Errorf("Expected default name 'simple-webserver', got '%s'", minimalCfg.Server.Name)
	}

	// Test case 3: Invalid configuration file
	invalidConfigPath := filepath.Join(tempDir, "invalid-config.yaml")
	invalidConfigContent := `
server:
  port: 8080
  -
invalid yaml format
`
	err = os.WriteFile(invalidConfigPath, []byte(invalidConfigContent), 0644)
	if err != nil {
		t.Fatalf("Failed to write invalid config file: %v", err)
	}

	_, err = Load(invalidConfigPath)
	if err == nil {
		t.Errorf("Expected error when loading invalid config, got nil")
	}

	// Test case 4: Non-existent file
	nonExistentPath := filepath.Join(tempDir, "non-existent.yaml")
	_, err = Load(nonExistentPath)
	if err == nil {
		t.Errorf("Expected error when loading non-existent file, got nil")
	}

	// Test case 5: Out of range port
	badPortPath := filepath.Join(tempDir, "bad-port.yaml")
	err = os.WriteFile(badPortPath, []byte("server:\n  port: 70000\n"), 0644)
	if err != nil {
		t.Fatalf("Failed to write bad port config file: %v", err)
	}
	_, err = Load(badPortPath)
	if err == nil {
		t.Errorf("Expected error when loading config with port 70000, got nil")
	}
}

func TestLoadZeroTimeoutsDisableDeadlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-deadlines.yaml")
	content := `
server:
  idle_timeout: 0
  write_timeout: 0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IdleTimeoutDuration() != 0 {
		t.Errorf("Expected idle timeout disabled, got %s", cfg.IdleTimeoutDuration())
	}
	if cfg.WriteTimeoutDuration() != 0 {
		t.Errorf("Expected write timeout disabled, got %s", cfg.WriteTimeoutDuration())
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	cfg := LoadDefault()

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Root != "" {
		t.Errorf("Expected empty default root, got '%s'", cfg.Server.Root)
	}
	if cfg.IdleTimeoutDuration() != 10*time.Second {
		t.Errorf("Expected default idle timeout 10s, got %s", cfg.IdleTimeoutDuration())
	}
	if cfg.WriteTimeoutDuration() != 10*time.Second {
		t.Errorf("Expected default write timeout 10s, got %s", cfg.WriteTimeoutDuration())
	}
	if cfg.Logging.LogToFile {
		t.Errorf("Expected file logging to be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got: %v", err)
	}
}

func TestRootEnvOverride(t *testing.T) {
	t.Setenv(RootEnvVar, "/from/env")

	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg.Server.Root != "/from/env" {
		t.Errorf("Expected root '/from/env', got '%s'", cfg.Server.Root)
	}

	root, err := cfg.ContentRoot()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if root != "/from/env" {
		t.Errorf("Expected content root '/from/env', got '%s'", root)
	}
}

func TestContentRootDefaultsToWorkingDirectory(t *testing.T) {
	cfg := LoadDefault()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	root, err := cfg.ContentRoot()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if root != wd {
		t.Errorf("Expected content root %s, got %s", wd, root)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 65536 }, true},
		{"negative idle timeout", func(c *Config) { c.Server.IdleTimeout = -1 }, true},
		{"negative write timeout", func(c *Config) { c.Server.WriteTimeout = -1 }, true},
		{"zero idle timeout", func(c *Config) { c.Server.IdleTimeout = 0 }, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := LoadDefault()
			test.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Expected error: %v, got: %v", test.wantErr, err)
			}
		})
	}
}
