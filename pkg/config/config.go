package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RootEnvVar overrides the content root when set
const RootEnvVar = "WEBSERVER_ROOT"

// Config represents the application configuration
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Logging LogConfig    `yaml:"logging"`
}

// ServerConfig contains settings for the listener and the connection workers
type ServerConfig struct {
	Port         int    `yaml:"port"`
	Root         string `yaml:"root"`          // content root, empty means the working directory
	IdleTimeout  int    `yaml:"idle_timeout"`  // in seconds, 0 disables the deadline
	WriteTimeout int    `yaml:"write_timeout"` // in seconds, 0 disables the deadline
	Name         string `yaml:"name"`          // value of the Server header
	Identity     string `yaml:"identity"`      // text appended after <cs371server>
}

// LogConfig contains settings for logging
type LogConfig struct {
	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`
	MaxSize     int    `yaml:"max_size"`    // maximum size in megabytes
	MaxBackups  int    `yaml:"max_backups"` // maximum number of old log files to retain
	MaxAge      int    `yaml:"max_age"`     // maximum number of days to retain old log files
	Compress    bool   `yaml:"compress"`    // compress determines if the rotated log files should be compressed
}

// timeoutSettings records which timeouts a config file sets
type timeoutSettings struct {
	Server struct {
		IdleTimeout  *int `yaml:"idle_timeout"`
		WriteTimeout *int `yaml:"write_timeout"`
	} `yaml:"server"`
}

// LoadDefault returns a configuration with default values
func LoadDefault() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			Root:         "",
			IdleTimeout:  10,
			WriteTimeout: 10,
			Name:         "simple-webserver",
			Identity:     "simple-webserver.localdomain",
		},
		Logging: LogConfig{
			LogToFile:   false,
			LogFilePath: "simple-webserver.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
		},
	}
}

// Default returns a configuration with default values
// This is an alias for LoadDefault for backward compatibility
func Default() *Config {
	return LoadDefault()
}

// Load reads configuration from a file and merges it with default values
func Load(configPath string) (*Config, error) {
	cfg := LoadDefault()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Timeouts accept an explicit 0, so presence is checked separately
	var timeouts timeoutSettings
	if err := yaml.Unmarshal(data, &timeouts); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge server configuration
	if fileCfg.Server.Port != 0 {
		cfg.Server.Port = fileCfg.Server.Port
	}
	if fileCfg.Server.Root != "" {
		cfg.Server.Root = fileCfg.Server.Root
	}
	if timeouts.Server.IdleTimeout != nil {
		cfg.Server.IdleTimeout = *timeouts.Server.IdleTimeout
	}
	if timeouts.Server.WriteTimeout != nil {
		cfg.Server.WriteTimeout = *timeouts.Server.WriteTimeout
	}
	if fileCfg.Server.Name != "" {
		cfg.Server.Name = fileCfg.Server.Name
	}
	if fileCfg.Server.Identity != "" {
		cfg.Server.Identity = fileCfg.Server.Identity
	}

	applyEnv(cfg)

	// Merge logging configuration
	if fileCfg.Logging.LogToFile {
		cfg.Logging.LogToFile = fileCfg.Logging.LogToFile
	}
	if fileCfg.Logging.LogFilePath != "" {
		cfg.Logging.LogFilePath = fileCfg.Logging.LogFilePath
	}
	if fileCfg.Logging.MaxSize > 0 {
		cfg.Logging.MaxSize = fileCfg.Logging.MaxSize
	}
	if fileCfg.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = fileCfg.Logging.MaxBackups
	}
	if fileCfg.Logging.MaxAge > 0 {
		cfg.Logging.MaxAge = fileCfg.Logging.MaxAge
	}
	if fileCfg.Logging.Compress {
		cfg.Logging.Compress = fileCfg.Logging.Compress
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault attempts to load configuration from a file
// If the file doesn't exist or can't be parsed, it returns default configuration
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", configPath, err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg = LoadDefault()

		// Even with default config, honour the root override
		applyEnv(cfg)
	}
	return cfg
}

// Validate checks that the configuration can be used to start a server
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Server.Port)
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("invalid idle timeout: %d", c.Server.IdleTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("invalid write timeout: %d", c.Server.WriteTimeout)
	}
	return nil
}

// ContentRoot returns the directory requested paths are appended to
func (c *Config) ContentRoot() (string, error) {
	if c.Server.Root != "" {
		return c.Server.Root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return wd, nil
}

// IdleTimeoutDuration returns the request read deadline window
func (c *Config) IdleTimeoutDuration() time.Duration {
	return time.Duration(c.Server.IdleTimeout) * time.Second
}

// WriteTimeoutDuration returns the response write deadline window
func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.Server.WriteTimeout) * time.Second
}

func applyEnv(cfg *Config) {
	if root := os.Getenv(RootEnvVar); root != "" {
		cfg.Server.Root = root
	}
}
