package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`

	// Schools is the experiment roster. Populated from Paths.SchoolsFile when
	// that file exists, otherwise from the built-in four-school default.
	Schools []School `yaml:"schools"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/ecdash.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	ReportsDir  string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	SchoolsFile string `yaml:"schools_file" envconfig:"SCHOOLS_FILE" default:"schools.yaml"`
}

// Load loads configuration from environment variables and an optional YAML
// config file, then resolves the school roster. Environment variables take
// precedence over file values.
func Load() (*Config, error) {
	var cfg Config

	if configFile := findConfigFile(); configFile != "" {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("ECDASH", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.resolveSchools(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration, including every school in the roster.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if len(c.Schools) == 0 {
		return fmt.Errorf("school roster is empty")
	}
	seen := make(map[string]bool, len(c.Schools))
	for _, s := range c.Schools {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("invalid school %q: %w", s.Name, err)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate school name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// resolveSchools populates the roster from the configured file when present,
// falling back to the built-in default.
func (c *Config) resolveSchools() error {
	if len(c.Schools) > 0 {
		return nil
	}
	if c.Paths.SchoolsFile != "" {
		if _, err := os.Stat(c.Paths.SchoolsFile); err == nil {
			schools, err := LoadSchools(c.Paths.SchoolsFile)
			if err != nil {
				return err
			}
			c.Schools = schools
			return nil
		}
	}
	c.Schools = DefaultSchools()
	return nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile returns the path to the config file, if any exists
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration with the built-in school roster.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitRPS:    50,
			RateLimitBurst:  25,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stdout",
			FilePath: "logs/ecdash.log",
		},
		Paths: PathsConfig{
			DataDir:     "data",
			ReportsDir:  "reports",
			SchoolsFile: "schools.yaml",
		},
		Schools: DefaultSchools(),
	}
}
