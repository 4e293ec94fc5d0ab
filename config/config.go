// Package config loads tmbridge configuration from a YAML file, with
// credentials overridable through the environment so they can stay out of
// checked-in config.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = ".tmbridge.yaml"

// Config is the top-level tmbridge configuration.
type Config struct {
	TestRail TestRail `yaml:"testrail"`
	TestLink TestLink `yaml:"testlink"`
	Defaults Defaults `yaml:"defaults"`
}

// TestRail holds REST backend settings.
type TestRail struct {
	BaseURL string `yaml:"base_url"`
	Email   string `yaml:"email"`
	APIKey  string `yaml:"api_key"`
}

// TestLink holds XML-RPC backend settings.
type TestLink struct {
	Endpoint string `yaml:"endpoint"`
	DevKey   string `yaml:"dev_key"`
}

// Defaults are fallback identifiers used when flags are omitted.
type Defaults struct {
	RunID   int `yaml:"run_id"`
	PlanID  int `yaml:"plan_id"`
	BuildID int `yaml:"build_id"`
}

// Load reads a YAML config file and applies environment overrides. A missing
// file is not an error; environment variables alone can configure a backend.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// environment-only configuration
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnv(cfg)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.TestRail.BaseURL = getEnv("TMBRIDGE_TESTRAIL_BASE_URL", cfg.TestRail.BaseURL)
	cfg.TestRail.Email = getEnv("TMBRIDGE_TESTRAIL_EMAIL", cfg.TestRail.Email)
	cfg.TestRail.APIKey = getEnv("TMBRIDGE_TESTRAIL_API_KEY", cfg.TestRail.APIKey)
	cfg.TestLink.Endpoint = getEnv("TMBRIDGE_TESTLINK_ENDPOINT", cfg.TestLink.Endpoint)
	cfg.TestLink.DevKey = getEnv("TMBRIDGE_TESTLINK_DEV_KEY", cfg.TestLink.DevKey)
	cfg.Defaults.RunID = getEnvInt("TMBRIDGE_RUN_ID", cfg.Defaults.RunID)
	cfg.Defaults.PlanID = getEnvInt("TMBRIDGE_PLAN_ID", cfg.Defaults.PlanID)
	cfg.Defaults.BuildID = getEnvInt("TMBRIDGE_BUILD_ID", cfg.Defaults.BuildID)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// ValidateTestRail reports an error when the REST backend is not fully
// configured.
func (c *Config) ValidateTestRail() error {
	if c.TestRail.BaseURL == "" {
		return fmt.Errorf("testrail base_url is not configured")
	}
	if c.TestRail.Email == "" {
		return fmt.Errorf("testrail email is not configured")
	}
	if c.TestRail.APIKey == "" {
		return fmt.Errorf("testrail api_key is not configured")
	}
	return nil
}

// ValidateTestLink reports an error when the XML-RPC backend is not fully
// configured.
func (c *Config) ValidateTestLink() error {
	if c.TestLink.Endpoint == "" {
		return fmt.Errorf("testlink endpoint is not configured")
	}
	if c.TestLink.DevKey == "" {
		return fmt.Errorf("testlink dev_key is not configured")
	}
	return nil
}
