// Package config loads webcheck configuration from an optional YAML file
// with environment overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service and harness configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Browser BrowserConfig `yaml:"browser"`
	Crawler CrawlerConfig `yaml:"crawler"`

	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// ServerConfig configures the crawl service's HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// AllowedOrigins are the origins the CORS middleware accepts.
	// "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// BrowserConfig configures the harness's browser sessions.
type BrowserConfig struct {
	Headless       bool `yaml:"headless"`
	TimeoutSeconds int  `yaml:"timeout_seconds"`
}

// CrawlerConfig configures the static-HTML crawl engine.
type CrawlerConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
	MaxLinks       int    `yaml:"max_links"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: "127.0.0.1:7000",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
		},
		Browser: BrowserConfig{
			Headless:       true,
			TimeoutSeconds: 10,
		},
		Crawler: CrawlerConfig{
			TimeoutSeconds: 10,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			MaxLinks:       50,
		},
		LogLevel: "info",
	}
}

// Load builds the configuration: defaults, then the YAML file at path if
// given, then environment variables. A .env file in the working directory
// is honored when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Missing .env is fine; only explicit settings override.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WEBCHECK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("WEBCHECK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("WEBCHECK_HEADLESS"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = parsed
		}
	}
	if v := os.Getenv("WEBCHECK_BROWSER_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Browser.TimeoutSeconds = parsed
		}
	}
	if v := os.Getenv("WEBCHECK_CRAWLER_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Crawler.TimeoutSeconds = parsed
		}
	}
	if v := os.Getenv("WEBCHECK_CRAWLER_USER_AGENT"); v != "" {
		c.Crawler.UserAgent = v
	}
	if v := os.Getenv("WEBCHECK_CRAWLER_MAX_LINKS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Crawler.MaxLinks = parsed
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Browser.TimeoutSeconds <= 0 {
		return fmt.Errorf("browser timeout must be positive, got %d", c.Browser.TimeoutSeconds)
	}
	if c.Crawler.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawler timeout must be positive, got %d", c.Crawler.TimeoutSeconds)
	}
	return nil
}

// BrowserTimeout returns the browser timeout as a duration.
func (c *Config) BrowserTimeout() time.Duration {
	return time.Duration(c.Browser.TimeoutSeconds) * time.Second
}

// CrawlerTimeout returns the crawler timeout as a duration.
func (c *Config) CrawlerTimeout() time.Duration {
	return time.Duration(c.Crawler.TimeoutSeconds) * time.Second
}
