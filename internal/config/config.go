package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIURL     = "http://localhost:8002"
	DefaultProjectKey = "KAN"
	DefaultTheme      = "classic"
	DefaultLogLevel   = "info"

	configDirName  = ".casegen"
	configFileName = "config.yaml"
)

var (
	themes    = []string{"classic", "neon", "mono"}
	logLevels = []string{"debug", "info", "warn", "error"}
)

// Config is the resolved application configuration.
type Config struct {
	APIURL     string        `yaml:"api_url"`
	ProjectKey string        `yaml:"project_key"`
	Timeout    time.Duration `yaml:"timeout"` // zero means no timeout
	Theme      string        `yaml:"theme"`
	LogLevel   string        `yaml:"log_level"`
	LogFile    string        `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		APIURL:     DefaultAPIURL,
		ProjectKey: DefaultProjectKey,
		Theme:      DefaultTheme,
		LogLevel:   DefaultLogLevel,
	}
}

// DefaultPath is ~/.casegen/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Load resolves defaults, then the YAML file at path (the default location
// when path is empty; a missing default file is fine), then .env and the
// environment. The result is not validated: callers apply their own
// overrides first and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.loadFile(path, explicit); err != nil {
			return nil, err
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, mustExist bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := getEnv("CASEGEN_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := getEnv("CASEGEN_PROJECT_KEY"); v != "" {
		c.ProjectKey = v
	}
	if v := getEnv("CASEGEN_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CASEGEN_HTTP_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := getEnv("CASEGEN_THEME"); v != "" {
		c.Theme = v
	}
	if v := getEnv("CASEGEN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("CASEGEN_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	return nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("api_url: want an http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout: must not be negative, got %s", c.Timeout)
	}
	c.Theme = strings.ToLower(c.Theme)
	if !oneOf(c.Theme, themes) {
		return fmt.Errorf("theme: unknown %q (want one of %s)", c.Theme, strings.Join(themes, ", "))
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if !oneOf(c.LogLevel, logLevels) {
		return fmt.Errorf("log_level: unknown %q (want one of %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}
	return nil
}

func getEnv(key string) string { return strings.TrimSpace(os.Getenv(key)) }

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
