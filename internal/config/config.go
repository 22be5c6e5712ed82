package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

// Defaults.
const (
	DefaultClientID = "arcgisonline"
	DefaultDebugTag = "hubDebug"
	DefaultPageSize = 100
	DefaultTimeout  = 30 * time.Second

	// DefaultTokenExpiration is the requested token lifetime in minutes.
	DefaultTokenExpiration = 60
)

// SweepsConfig switches individual sweeps on or off.
type SweepsConfig struct {
	Forms          bool `yaml:"forms"`
	OrphanServices bool `yaml:"orphan_services"`
	EmptyFolders   bool `yaml:"empty_folders"`
}

// Config holds all configuration (config file + environment + CLI flags).
type Config struct {
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Portal          string        `yaml:"portal"`
	ClientID        string        `yaml:"client_id"`
	DebugTag        string        `yaml:"debug_tag"`
	PageSize        int           `yaml:"page_size"`
	Timeout         time.Duration `yaml:"timeout"`
	TokenExpiration int           `yaml:"token_expiration"` // minutes
	Insecure        bool          `yaml:"insecure"`
	DryRun          bool          `yaml:"dry_run"`
	LogLevel        string        `yaml:"log_level"`
	Sweeps          SweepsConfig  `yaml:"sweeps"`
}

// Default returns a Config with every sweep enabled.
func Default() *Config {
	return &Config{
		ClientID:        DefaultClientID,
		DebugTag:        DefaultDebugTag,
		PageSize:        DefaultPageSize,
		Timeout:         DefaultTimeout,
		TokenExpiration: DefaultTokenExpiration,
		LogLevel:        "info",
		Sweeps:          SweepsConfig{Forms: true, OrphanServices: true, EmptyFolders: true},
	}
}

// Load builds a Config from defaults, an optional YAML file, a .env file in the
// working directory and the process environment, in increasing precedence.
func Load(path string) (*Config, error) {
	return load(path, ".env", os.LookupEnv)
}

func load(path, envFile string, lookupEnv func(string) (string, bool)) (*Config, error) {
	c := Default()

	if path != "" {
		if err := c.loadFile(path); err != nil {
			return nil, err
		}
	}

	// A missing .env is fine; anything else is reported.
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	// The login shell always sets USER, so it only counts when written in .env
	// or when nothing else named a user.
	if v := dotenv["USER"]; v != "" {
		c.Username = v
	}

	lookup := func(key string) (string, bool) {
		if v, ok := lookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := c.applyEnv(lookup); err != nil {
		return nil, err
	}

	if c.Username == "" {
		if v, ok := lookupEnv("USER"); ok {
			c.Username = v
		}
	}
	return c, nil
}

// loadFile reads a YAML config file over the current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// envKeys lists the variables for each setting; later names win.
var envKeys = map[string][]string{
	"username":  {"SWEEPER_USER"},
	"password":  {"PASSWORD", "SWEEPER_PASSWORD"},
	"portal":    {"PORTAL", "SWEEPER_PORTAL"},
	"client_id": {"SWEEPER_CLIENT_ID"},
	"debug_tag": {"SWEEPER_DEBUG_TAG"},
	"timeout":   {"SWEEPER_TIMEOUT"},
	"token_exp": {"SWEEPER_TOKEN_EXPIRATION"},
	"dry_run":   {"SWEEPER_DRY_RUN"},
	"log_level": {"SWEEPER_LOG_LEVEL"},
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(setting string) (string, bool) {
		var val string
		var found bool
		for _, key := range envKeys[setting] {
			if v, ok := lookup(key); ok && v != "" {
				val, found = v, true
			}
		}
		return val, found
	}

	if v, ok := get("username"); ok {
		c.Username = v
	}
	if v, ok := get("password"); ok {
		c.Password = v
	}
	if v, ok := get("portal"); ok {
		c.Portal = v
	}
	if v, ok := get("client_id"); ok {
		c.ClientID = v
	}
	if v, ok := get("debug_tag"); ok {
		c.DebugTag = v
	}
	if v, ok := get("log_level"); ok {
		c.LogLevel = v
	}
	if v, ok := get("timeout"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWEEPER_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v, ok := get("token_exp"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SWEEPER_TOKEN_EXPIRATION: %w", err)
		}
		c.TokenExpiration = n
	}
	if v, ok := get("dry_run"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SWEEPER_DRY_RUN: %w", err)
		}
		c.DryRun = b
	}
	return nil
}

// Validate checks that the settings needed to log in are present.
func (c *Config) Validate() error {
	var missing []string
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.Portal == "" {
		missing = append(missing, "portal")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %v", missing)
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100, got %d", c.PageSize)
	}
	if c.TokenExpiration <= 0 {
		return fmt.Errorf("token_expiration must be positive, got %d", c.TokenExpiration)
	}
	return nil
}

// Session returns the login session described by the config.
func (c *Config) Session() models.Session {
	return models.Session{
		Username: c.Username,
		Password: c.Password,
		Portal:   c.Portal,
		ClientID: c.ClientID,
	}
}
