package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Catalog CatalogConfig `toml:"catalog"`
	Browse  BrowseConfig  `toml:"browse"`
	Logging LoggingConfig `toml:"logging"`
	Ngrok   NgrokConfig   `toml:"ngrok"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `toml:"port"`
	Host         string `toml:"host"`
	StaticDir    string `toml:"static_dir"`
	EnableCORS   bool   `toml:"enable_cors"`
	ReadTimeout  int    `toml:"read_timeout_seconds"`
	WriteTimeout int    `toml:"write_timeout_seconds"`
}

// CatalogConfig describes where the album catalog lives and how to read it
type CatalogConfig struct {
	// Location is a file path, an http(s):// URL or an s3://bucket/key URI
	Location        string   `toml:"location"`
	Format          string   `toml:"format"` // auto, json, yaml
	Locale          string   `toml:"locale"` // BCP 47 tag used for title/artist collation
	WatchForChanges bool     `toml:"watch_for_changes"`
	S3              S3Config `toml:"s3"`
}

// S3Config contains credentials for catalogs hosted in an S3 compatible bucket
type S3Config struct {
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// BrowseConfig contains settings for the interactive terminal browser
type BrowseConfig struct {
	DebounceMS    int  `toml:"debounce_ms"`
	ReducedMotion bool `toml:"reduced_motion"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level          string `toml:"level"`
	Format         string `toml:"format"`
	File           string `toml:"file"`
	RequestLogging bool   `toml:"request_logging"`
}

// NgrokConfig contains ngrok tunnel configuration
type NgrokConfig struct {
	Enabled      bool   `toml:"enabled"`
	AuthToken    string `toml:"auth_token"`
	Domain       string `toml:"domain"`
	EnableAuth   bool   `toml:"enable_auth"`
	AuthProvider string `toml:"auth_provider"` // google, github, ...
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			Host:         "0.0.0.0",
			StaticDir:    "./static",
			EnableCORS:   false,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Catalog: CatalogConfig{
			Location:        "./static/data/albums.json",
			Format:          "auto",
			Locale:          "en",
			WatchForChanges: true,
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Browse: BrowseConfig{
			DebounceMS:    200,
			ReducedMotion: false,
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "text",
			File:           "",
			RequestLogging: true,
		},
		Ngrok: NgrokConfig{
			Enabled:      false,
			AuthProvider: "google",
		},
	}
}

// LoadConfig loads configuration from a TOML file, then applies
// LINERNOTES_* environment overrides (a .env file next to the working
// directory is honoured when present).
func LoadConfig(configPath string) (*Config, error) {
	cfg, _, err := LoadOrCreate(configPath)
	return cfg, err
}

// LoadOrCreate is LoadConfig that also reports whether the file was missing
// and has been written with defaults. It never prints; callers decide where
// the notice goes.
func LoadOrCreate(configPath string) (*Config, bool, error) {
	// Start with defaults
	cfg := DefaultConfig()
	created := false

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, create it with defaults
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, false, fmt.Errorf("failed to create default config file: %w", err)
		}
		created = true
	} else if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, false, fmt.Errorf("failed to parse config file: %w", err)
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, false, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, false, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, created, nil
}

// ApplyEnv overrides selected settings from the environment. lookup has the
// signature of os.LookupEnv so tests can pass a map-backed function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LINERNOTES_HOST":             &c.Server.Host,
		"LINERNOTES_PORT":             &c.Server.Port,
		"LINERNOTES_STATIC_DIR":       &c.Server.StaticDir,
		"LINERNOTES_CATALOG":          &c.Catalog.Location,
		"LINERNOTES_CATALOG_FORMAT":   &c.Catalog.Format,
		"LINERNOTES_LOCALE":           &c.Catalog.Locale,
		"LINERNOTES_S3_REGION":        &c.Catalog.S3.Region,
		"LINERNOTES_S3_ENDPOINT":      &c.Catalog.S3.Endpoint,
		"LINERNOTES_S3_ACCESS_KEY":    &c.Catalog.S3.AccessKey,
		"LINERNOTES_S3_SECRET_KEY":    &c.Catalog.S3.SecretKey,
		"LINERNOTES_LOG_LEVEL":        &c.Logging.Level,
		"LINERNOTES_LOG_FORMAT":       &c.Logging.Format,
		"LINERNOTES_NGROK_AUTH_TOKEN": &c.Ngrok.AuthToken,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("LINERNOTES_DEBOUNCE_MS"); ok {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("LINERNOTES_DEBOUNCE_MS: %w", err)
		}
		c.Browse.DebounceMS = ms
	}

	bools := map[string]*bool{
		"LINERNOTES_WATCH":          &c.Catalog.WatchForChanges,
		"LINERNOTES_REDUCED_MOTION": &c.Browse.ReducedMotion,
		"LINERNOTES_NGROK":          &c.Ngrok.Enabled,
	}
	for key, dst := range bools {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	return nil
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	header := `# linernotes configuration
# Serves the personal site and the album listing, and drives the terminal browser.
# Edit the values below to customize your settings.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	// Validate catalog config
	if c.Catalog.Location == "" {
		return fmt.Errorf("catalog location cannot be empty")
	}
	validFormats := map[string]bool{
		"auto": true, "json": true, "yaml": true,
	}
	if !validFormats[c.Catalog.Format] {
		return fmt.Errorf("invalid catalog format: %s (must be auto, json, or yaml)", c.Catalog.Format)
	}
	if c.Catalog.Locale == "" {
		return fmt.Errorf("catalog locale cannot be empty")
	}

	if c.Ngrok.EnableAuth && c.Ngrok.AuthProvider == "" {
		return fmt.Errorf("ngrok auth provider is required when auth is enabled")
	}

	if c.Browse.DebounceMS < 0 {
		return fmt.Errorf("browse debounce must not be negative")
	}

	// Validate logging config
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	return nil
}

// GetAddress returns the full server address
func (c *Config) GetAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}
