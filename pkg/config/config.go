package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/harrisonrobin/archsync/pkg/store"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	xdgAppName = "archsync"
	configFile = "config.yaml"

	DefaultCalendar      = "archsync"
	DefaultLocale        = "ko"
	DefaultUrgentWindow  = 3
	DefaultUpcomingLimit = 5
)

type S3 struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty"`
}

type Storage struct {
	Backend     string `yaml:"backend"`
	DataDir     string `yaml:"data_dir,omitempty"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
	RedisURL    string `yaml:"redis_url,omitempty"`
	S3          S3     `yaml:"s3,omitempty"`
}

type Config struct {
	// Calendar is the Google calendar events are published to.
	Calendar      string  `yaml:"calendar"`
	Locale        string  `yaml:"locale"`
	UrgentWindow  int     `yaml:"urgent_window,omitempty"`
	UpcomingLimit int     `yaml:"upcoming_limit,omitempty"`
	Storage       Storage `yaml:"storage"`
}

func Default() *Config {
	return &Config{
		Calendar:      DefaultCalendar,
		Locale:        DefaultLocale,
		UrgentWindow:  DefaultUrgentWindow,
		UpcomingLimit: DefaultUpcomingLimit,
		Storage:       Storage{Backend: store.BackendBolt},
	}
}

// Dir is where config, OAuth credentials and the token live.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, xdgAppName)
}

func GetConfigPath() string {
	return filepath.Join(Dir(), configFile)
}

// DefaultDataDir is used when storage.data_dir is unset.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, xdgAppName)
}

// Load reads path (GetConfigPath when empty), fills defaults and applies
// ARCHSYNC_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(cfg *Config, path string) error {
	if path == "" {
		path = GetConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadEnvFile loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is ignored.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Calendar = getenv("ARCHSYNC_CALENDAR", c.Calendar)
	c.Locale = getenv("ARCHSYNC_LOCALE", c.Locale)
	c.UrgentWindow = getenvInt("ARCHSYNC_URGENT_WINDOW", c.UrgentWindow)
	c.UpcomingLimit = getenvInt("ARCHSYNC_UPCOMING_LIMIT", c.UpcomingLimit)

	s := &c.Storage
	s.Backend = getenv("ARCHSYNC_BACKEND", s.Backend)
	s.DataDir = getenv("ARCHSYNC_DATA_DIR", s.DataDir)
	s.PostgresDSN = getenv("ARCHSYNC_POSTGRES_DSN", s.PostgresDSN)
	s.RedisURL = getenv("ARCHSYNC_REDIS_URL", s.RedisURL)
	s.S3.Endpoint = getenv("ARCHSYNC_S3_ENDPOINT", s.S3.Endpoint)
	s.S3.AccessKey = getenv("ARCHSYNC_S3_ACCESS_KEY", s.S3.AccessKey)
	s.S3.SecretKey = getenv("ARCHSYNC_S3_SECRET_KEY", s.S3.SecretKey)
	s.S3.Bucket = getenv("ARCHSYNC_S3_BUCKET", s.S3.Bucket)
	s.S3.UseSSL = getenvBool("ARCHSYNC_S3_USE_SSL", s.S3.UseSSL)
}

func (c *Config) fillDefaults() {
	if c.Calendar == "" {
		c.Calendar = DefaultCalendar
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.UrgentWindow <= 0 {
		c.UrgentWindow = DefaultUrgentWindow
	}
	if c.UpcomingLimit <= 0 {
		c.UpcomingLimit = DefaultUpcomingLimit
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = store.BackendBolt
	}
	if c.Storage.S3.Bucket == "" {
		c.Storage.S3.Bucket = xdgAppName
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case store.BackendFile, store.BackendBolt, store.BackendSQLite,
		store.BackendPostgres, store.BackendRedis, store.BackendS3:
	default:
		return fmt.Errorf("unknown storage backend %q (valid: file, bolt, sqlite, postgres, redis, s3)", c.Storage.Backend)
	}
	if c.Locale != "ko" && c.Locale != "en" {
		return fmt.Errorf("unknown locale %q (valid: ko, en)", c.Locale)
	}
	return nil
}

// StoreOptions resolves the storage section for store.Open.
func (c *Config) StoreOptions() store.Options {
	dir := c.Storage.DataDir
	if dir == "" {
		dir = DefaultDataDir()
	}
	return store.Options{
		Backend:     c.Storage.Backend,
		Dir:         dir,
		PostgresDSN: c.Storage.PostgresDSN,
		RedisURL:    c.Storage.RedisURL,
		S3: store.S3Options{
			Endpoint:  c.Storage.S3.Endpoint,
			AccessKey: c.Storage.S3.AccessKey,
			SecretKey: c.Storage.S3.SecretKey,
			Bucket:    c.Storage.S3.Bucket,
			UseSSL:    c.Storage.S3.UseSSL,
		},
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
