package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort          = "8080"
	defaultDatabaseURL   = "company.db"
	defaultSessionTTL    = "12h"
	defaultSessionSecret = "change-me-session-secret"
	defaultCSRFKey       = "change-me-csrf-key-32-bytes-long"
	defaultStaticDir     = "./static"
	defaultUploadBackend = "local"
	defaultEnvFile       = ".env"
)

// Config is the process-wide configuration read once at start.
// Values that must be re-read per request live behind Provider.
type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`
	Port     string `yaml:"port"`

	DatabaseURL string `yaml:"database_url"`
	DBDebug     bool   `yaml:"db_debug"`

	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	CookieSecure  bool          `yaml:"cookie_secure"`
	CSRFEnabled   bool          `yaml:"csrf_enabled"`
	CSRFKey       string        `yaml:"csrf_key"`

	StaticDir     string   `yaml:"static_dir"`
	UploadBackend string   `yaml:"upload_backend"`
	S3            S3Config `yaml:"s3"`
	PublicBaseURL string   `yaml:"public_base_url"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// EnvFile is the dotenv file re-read by EnvProvider and written by the
	// email settings page.
	EnvFile string `yaml:"env_file"`
}

type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	PublicURL    string `yaml:"public_url"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// Load reads the optional YAML file named by CONFIG_FILE and overlays the
// environment on top of it. The dotenv file is loaded first without
// overriding variables already present in the process.
func Load() (*Config, error) {
	envFile := strings.TrimSpace(getEnv("ENV_FILE", defaultEnvFile))
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := defaults()
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s db=%s uploads=%s csrf=%t", cfg.AppEnv, redactDSN(cfg.DatabaseURL), cfg.UploadBackend, cfg.CSRFEnabled)
	return cfg, nil
}

func defaults() (*Config, error) {
	ttl, err := time.ParseDuration(defaultSessionTTL)
	if err != nil {
		return nil, err
	}
	return &Config{
		AppEnv:        "dev",
		LogLevel:      "info",
		Port:          defaultPort,
		DatabaseURL:   defaultDatabaseURL,
		SessionSecret: defaultSessionSecret,
		SessionTTL:    ttl,
		CSRFEnabled:   true,
		CSRFKey:       defaultCSRFKey,
		StaticDir:     defaultStaticDir,
		UploadBackend: defaultUploadBackend,
		S3:            S3Config{Region: "us-east-1"},
	}, nil
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv != "" {
		cfg.AppEnv = appEnv
	}
	cfg.AppEnv = strings.ToLower(cfg.AppEnv)

	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.Port = strings.TrimSpace(getEnv("PORT", cfg.Port))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", cfg.DatabaseURL))
	cfg.DBDebug = parseBoolEnv("DB_DEBUG", cfg.DBDebug)

	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", cfg.SessionSecret))
	ttl, err := parseDurationEnv("SESSION_TTL", cfg.SessionTTL)
	if err != nil {
		return err
	}
	cfg.SessionTTL = ttl
	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", cfg.CookieSecure)
	cfg.CSRFEnabled = parseBoolEnv("CSRF_ENABLED", cfg.CSRFEnabled)
	cfg.CSRFKey = getEnv("CSRF_KEY", cfg.CSRFKey)

	cfg.StaticDir = strings.TrimSpace(getEnv("STATIC_DIR", cfg.StaticDir))
	cfg.UploadBackend = strings.ToLower(strings.TrimSpace(getEnv("UPLOAD_BACKEND", cfg.UploadBackend)))
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("PUBLIC_BASE_URL", cfg.PublicBaseURL)), "/")

	cfg.S3.Bucket = strings.TrimSpace(getEnv("S3_BUCKET", cfg.S3.Bucket))
	cfg.S3.Region = strings.TrimSpace(getEnv("S3_REGION", cfg.S3.Region))
	cfg.S3.Endpoint = strings.TrimSpace(getEnv("S3_ENDPOINT", cfg.S3.Endpoint))
	cfg.S3.AccessKey = strings.TrimSpace(getEnv("S3_ACCESS_KEY", cfg.S3.AccessKey))
	cfg.S3.SecretKey = strings.TrimSpace(getEnv("S3_SECRET_KEY", cfg.S3.SecretKey))
	cfg.S3.PublicURL = strings.TrimRight(strings.TrimSpace(getEnv("S3_PUBLIC_URL", cfg.S3.PublicURL)), "/")
	cfg.S3.UsePathStyle = parseBoolEnv("S3_USE_PATH_STYLE", cfg.S3.UsePathStyle)

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		cfg.CORSAllowedOrigins = splitList(extra)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.CSRFEnabled && len(cfg.CSRFKey) != 32 {
		return fmt.Errorf("CSRF_KEY must be exactly 32 bytes when CSRF is enabled")
	}
	switch cfg.UploadBackend {
	case "local":
	case "s3":
		if cfg.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET must be set when UPLOAD_BACKEND=s3")
		}
	default:
		return fmt.Errorf("UPLOAD_BACKEND must be one of: local, s3")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.SessionSecret, defaultSessionSecret) {
			return fmt.Errorf("in prod/release SESSION_SECRET must be set and not default")
		}
		if cfg.CSRFEnabled && isEmptyOrDefault(cfg.CSRFKey, defaultCSRFKey) {
			return fmt.Errorf("in prod/release CSRF_KEY must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

// IsProdLike reports whether the configured environment is a release one.
func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	if value == "" {
		return fallback
	}
	return parseBool(value)
}

func parseBool(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// redactDSN hides the password part of URL-style DSNs in log lines.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return dsn[:scheme+3] + creds[:colon] + ":***" + dsn[at:]
	}
	return dsn
}
