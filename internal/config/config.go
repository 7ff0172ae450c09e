package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Remote store (Notion)
	NotionToken      string
	NotionDatabaseID string
	NotionBaseURL    string
	NotionVersion    string
	RemoteTimeout    time.Duration

	// Upstream origin fronted by the caching layer
	OriginURL string
	APIPrefix string

	// Cache generations: names are derived from this version so a deploy
	// bump supersedes both generations wholesale
	CacheVersion string

	// Connectivity probe
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration

	// Inbound notification webhook (optional; unverified when empty)
	NotifyWebhookSecret string

	// Observability (optional)
	SentryDSN string

	// Snapshot backup (optional, S3-compatible; disabled when bucket empty)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3Prefix    string
	// Upload a snapshot right after a successful initial sync
	SnapshotOnStart bool
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "ResTracker"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/restracker.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Remote store
		NotionToken:      envString("NOTION_TOKEN", ""),
		NotionDatabaseID: envString("NOTION_DATABASE_ID", ""),
		NotionBaseURL:    envString("NOTION_BASE_URL", "https://api.notion.com"),
		NotionVersion:    envString("NOTION_VERSION", "2022-06-28"),
		RemoteTimeout:    envDuration("REMOTE_TIMEOUT", 15*time.Second),

		// Origin
		OriginURL: envString("ORIGIN_URL", ""),
		APIPrefix: envString("API_PREFIX", "/api/"),

		// Cache
		CacheVersion: envString("CACHE_VERSION", "v3"),

		// Connectivity probe
		ProbeInterval: envDuration("PROBE_INTERVAL", 30*time.Second),
		ProbeTimeout:  envDuration("PROBE_TIMEOUT", 5*time.Second),

		// Webhook
		NotifyWebhookSecret: envString("NOTIFY_WEBHOOK_SECRET", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Snapshot backup
		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3Prefix:        envString("S3_PREFIX", "snapshots"),
		SnapshotOnStart: envBool("SNAPSHOT_ON_START", false),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures the remote store is configured for production
// deployments. Development allows running without Notion credentials, in
// which case the app serves demo data.
func validateProduction(cfg *Config) {
	if cfg.NotionToken == "" || cfg.NotionDatabaseID == "" {
		slog.Error("production deployment requires NOTION_TOKEN and NOTION_DATABASE_ID",
			"hint", "set APP_ENV=development to run locally with demo data")
		os.Exit(1)
	}
}

// StaticCacheName returns the name of the static cache generation.
func (c *Config) StaticCacheName() string {
	return "static-" + c.CacheVersion
}

// DynamicCacheName returns the name of the dynamic cache generation.
func (c *Config) DynamicCacheName() string {
	return "dynamic-" + c.CacheVersion
}

// RemoteConfigured reports whether the Notion credentials are present.
func (c *Config) RemoteConfigured() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}

// SnapshotConfigured reports whether S3 snapshot backup is enabled.
func (c *Config) SnapshotConfigured() bool {
	return c.S3Bucket != ""
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
