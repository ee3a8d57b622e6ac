package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Nixie-Tech-LLC/venues/internal/assets"
)

const (
	SourceAsset = "asset"
	SourceDB    = "db"
)

// Config holds environment-based settings
type Config struct {
	Environment   string
	LogLevel      string
	ServerAddress string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string

	CatalogSource    string
	CatalogName      string
	PlaceholderImage string
	CatalogMirror    bool
	CatalogWatch     bool
	AssetsDir        string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string

	DatabaseURL    string
	MigrationsPath string

	RedisAddress  string
	RedisUsername string
	RedisPassword string
	ImageCacheTTL time.Duration

	MQTTBrokerURL string
	MQTTTopic     string

	ImageFetchTimeout time.Duration
}

// AdminEnabled reports whether admin credentials were configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPasswordHash != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:   getenv("APP_ENV"),
		LogLevel:      withDefault(getenv("LOG_LEVEL"), "info"),
		ServerAddress: withDefault(getenv("SERVER_ADDRESS"), ":8080"),

		JWTSecret:         getenv("JWT_SECRET"),
		AdminUsername:     getenv("ADMIN_USERNAME"),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH"),

		CatalogSource:    withDefault(getenv("CATALOG_SOURCE"), SourceAsset),
		CatalogName:      withDefault(getenv("CATALOG_NAME"), assets.CatalogName),
		PlaceholderImage: withDefault(getenv("PLACEHOLDER_IMAGE"), assets.PlaceholderName),
		AssetsDir:        getenv("ASSETS_DIR"),

		UseSpaces:       getenv("USE_SPACES") == "true",
		SpacesEndpoint:  getenv("SPACES_ENDPOINT"),
		SpacesRegion:    getenv("SPACES_REGION"),
		SpacesBucket:    getenv("SPACES_BUCKET"),
		SpacesCDNURL:    getenv("SPACES_CDN_URL"),
		SpacesAccessKey: getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: getenv("SPACES_SECRET_KEY"),

		DatabaseURL:    getenv("DATABASE_URL"),
		MigrationsPath: withDefault(getenv("MIGRATIONS_PATH"), "./migrations"),

		RedisAddress:  getenv("REDIS_ADDRESS"),
		RedisUsername: getenv("REDIS_USERNAME"),
		RedisPassword: getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: getenv("MQTT_BROKER_URL"),
		MQTTTopic:     getenv("MQTT_TOPIC"),
	}

	var err error
	if cfg.CatalogMirror, err = parseBool("CATALOG_MIRROR", getenv("CATALOG_MIRROR")); err != nil {
		return nil, err
	}
	if cfg.CatalogWatch, err = parseBool("CATALOG_WATCH", getenv("CATALOG_WATCH")); err != nil {
		return nil, err
	}
	if cfg.ImageCacheTTL, err = parseDuration("IMAGE_CACHE_TTL", getenv("IMAGE_CACHE_TTL"), 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ImageFetchTimeout, err = parseDuration("IMAGE_FETCH_TIMEOUT", getenv("IMAGE_FETCH_TIMEOUT"), 10*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.CatalogSource {
	case SourceAsset, SourceDB:
	default:
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", SourceAsset, SourceDB, c.CatalogSource)
	}
	if (c.CatalogSource == SourceDB || c.CatalogMirror) && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when CATALOG_SOURCE=db or CATALOG_MIRROR=true")
	}
	if c.CatalogSource == SourceDB && c.CatalogMirror {
		return fmt.Errorf("CATALOG_MIRROR cannot be used with CATALOG_SOURCE=db")
	}
	if c.CatalogWatch && (c.AssetsDir == "" || c.CatalogSource != SourceAsset) {
		return fmt.Errorf("CATALOG_WATCH requires ASSETS_DIR and CATALOG_SOURCE=asset")
	}
	if (c.AdminUsername == "") != (c.AdminPasswordHash == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD_HASH must be set together")
	}
	if c.AdminEnabled() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when admin credentials are set")
	}
	if c.UseSpaces {
		if c.SpacesBucket == "" || c.SpacesEndpoint == "" || c.SpacesAccessKey == "" || c.SpacesSecretKey == "" {
			return fmt.Errorf("USE_SPACES requires SPACES_BUCKET, SPACES_ENDPOINT, SPACES_ACCESS_KEY and SPACES_SECRET_KEY")
		}
		if c.AssetsDir != "" {
			return fmt.Errorf("ASSETS_DIR and USE_SPACES are mutually exclusive")
		}
	}
	return nil
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func parseBool(key, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
