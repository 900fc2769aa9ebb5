package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Site     SiteConfig     `mapstructure:"site"`
	Database DatabaseConfig `mapstructure:"database"`
	State    StateConfig    `mapstructure:"state"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Session  SessionConfig  `mapstructure:"session"`
	WebAuthn WebAuthnConfig `mapstructure:"webauthn"`
	Storage  StorageConfig  `mapstructure:"storage"`
	RSVP     RSVPConfig     `mapstructure:"rsvp"`
	Wedding  WeddingConfig  `mapstructure:"wedding"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host                    string        `mapstructure:"host"`
	Port                    int           `mapstructure:"port"`
	Mode                    string        `mapstructure:"mode"`
	ReadTimeout             time.Duration `mapstructure:"read_timeout"`
	WriteTimeout            time.Duration `mapstructure:"write_timeout"`
	GracefulShutdownTimeout time.Duration `mapstructure:"graceful_shutdown_timeout"`
	MaxUploadBytes          int64         `mapstructure:"max_upload_bytes"`
}

type SiteConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Driver      string         `mapstructure:"driver"` // "postgres" | "sqlite"
	AutoMigrate bool           `mapstructure:"auto_migrate"`
	Postgres    PostgresConfig `mapstructure:"postgres"`
	SQLite      SQLiteConfig   `mapstructure:"sqlite"`
	Redis       RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	DB              string        `mapstructure:"db"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type StateConfig struct {
	Backend string `mapstructure:"backend"` // "redis" | "memory"
}

type JWTConfig struct {
	SigningKey      string        `mapstructure:"signing_key"`
	Issuer          string        `mapstructure:"issuer"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// SessionConfig covers the auth cookies and the signed flash cookie.
type SessionConfig struct {
	Name   string `mapstructure:"name"`
	Secret string `mapstructure:"secret"`
	Secure bool   `mapstructure:"secure"`
	Domain string `mapstructure:"domain"`
}

type WebAuthnConfig struct {
	RPID          string   `mapstructure:"rp_id"`
	RPDisplayName string   `mapstructure:"rp_display_name"`
	RPOrigins     []string `mapstructure:"rp_origins"`
}

type StorageConfig struct {
	Backend       string        `mapstructure:"backend"` // "s3" | "memory"
	PublicBaseURL string        `mapstructure:"public_base_url"`
	Buckets       BucketsConfig `mapstructure:"buckets"`
	S3            S3Config      `mapstructure:"s3"`
}

type BucketsConfig struct {
	Gifts string `mapstructure:"gifts"`
	Crew  string `mapstructure:"crew"`
}

type S3Config struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	ForcePathStyle  bool   `mapstructure:"force_path_style"`
}

type RSVPConfig struct {
	PartySelection bool              `mapstructure:"party_selection"`
	MaxGuests      int               `mapstructure:"max_guests"`
	DraftTTL       time.Duration     `mapstructure:"draft_ttl"`
	PartyLinks     map[string]string `mapstructure:"party_links"`
}

// WeddingConfig is the static content of the public pages.
type WeddingConfig struct {
	Couple    string          `mapstructure:"couple"`
	Date      string          `mapstructure:"date"` // RFC 3339
	StartsAt  time.Time       `mapstructure:"-"`
	Time      string          `mapstructure:"time"`
	Venue     string          `mapstructure:"venue"`
	Address   string          `mapstructure:"address"`
	DressCode string          `mapstructure:"dress_code"`
	Timeline  []TimelineEntry `mapstructure:"timeline"`
}

type TimelineEntry struct {
	ImageURL    string `mapstructure:"image_url"`
	Caption     string `mapstructure:"caption"`
	Date        string `mapstructure:"date"`
	Description string `mapstructure:"description"`
}

type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.graceful_shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_upload_bytes", 10<<20)

	v.SetDefault("site.base_url", "http://localhost:8080")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.postgres.max_idle_conns", 5)
	v.SetDefault("database.postgres.max_open_conns", 20)
	v.SetDefault("database.postgres.conn_max_lifetime", time.Hour)
	v.SetDefault("database.sqlite.path", "wedding.db")
	v.SetDefault("database.redis.port", 6379)
	v.SetDefault("database.redis.pool_size", 10)

	v.SetDefault("state.backend", "memory")

	v.SetDefault("jwt.issuer", "wedding")
	v.SetDefault("jwt.access_token_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_token_ttl", 30*24*time.Hour)

	v.SetDefault("session.name", "wedding_flash")

	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.buckets.gifts", "gift-images")
	v.SetDefault("storage.buckets.crew", "crew-headshots")
	v.SetDefault("storage.s3.region", "us-east-1")

	v.SetDefault("rsvp.party_selection", true)
	v.SetDefault("rsvp.max_guests", 5)
	v.SetDefault("rsvp.draft_ttl", 7*24*time.Hour)

	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("cors.max_age", 12*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads an optional .env file, then config.yaml, overlays environment
// variables, and returns Config. A missing config file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	// Environment variable override: DATABASE_POSTGRES_HOST -> database.postgres.host
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.JWT.SigningKey == "" {
		return nil, errors.New("jwt.signing_key is required")
	}
	if cfg.Wedding.Date != "" {
		startsAt, err := time.Parse(time.RFC3339, cfg.Wedding.Date)
		if err != nil {
			return nil, fmt.Errorf("wedding.date: %w", err)
		}
		cfg.Wedding.StartsAt = startsAt
	}
	return cfg, nil
}
