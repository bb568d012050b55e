package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Email      EmailConfig      `yaml:"email"`
	Push       PushConfig       `yaml:"push"`
	Organizer  OrganizerConfig  `yaml:"organizer"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// AuthConfig holds session token settings. The secret comes from the
// environment, never from the YAML file.
type AuthConfig struct {
	JWTSecret          string        `yaml:"-"`
	TokenLifetimeHours int           `yaml:"token_lifetime_hours"`
	TokenLifetime      time.Duration `yaml:"-"`
}

// EmailConfig holds outbound mail settings.
type EmailConfig struct {
	Backend     string `yaml:"backend"` // "console" or "sendgrid"
	FromName    string `yaml:"from_name"`
	FromAddress string `yaml:"from_address"`
	SendgridKey string `yaml:"-"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"-"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// OrganizerConfig holds settings for the AI event-planning assistant.
type OrganizerConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"-"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
	CallsPerDay    int           `yaml:"calls_per_day"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path and overlays secrets
// from the environment. A .env file next to the binary is honored when
// present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env file: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	// Secrets only ever come from the environment.
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.Email.SendgridKey = os.Getenv("SENDGRID_API_KEY")
	cfg.Push.PrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
	cfg.Organizer.APIKey = os.Getenv("ORGANIZER_API_KEY")

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Auth.TokenLifetimeHours <= 0 {
		cfg.Auth.TokenLifetimeHours = 24
	}
	cfg.Auth.TokenLifetime = time.Duration(cfg.Auth.TokenLifetimeHours) * time.Hour

	if cfg.Email.Backend == "" {
		cfg.Email.Backend = "console"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Organizer.TimeoutSeconds <= 0 {
		cfg.Organizer.TimeoutSeconds = 30
	}
	cfg.Organizer.Timeout = time.Duration(cfg.Organizer.TimeoutSeconds) * time.Second
	if cfg.Organizer.CallsPerDay <= 0 {
		cfg.Organizer.CallsPerDay = 5
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
