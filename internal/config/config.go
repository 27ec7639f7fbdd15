package config

import (
	"fmt"
	"strings"
	"time"

	"homecare_client/pkg/utils"
)

// DatabaseConfig holds the postgres settings used by the snapshot cache.
type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SchemaPath string
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// RedisConfig holds the redis settings used by the snapshot cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config is the complete runtime configuration of the BFF.
type Config struct {
	Port string

	API struct {
		BaseURL      string
		Timeout      time.Duration
		ProbeTimeout time.Duration
		ProbePath    string
		RetryMax     int
		RetryDelay   time.Duration
	}

	Booking struct {
		CancelWindow       time.Duration
		MinLeadTime        time.Duration
		TimezoneOffsetHour int
	}

	Sweeper struct {
		Enabled      bool
		Interval     time.Duration
		ServiceToken string
	}

	JWT struct {
		Secret     string
		Expiration time.Duration
	}

	Cache struct {
		Driver string // memory, redis, postgres
		TTL    time.Duration
	}

	Database DatabaseConfig
	Redis    RedisConfig

	CORSAllowedOrigins  []string
	OfflineAccountsFile string

	Log struct {
		Level  string
		Format string
	}
}

// Location returns the fixed zone naive backend timestamps are read in.
func (c *Config) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.Booking.TimezoneOffsetHour), c.Booking.TimezoneOffsetHour*60*60)
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Port = utils.Getenv("PORT", "8080")

	cfg.API.BaseURL = strings.TrimRight(utils.Getenv("API_BASE_URL", "http://localhost:5000"), "/")
	cfg.API.Timeout = utils.GetenvDuration("API_TIMEOUT", 10*time.Second)
	cfg.API.ProbeTimeout = utils.GetenvDuration("API_PROBE_TIMEOUT", 5*time.Second)
	cfg.API.ProbePath = utils.Getenv("API_PROBE_PATH", "/api/servicetypes/GetAll")
	cfg.API.RetryMax = utils.GetenvInt("API_RETRY_MAX", 2)
	cfg.API.RetryDelay = utils.GetenvDuration("API_RETRY_DELAY", time.Second)

	cfg.Booking.CancelWindow = utils.GetenvDuration("CANCEL_WINDOW", 2*time.Hour)
	cfg.Booking.MinLeadTime = utils.GetenvDuration("MIN_BOOKING_LEAD_TIME", 3*time.Hour+10*time.Minute)
	cfg.Booking.TimezoneOffsetHour = utils.GetenvInt("APP_TIMEZONE_OFFSET_HOURS", 7)

	cfg.Sweeper.Enabled = utils.GetenvBool("SWEEPER_ENABLED", true)
	cfg.Sweeper.Interval = utils.GetenvDuration("SWEEP_INTERVAL", 15*time.Minute)
	cfg.Sweeper.ServiceToken = utils.Getenv("SWEEPER_API_TOKEN", "")

	cfg.JWT.Secret = utils.Getenv("JWT_SECRET", "")
	cfg.JWT.Expiration = utils.GetenvDuration("JWT_EXPIRATION", 72*time.Hour)

	cfg.Cache.Driver = strings.ToLower(utils.Getenv("CACHE_DRIVER", "memory"))
	cfg.Cache.TTL = utils.GetenvDuration("CACHE_TTL", 24*time.Hour)

	cfg.Database = DatabaseConfig{
		Host:       utils.Getenv("DB_HOST", "localhost"),
		Port:       utils.Getenv("DB_PORT", "5432"),
		User:       utils.Getenv("DB_USER", "homecare"),
		Password:   utils.Getenv("DB_PASSWORD", "homecare"),
		Name:       utils.Getenv("DB_NAME", "homecare_bff"),
		SSLMode:    utils.Getenv("DB_SSLMODE", "disable"),
		SchemaPath: utils.Getenv("DB_SCHEMA_PATH", ""),
	}

	cfg.Redis = RedisConfig{
		Addr:     utils.Getenv("REDIS_ADDR", "localhost:6379"),
		Password: utils.Getenv("REDIS_PASSWORD", ""),
		DB:       utils.GetenvInt("REDIS_DB", 0),
	}

	if origins := utils.Getenv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.CORSAllowedOrigins = strings.Split(origins, ",")
	} else {
		cfg.CORSAllowedOrigins = []string{"http://localhost:8081", "http://localhost:19006"}
	}
	cfg.OfflineAccountsFile = utils.Getenv("OFFLINE_ACCOUNTS_FILE", "")

	cfg.Log.Level = utils.Getenv("LOG_LEVEL", "info")
	cfg.Log.Format = utils.Getenv("LOG_FORMAT", "json")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Driver {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver)
	}
	if c.API.RetryMax < 0 {
		return fmt.Errorf("API_RETRY_MAX must not be negative, got %d", c.API.RetryMax)
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL, got %q", c.API.BaseURL)
	}
	return nil
}
