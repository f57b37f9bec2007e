package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fastygo/social/internal/services"
	"github.com/fastygo/social/usecase"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageBolt     = "bolt"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Storage     StorageConfig
	JWT         JWTConfig
	Repair      RepairConfig
	Concurrency ConcurrencyConfig
	Monitor     MonitorConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxConn       int
	EnablePprof   bool
	EnableMetrics bool
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// StorageConfig selects the AggregateStore backend.
type StorageConfig struct {
	Driver   string
	BoltPath string
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// RepairConfig controls the queue of counterpart edge changes awaiting replay.
type RepairConfig struct {
	Path         string
	Bucket       string
	SyncInterval time.Duration
	BatchSize    int
	MaxRetries   int
	Retention    time.Duration

	// ReviveOnStart requeues dead-letter changes when the server starts.
	ReviveOnStart bool
}

// ConcurrencyConfig bounds the optimistic save retry loop.
type ConcurrencyConfig struct {
	SaveMaxAttempts    int
	SaveBackoffInitial time.Duration
	SaveBackoffMax     time.Duration
}

type MonitorConfig struct {
	Interval time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "social"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:          getString("SERVER_HOST", "0.0.0.0"),
			Port:          getString("SERVER_PORT", "8080"),
			ReadTimeout:   getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:   getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:       getInt("SERVER_MAX_CONN", 0),
			EnablePprof:   getBool("SERVER_ENABLE_PPROF", false),
			EnableMetrics: getBool("SERVER_ENABLE_METRICS", false),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "social_db"),
			User:            getString("DB_USER", "social_user"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getString("STORAGE_DRIVER", StoragePostgres)),
			BoltPath: getString("STORAGE_BOLT_PATH", "./data/aggregates.db"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getString("JWT_ISSUER", "social"),
			TTL:    getDuration("JWT_TTL", 24*time.Hour),
		},
		Repair: RepairConfig{
			Path:         getString("REPAIR_PATH", "./data/repairs.db"),
			Bucket:       getString("REPAIR_BUCKET", "repairs"),
			SyncInterval: getDuration("REPAIR_SYNC_INTERVAL", 30*time.Second),
			BatchSize:    getInt("REPAIR_BATCH_SIZE", 50),
			MaxRetries:   getInt("REPAIR_MAX_RETRIES", 10),
			Retention:    getDuration("REPAIR_RETENTION", 72*time.Hour),

			ReviveOnStart: getBool("REPAIR_REVIVE_ON_START", false),
		},
		Concurrency: ConcurrencyConfig{
			SaveMaxAttempts:    getInt("SAVE_MAX_ATTEMPTS", 5),
			SaveBackoffInitial: getDuration("SAVE_BACKOFF_INITIAL", 10*time.Millisecond),
			SaveBackoffMax:     getDuration("SAVE_BACKOFF_MAX", 200*time.Millisecond),
		},
		Monitor: MonitorConfig{
			Interval: getDuration("MONITOR_INTERVAL", 10*time.Second),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StoragePostgres, StorageBolt:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Environment == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET is required in production")
	}
	if c.Concurrency.SaveMaxAttempts < 1 {
		return fmt.Errorf("config: SAVE_MAX_ATTEMPTS must be positive")
	}
	return nil
}

// RetryPolicy returns the optimistic save retry settings.
func (c *Config) RetryPolicy() usecase.RetryPolicy {
	return usecase.RetryPolicy{
		MaxAttempts:     uint(c.Concurrency.SaveMaxAttempts),
		InitialInterval: c.Concurrency.SaveBackoffInitial,
		MaxInterval:     c.Concurrency.SaveBackoffMax,
	}
}

// ProcessorConfig returns the repair processor schedule.
func (c *Config) ProcessorConfig() services.ProcessorConfig {
	return services.ProcessorConfig{
		Interval:   c.Repair.SyncInterval,
		BatchSize:  c.Repair.BatchSize,
		MaxRetries: c.Repair.MaxRetries,
		Retention:  c.Repair.Retention,
	}
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
