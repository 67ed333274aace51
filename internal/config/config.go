package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config service configuration
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	Auth       AuthConfig       `toml:"auth"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
	RabbitMQ   RabbitMQConfig   `toml:"rabbitmq"`
	Redis      RedisConfig      `toml:"redis"`
	StoreRetry StoreRetryConfig `toml:"store_retry"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // seconds
	WriteTimeout    int `toml:"write_timeout"`    // seconds
	IdleTimeout     int `toml:"idle_timeout"`     // seconds
	ShutdownTimeout int `toml:"shutdown_timeout"` // seconds
}

type DatabaseConfig struct {
	// InMemory runs on the in-process store; nothing below is used then
	InMemory        bool   `toml:"in_memory"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN connection string for lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type SchedulingConfig struct {
	// Timezone of the business calendar, IANA name
	Timezone       string `toml:"timezone"`
	MaxAdvanceDays int    `toml:"max_advance_days"` // 0 = unlimited

	AutoConfirmEnabled   bool   `toml:"auto_confirm_enabled"`
	AutoConfirmSchedule  string `toml:"auto_confirm_schedule"` // cron expression
	AutoConfirmAfter     int    `toml:"auto_confirm_after"`    // minutes
	AutoConfirmBatchSize int    `toml:"auto_confirm_batch_size"`
	JobLockTTL           int    `toml:"job_lock_ttl"` // seconds

	RemindersEnabled  bool   `toml:"reminders_enabled"`
	RemindersSchedule string `toml:"reminders_schedule"`
}

// Location resolved Timezone
func (c SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type AuthConfig struct {
	AdminJWTSecret string `toml:"admin_jwt_secret"`
	CronSecret     string `toml:"cron_secret"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerMinute float64 `toml:"requests_per_minute"`
	Burst             int     `toml:"burst"`
	ClientTTL         int     `toml:"client_ttl"` // seconds an idle client's limiter is kept
}

type RabbitMQConfig struct {
	Enabled          bool   `toml:"enabled"`
	URL              string `toml:"url"`
	DialTimeout      int    `toml:"dial_timeout"`       // seconds
	RetryMaxInterval int    `toml:"retry_max_interval"` // seconds between dial attempts while the broker is down, at most
}

type RedisConfig struct {
	Enabled   bool   `toml:"enabled"`
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

type StoreRetryConfig struct {
	MaxRetries      int `toml:"max_retries"`
	InitialInterval int `toml:"initial_interval"` // milliseconds
	MaxInterval     int `toml:"max_interval"`     // milliseconds
}

// envOverrides secrets and deploy-specific values taken from the environment
type envOverrides struct {
	CronSecret     string `envconfig:"CRON_SECRET"`
	AdminJWTSecret string `envconfig:"ADMIN_JWT_SECRET"`
	DBHost         string `envconfig:"DB_HOST"`
	DBPassword     string `envconfig:"DB_PASSWORD"`
	RabbitMQURL    string `envconfig:"RABBITMQ_URL"`
	RedisAddr      string `envconfig:"REDIS_ADDR"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	HTTPPort       int    `envconfig:"HTTP_PORT"`
}

// Load reads the TOML file, then .env (if present), then the environment
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "booking-service",
		},
		Scheduling: SchedulingConfig{
			Timezone:             "Asia/Seoul",
			AutoConfirmSchedule:  "0 * * * *",
			AutoConfirmAfter:     24 * 60,
			AutoConfirmBatchSize: 100,
			JobLockTTL:           300,
			RemindersSchedule:    "0 18 * * *",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 10,
			Burst:             5,
			ClientTTL:         600,
		},
		RabbitMQ: RabbitMQConfig{
			DialTimeout:      3,
			RetryMaxInterval: 60,
		},
		Redis: RedisConfig{KeyPrefix: "booking-service:"},
		StoreRetry: StoreRetryConfig{
			MaxRetries:      3,
			InitialInterval: 50,
			MaxInterval:     1000,
		},
	}
}

func (c *Config) applyEnv(env envOverrides) {
	if env.CronSecret != "" {
		c.Auth.CronSecret = env.CronSecret
	}
	if env.AdminJWTSecret != "" {
		c.Auth.AdminJWTSecret = env.AdminJWTSecret
	}
	if env.DBHost != "" {
		c.Database.Host = env.DBHost
	}
	if env.DBPassword != "" {
		c.Database.Password = env.DBPassword
	}
	if env.RabbitMQURL != "" {
		c.RabbitMQ.URL = env.RabbitMQURL
	}
	if env.RedisAddr != "" {
		c.Redis.Addr = env.RedisAddr
	}
	if env.RedisPassword != "" {
		c.Redis.Password = env.RedisPassword
	}
	if env.HTTPPort != 0 {
		c.Server.HTTPPort = env.HTTPPort
	}
}

// Validate checks values that would otherwise fail at first use
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port: invalid port %d", c.Server.HTTPPort)
	}
	if !c.Database.InMemory && c.Database.DBName == "" {
		return errors.New("database.dbname is required unless database.in_memory is set")
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("scheduling.timezone: %w", err)
	}
	if c.Scheduling.MaxAdvanceDays < 0 {
		return errors.New("scheduling.max_advance_days must not be negative")
	}
	if c.Scheduling.AutoConfirmAfter <= 0 {
		return errors.New("scheduling.auto_confirm_after must be positive")
	}
	if c.Auth.AdminJWTSecret == "" {
		return errors.New("auth.admin_jwt_secret (or ADMIN_JWT_SECRET) is required")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate_limit: requests_per_minute and burst must be positive")
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return errors.New("rabbitmq.url (or RABBITMQ_URL) is required when rabbitmq is enabled")
	}
	if c.RabbitMQ.DialTimeout <= 0 || c.RabbitMQ.RetryMaxInterval <= 0 {
		return errors.New("rabbitmq.dial_timeout and rabbitmq.retry_max_interval must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr (or REDIS_ADDR) is required when redis is enabled")
	}
	return nil
}

// AutoConfirmAfterDuration minimum age of a pending booking before the job confirms it
func (c SchedulingConfig) AutoConfirmAfterDuration() time.Duration {
	return time.Duration(c.AutoConfirmAfter) * time.Minute
}

// JobLockTTLDuration lease of the batch jobs
func (c SchedulingConfig) JobLockTTLDuration() time.Duration {
	return time.Duration(c.JobLockTTL) * time.Second
}
