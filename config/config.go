package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Booking  BookingConfig  `yaml:"booking"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type GRPCConfig struct {
	// Address is optional; the gRPC listener is skipped when empty.
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	// URL wins over the discrete fields when set.
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int32  `yaml:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	// Addr is optional; flight caching is disabled when empty.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	// Brokers is optional; events are not published when empty.
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`

	// PublishTimeoutMillis bounds the event writes of one booking operation.
	PublishTimeoutMillis int `yaml:"publish_timeout_ms"`
}

func (k KafkaConfig) PublishTimeout() time.Duration {
	return time.Duration(k.PublishTimeoutMillis) * time.Millisecond
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	BcryptCost      int    `yaml:"bcrypt_cost"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

type BookingConfig struct {
	FlightsCacheTTL int `yaml:"flights_cache_ttl_seconds"`
	// EnforceCancelOwnership restricts cancelBooking to the booking's owner.
	EnforceCancelOwnership bool `yaml:"enforce_cancel_ownership"`
}

func (b BookingConfig) FlightsCacheTTLDuration() time.Duration {
	return time.Duration(b.FlightsCacheTTL) * time.Second
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// envOverrides lists the environment variables that win over the file.
type envOverrides struct {
	Port          string   `envconfig:"PORT"`
	Password      string   `envconfig:"PASSWORD"`
	DatabaseURL   string   `envconfig:"DATABASE_URL"`
	JWTSecret     string   `envconfig:"JWT_SECRET"`
	RedisAddr     string   `envconfig:"REDIS_ADDR"`
	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS"`
	LogLevel      string   `envconfig:"LOG_LEVEL"`
	StorageDriver string   `envconfig:"STORAGE_DRIVER"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Address: ":8080"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Name:     "flightbooking",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		Kafka: KafkaConfig{
			BookingEventsTopic:   "booking_events",
			NotificationsTopic:   "booking_notifications",
			GroupID:              "flightbooking-worker",
			PublishTimeoutMillis: 2000,
		},
		Auth: AuthConfig{
			TokenTTLMinutes: 60,
			BcryptCost:      12,
		},
		Booking: BookingConfig{
			FlightsCacheTTL:        30,
			EnforceCancelOwnership: true,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Log:     LogConfig{Level: "info"},
	}
}

// LoadConfig reads the YAML file at path over the defaults, then applies the
// environment overlay. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if env.Port != "" {
		host, _, err := net.SplitHostPort(c.HTTP.Address)
		if err != nil {
			host = ""
		}
		c.HTTP.Address = net.JoinHostPort(host, env.Port)
	}
	if env.Password != "" {
		c.Database.Password = env.Password
	}
	if env.DatabaseURL != "" {
		c.Database.URL = env.DatabaseURL
	}
	if env.JWTSecret != "" {
		c.Auth.JWTSecret = env.JWTSecret
	}
	if env.RedisAddr != "" {
		c.Redis.Addr = env.RedisAddr
	}
	if len(env.KafkaBrokers) > 0 {
		c.Kafka.Brokers = env.KafkaBrokers
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.StorageDriver != "" {
		c.Storage.Driver = strings.ToLower(env.StorageDriver)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (or set JWT_SECRET)")
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return errors.New("auth.token_ttl_minutes must be positive")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	return nil
}
