package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// clearEnv blanks every overlay variable; envconfig treats empty values as unset here.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "PASSWORD", "DATABASE_URL", "JWT_SECRET", "REDIS_ADDR", "KAFKA_BROKERS", "LOG_LEVEL", "STORAGE_DRIVER"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
http:
  address: ":9000"
grpc:
  address: ":9090"
database:
  host: db
  port: 6543
  user: app
  password: pw
  name: flights
  ssl_mode: require
redis:
  addr: "redis:6379"
kafka:
  brokers: ["kafka:9092"]
  booking_events_topic: events
auth:
  jwt_secret: s3cret
  token_ttl_minutes: 120
  bcrypt_cost: 10
booking:
  flights_cache_ttl_seconds: 5
  enforce_cancel_ownership: false
storage:
  driver: memory
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Address)
	assert.Equal(t, ":9090", cfg.GRPC.Address)
	assert.Equal(t, "host=db port=6543 user=app password=pw dbname=flights sslmode=require", cfg.Database.DSN())
	assert.Equal(t, []string{"kafka:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "events", cfg.Kafka.BookingEventsTopic)
	assert.Equal(t, "booking_notifications", cfg.Kafka.NotificationsTopic, "defaults survive partial sections")
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 5*time.Second, cfg.Booking.FlightsCacheTTLDuration())
	assert.False(t, cfg.Booking.EnforceCancelOwnership)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
}

func TestLoadConfig_MissingFileUsesDefaultsAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "4000")
	t.Setenv("PASSWORD", "db-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.HTTP.Address)
	assert.Equal(t, "db-secret", cfg.Database.Password)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL())
	assert.True(t, cfg.Booking.EnforceCancelOwnership)
	assert.Equal(t, 2*time.Second, cfg.Kafka.PublishTimeout())
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
http:
  address: "127.0.0.1:8080"
auth:
  jwt_secret: file-secret
database:
  url: postgres://file
`)
	t.Setenv("PORT", "8181")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("STORAGE_DRIVER", "MEMORY")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8181", cfg.HTTP.Address)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres://env", cfg.Database.DSN())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		expectedErr string
	}{
		{
			name:        "missing secret",
			body:        "http:\n  address: \":80\"\n",
			expectedErr: "jwt_secret",
		},
		{
			name:        "bcrypt cost too high",
			body:        "auth:\n  jwt_secret: x\n  bcrypt_cost: 99\n",
			expectedErr: "bcrypt_cost",
		},
		{
			name:        "unknown driver",
			body:        "auth:\n  jwt_secret: x\nstorage:\n  driver: mongo\n",
			expectedErr: "storage.driver",
		},
		{
			name:        "broken yaml",
			body:        "http: [",
			expectedErr: "failed to parse config",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}
