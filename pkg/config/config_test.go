package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars clears all schedly environment variables.
func clearEnvVars() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
		"DATABASE_URL", "SQLITE_PATH",
		"REDIS_URL", "RABBITMQ_URL", "CONSUMER_QUEUE",
		"CACHE_BACKEND", "CACHE_TTL", "CACHE_MEMORY_SIZE",
		"CACHE_BREAKER_FAILURES", "CACHE_BREAKER_TIMEOUT", "CACHE_OP_TIMEOUT",
		"WORK_START", "WORK_END",
		"OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE", "OUTBOX_MAX_RETRIES",
		"OUTBOX_STATS_INTERVAL", "OUTBOX_RETENTION_DAYS", "OUTBOX_CLEANUP_INTERVAL",
		"OUTBOX_PROCESSOR_ENABLED", "WORKER_HEALTH_ADDR",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// Application defaults
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	// No DATABASE_URL means SQLite
	assert.Empty(t, cfg.DatabaseURL)
	assert.True(t, cfg.LocalMode())

	// Cache defaults
	assert.Equal(t, CacheBackendRedis, cfg.CacheBackend)
	assert.Equal(t, 2*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 1024, cfg.CacheMemorySize)
	assert.Equal(t, 5, cfg.CacheBreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.CacheBreakerTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.CacheOpTimeout)

	assert.Equal(t, "09:00", cfg.WorkStart)
	assert.Equal(t, "18:00", cfg.WorkEnd)

	// Outbox defaults
	assert.Equal(t, 100*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.Equal(t, 14, cfg.OutboxRetentionDays)
	assert.True(t, cfg.OutboxProcessorEnabled)

	// Worker defaults
	assert.Equal(t, "schedly.recommendation-invalidation", cfg.ConsumerQueue)
	assert.Equal(t, "0.0.0.0:8081", cfg.WorkerHealthAddr)
}

func TestLoad_WithCustomEnvVars(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_FORMAT", "json")
	os.Setenv("DATABASE_URL", "postgres://schedly@localhost:5432/schedly")
	os.Setenv("CACHE_BACKEND", "Memory")
	os.Setenv("CACHE_TTL", "15m")
	os.Setenv("CACHE_MEMORY_SIZE", "64")
	os.Setenv("WORK_START", "08:30")
	os.Setenv("WORK_END", "17:30")
	os.Setenv("OUTBOX_PROCESSOR_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.LocalMode())
	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 64, cfg.CacheMemorySize)
	assert.Equal(t, "08:30", cfg.WorkStart)
	assert.Equal(t, "17:30", cfg.WorkEnd)
	assert.False(t, cfg.OutboxProcessorEnabled)
}

func TestLoad_RejectsUnknownCacheBackend(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("CACHE_BACKEND", "memcached")

	_, err := Load()
	assert.ErrorContains(t, err, "CACHE_BACKEND")
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{CacheBackend: CacheBackendNone, CacheTTL: time.Hour}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero ttl", func(c *Config) { c.CacheTTL = 0 }, true},
		{"memory without size", func(c *Config) { c.CacheBackend = CacheBackendMemory }, true},
		{"memory with size", func(c *Config) { c.CacheBackend = CacheBackendMemory; c.CacheMemorySize = 8 }, false},
		{"negative breaker failures", func(c *Config) { c.CacheBreakerFailures = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		appEnv   string
		expected bool
	}{
		{"development", true},
		{"production", false},
		{"staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.appEnv, func(t *testing.T) {
			cfg := &Config{AppEnv: tt.appEnv}
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
			assert.Equal(t, tt.appEnv == "production", cfg.IsProduction())
		})
	}
}

func TestGetIntEnv(t *testing.T) {
	value := getIntEnv("NON_EXISTENT_INT", 42)
	assert.Equal(t, 42, value)

	os.Setenv("TEST_INT", "100")
	defer os.Unsetenv("TEST_INT")
	assert.Equal(t, 100, getIntEnv("TEST_INT", 42))

	// Invalid values fall back to the default
	os.Setenv("TEST_INVALID_INT", "not-a-number")
	defer os.Unsetenv("TEST_INVALID_INT")
	assert.Equal(t, 42, getIntEnv("TEST_INVALID_INT", 42))
}

func TestGetDurationEnv(t *testing.T) {
	assert.Equal(t, 5*time.Second, getDurationEnv("NON_EXISTENT_DUR", 5*time.Second))

	os.Setenv("TEST_DUR", "10m")
	defer os.Unsetenv("TEST_DUR")
	assert.Equal(t, 10*time.Minute, getDurationEnv("TEST_DUR", 5*time.Second))

	os.Setenv("TEST_INVALID_DUR", "soon")
	defer os.Unsetenv("TEST_INVALID_DUR")
	assert.Equal(t, 5*time.Second, getDurationEnv("TEST_INVALID_DUR", 5*time.Second))
}

func TestGetBoolEnv(t *testing.T) {
	assert.True(t, getBoolEnv("NON_EXISTENT_BOOL", true))

	for _, tv := range []string{"true", "1", "TRUE"} {
		os.Setenv("TEST_BOOL", tv)
		assert.True(t, getBoolEnv("TEST_BOOL", false), "Expected true for value: %s", tv)
	}
	for _, fv := range []string{"false", "0", "FALSE"} {
		os.Setenv("TEST_BOOL", fv)
		assert.False(t, getBoolEnv("TEST_BOOL", true), "Expected false for value: %s", fv)
	}
	os.Unsetenv("TEST_BOOL")
}
