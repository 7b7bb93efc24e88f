package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moodreel/backend/internal/config"
)

var envKeys = []string{
	"CATALOG_SOURCE",
	"DATA_DIR",
	"FETCH_TIMEOUT",
	"FETCH_USER_AGENT",
	"FETCH_RESPECT_ROBOTS",
	"FETCH_ROBOTS_CACHE_DURATION",
	"RECOMMEND_DEFAULT_N",
	"RECOMMEND_MAX_N",
	"HTTP_ADDR",
	"HTTP_READ_TIMEOUT",
	"HTTP_WRITE_TIMEOUT",
	"HTTP_SHUTDOWN_TIMEOUT",
	"LOG_LEVEL",
	"TEST_STRING",
	"TEST_INT",
	"TEST_BOOL",
	"TEST_DURATION",
}

func clearEnvVars() {
	for _, key := range envKeys {
		os.Unsetenv(key)
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	clearEnvVars()

	cfg := config.Load()

	assert.Equal(t, "datasets/movies.csv", cfg.Catalog.Source)
	assert.Equal(t, "./data", cfg.Catalog.DataDir)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "moodreel/1.0", cfg.Fetch.UserAgent)
	assert.True(t, cfg.Fetch.RespectRobots)
	assert.Equal(t, 24*time.Hour, cfg.Fetch.RobotsCacheDuration)
	assert.Equal(t, 20, cfg.Recommend.DefaultN)
	assert.Equal(t, 50, cfg.Recommend.MaxN)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFromEnv(t *testing.T) {
	envVars := map[string]string{
		"CATALOG_SOURCE":       "https://example.com/movies.csv",
		"DATA_DIR":             "/var/lib/moodreel",
		"FETCH_TIMEOUT":        "5s",
		"FETCH_RESPECT_ROBOTS": "false",
		"RECOMMEND_DEFAULT_N":  "10",
		"RECOMMEND_MAX_N":      "100",
		"HTTP_ADDR":            ":9090",
		"LOG_LEVEL":            "debug",
	}
	for key, value := range envVars {
		os.Setenv(key, value)
	}
	defer clearEnvVars()

	cfg := config.Load()

	assert.Equal(t, "https://example.com/movies.csv", cfg.Catalog.Source)
	assert.Equal(t, "/var/lib/moodreel", cfg.Catalog.DataDir)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.False(t, cfg.Fetch.RespectRobots)
	assert.Equal(t, 10, cfg.Recommend.DefaultN)
	assert.Equal(t, 100, cfg.Recommend.MaxN)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestGetStringEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue string
		expected     string
	}{
		{"Existing env var", "test_value", "default", "test_value"},
		{"Empty env var", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("TEST_STRING")
			if tt.envValue != "" {
				os.Setenv("TEST_STRING", tt.envValue)
				defer os.Unsetenv("TEST_STRING")
			}
			assert.Equal(t, tt.expected, config.GetStringEnv("TEST_STRING", tt.defaultValue))
		})
	}
}

func TestGetIntEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		expected     int
	}{
		{"Valid int", "42", 10, 42},
		{"Invalid int", "not_a_number", 10, 10},
		{"Negative int", "-5", 10, -5},
		{"Zero", "0", 10, 0},
		{"Unset", "", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("TEST_INT")
			if tt.envValue != "" {
				os.Setenv("TEST_INT", tt.envValue)
				defer os.Unsetenv("TEST_INT")
			}
			assert.Equal(t, tt.expected, config.GetIntEnv("TEST_INT", tt.defaultValue))
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		expected     bool
	}{
		{"True string", "true", false, true},
		{"False string", "false", true, false},
		{"1 (true)", "1", false, true},
		{"Invalid bool", "invalid", true, true},
		{"Unset", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("TEST_BOOL")
			if tt.envValue != "" {
				os.Setenv("TEST_BOOL", tt.envValue)
				defer os.Unsetenv("TEST_BOOL")
			}
			assert.Equal(t, tt.expected, config.GetBoolEnv("TEST_BOOL", tt.defaultValue))
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{"Seconds", "5s", time.Second, 5 * time.Second},
		{"Combined", "1h30m", time.Second, 90 * time.Minute},
		{"Invalid duration", "invalid", 5 * time.Second, 5 * time.Second},
		{"Unset", "", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("TEST_DURATION")
			if tt.envValue != "" {
				os.Setenv("TEST_DURATION", tt.envValue)
				defer os.Unsetenv("TEST_DURATION")
			}
			assert.Equal(t, tt.expected, config.GetDurationEnv("TEST_DURATION", tt.defaultValue))
		})
	}
}
