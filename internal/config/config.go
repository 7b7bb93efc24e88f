package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the recommender service
type Config struct {
	Catalog   CatalogConfig
	Fetch     FetchConfig
	Recommend RecommendConfig
	Server    ServerConfig
	LogLevel  string
}

// CatalogConfig selects where the catalog is read from
type CatalogConfig struct {
	// Source is a file path or an http(s) URL.
	Source string
	// DataDir holds snapshots of remotely fetched catalogs.
	DataDir string
}

// FetchConfig controls remote catalog downloads
type FetchConfig struct {
	Timeout             time.Duration
	UserAgent           string
	RespectRobots       bool
	RobotsCacheDuration time.Duration
}

// RecommendConfig bounds the result count accepted from callers
type RecommendConfig struct {
	DefaultN int
	MaxN     int
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Source:  GetStringEnv("CATALOG_SOURCE", "datasets/movies.csv"),
			DataDir: GetStringEnv("DATA_DIR", "./data"),
		},
		Fetch: FetchConfig{
			Timeout:             GetDurationEnv("FETCH_TIMEOUT", 30*time.Second),
			UserAgent:           GetStringEnv("FETCH_USER_AGENT", "moodreel/1.0"),
			RespectRobots:       GetBoolEnv("FETCH_RESPECT_ROBOTS", true),
			RobotsCacheDuration: GetDurationEnv("FETCH_ROBOTS_CACHE_DURATION", 24*time.Hour),
		},
		Recommend: RecommendConfig{
			DefaultN: GetIntEnv("RECOMMEND_DEFAULT_N", 20),
			MaxN:     GetIntEnv("RECOMMEND_MAX_N", 50),
		},
		Server: ServerConfig{
			Addr:            GetStringEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:     GetDurationEnv("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    GetDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: GetDurationEnv("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		LogLevel: GetStringEnv("LOG_LEVEL", "info"),
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
