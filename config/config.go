package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendHTTP     = "http"
	BackendStripeGo = "stripe-go"
)

var ErrMySQLDSNRequired = errors.New("MYSQL_DSN environment variable is required")

type Config struct {
	App               AppConfig
	HTTP              ServerConfig
	GRPC              ServerConfig
	MySQL             MySQLConfig
	Log               LogConfig
	InternalEndpoints InternalEndpointsConfig
	Stripe            StripeConfig
	Cache             CacheConfig
	Jobs              JobsConfig
}

type AppConfig struct {
	ServiceName string
	APIKey      string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RequireDSN fails when no DSN was configured. Only commands that touch the
// mirror call it.
func (c MySQLConfig) RequireDSN() error {
	if c.DSN == "" {
		return ErrMySQLDSNRequired
	}
	return nil
}

type LogConfig struct {
	Level string
}

type InternalEndpointsConfig struct {
	AuthGRPCAddr string
}

type StripeConfig struct {
	SecretKey      string
	BaseURL        string
	APIVersion     string
	Backend        string
	RequestTimeout time.Duration
	ConnectAccount string
}

type CacheConfig struct {
	Size int
	TTL  time.Duration
}

type JobsConfig struct {
	PlanSyncInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	secretKey := os.Getenv("STRIPE_SECRET_KEY")
	if secretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY environment variable is required")
	}

	backend := strings.ToLower(getEnv("STRIPE_BACKEND", BackendHTTP))
	if backend != BackendHTTP && backend != BackendStripeGo {
		return nil, errors.New("STRIPE_BACKEND must be one of: http, stripe-go")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "plans-service"),
			APIKey:      getEnv("APP_API_KEY", ""),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		GRPC: ServerConfig{
			Host: getEnv("GRPC_HOST", "0.0.0.0"),
			Port: getEnv("GRPC_PORT", "9090"),
		},
		MySQL: MySQLConfig{
			DSN:             os.Getenv("MYSQL_DSN"),
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{Level: getEnv("LOG_LEVEL", "info")},
		InternalEndpoints: InternalEndpointsConfig{
			AuthGRPCAddr: getEnv("AUTH_SERVICE_GRPC_ADDR", "localhost:9090"),
		},
		Stripe: StripeConfig{
			SecretKey:      secretKey,
			BaseURL:        getEnv("STRIPE_BASE_URL", "https://api.stripe.com"),
			APIVersion:     getEnv("STRIPE_API_VERSION", ""),
			Backend:        backend,
			RequestTimeout: getSecondsEnv("STRIPE_REQUEST_TIMEOUT_SECONDS", 30*time.Second),
			ConnectAccount: getEnv("STRIPE_CONNECT_ACCOUNT", ""),
		},
		Cache: CacheConfig{
			Size: getIntEnv("PLAN_CACHE_SIZE", 256),
			TTL:  getDurationEnv("PLAN_CACHE_TTL_MINUTES", 5*time.Minute),
		},
		Jobs: JobsConfig{
			PlanSyncInterval: getDurationEnv("PLAN_SYNC_INTERVAL_MINUTES", 15*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
