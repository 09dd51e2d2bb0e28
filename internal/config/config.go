package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ServiceName = "inventory-service"

	defaultHTTPAddr      = ":8081"
	defaultClientTimeout = 5 * time.Second
	defaultRetryAttempts = 3
	defaultRetryDelay    = 2 * time.Second
)

// Store backends.
const (
	BackendMySQL = "mysql"
	BackendRedis = "redis"
)

// Config holds the environment-specific settings of the service.
type Config struct {
	Env      string
	HTTPAddr string

	// Inbound API keys accepted by the authentication middleware.
	APIKeys []string

	// Remote product catalog (MS1).
	ProductServiceURL    string
	ProductServiceAPIKey string
	ClientTimeout        time.Duration
	ClientRetryAttempts  int
	ClientRetryDelay     time.Duration

	// Storage.
	StoreBackend string
	MySQLDSN     string
	RedisAddr    string
}

// Load reads configuration from environment variables and validates the
// required ones.
func Load() (*Config, error) {
	cfg := &Config{
		Env:                  getenvDefault("ENV", "dev"),
		HTTPAddr:             getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		ProductServiceURL:    strings.TrimRight(os.Getenv("PRODUCT_SERVICE_URL"), "/"),
		ProductServiceAPIKey: os.Getenv("PRODUCT_SERVICE_API_KEY"),
		ClientTimeout:        getenvDuration("PRODUCT_CLIENT_TIMEOUT", defaultClientTimeout),
		ClientRetryAttempts:  getenvInt("PRODUCT_CLIENT_RETRIES", defaultRetryAttempts),
		ClientRetryDelay:     getenvDuration("PRODUCT_CLIENT_RETRY_DELAY", defaultRetryDelay),
		StoreBackend:         getenvDefault("STORE_BACKEND", BackendMySQL),
		MySQLDSN:             getenvDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/inventory?parseTime=true"),
		RedisAddr:            getenvDefault("REDIS_ADDR", "localhost:6379"),
	}

	for _, key := range strings.Split(os.Getenv("API_KEYS"), ",") {
		if key = strings.TrimSpace(key); key != "" {
			cfg.APIKeys = append(cfg.APIKeys, key)
		}
	}

	if cfg.ProductServiceURL == "" {
		return nil, fmt.Errorf("PRODUCT_SERVICE_URL environment variable is required")
	}
	if cfg.ProductServiceAPIKey == "" {
		return nil, fmt.Errorf("PRODUCT_SERVICE_API_KEY environment variable is required")
	}
	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("API_KEYS environment variable is required")
	}
	if cfg.StoreBackend != BackendMySQL && cfg.StoreBackend != BackendRedis {
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
