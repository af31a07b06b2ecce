package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Stripe   StripeConfig
	Fiken    FikenConfig
	Sync     SyncConfig
	Progress ProgressConfig
	Redis    RedisConfig
	MySQL    MySQLConfig
}

type StripeConfig struct {
	APIKey  string
	BaseURL string
}

type FikenConfig struct {
	APIToken         string
	CompanySlug      string
	BaseURL          string
	PaymentAccount   string
	SubmitAttempts   int
	SubmitRetryDelay time.Duration
}

type SyncConfig struct {
	StartDate    string // YYYY-MM-DD, inclusive lower bound for charge discovery
	VATThreshold int64  // registration threshold in minor currency units
	VATRate      float64
	HTTPTimeout  time.Duration
	DryRun       bool
	ArchiveDir   string
}

type ProgressConfig struct {
	Backend string // file | redis | mysql
	File    string
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	PoolSize  int
	KeyPrefix string
}

type MySQLConfig struct {
	Host     string
	User     string
	Password string
	Database string
}

func Load() *Config {
	return &Config{
		Stripe: StripeConfig{
			APIKey:  getEnv("STRIPE_API_KEY", ""),
			BaseURL: getEnv("STRIPE_BASE_URL", "https://api.stripe.com/v1"),
		},
		Fiken: FikenConfig{
			APIToken:         getEnv("FIKEN_API_TOKEN", ""),
			CompanySlug:      getEnv("FIKEN_COMPANY_SLUG", ""),
			BaseURL:          getEnv("FIKEN_BASE_URL", "https://api.fiken.no/api/v2"),
			PaymentAccount:   getEnv("FIKEN_PAYMENT_ACCOUNT", "1960:10001"),
			SubmitAttempts:   getEnvAsInt("SUBMIT_MAX_ATTEMPTS", 3),
			SubmitRetryDelay: getEnvAsDuration("SUBMIT_RETRY_DELAY", 3*time.Second),
		},
		Sync: SyncConfig{
			StartDate:    getEnv("SYNC_START_DATE", "2024-06-20"),
			VATThreshold: getEnvAsInt64("VAT_THRESHOLD", 0),
			VATRate:      getEnvAsFloat("VAT_RATE", 0.25),
			HTTPTimeout:  getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
			DryRun:       getEnvAsBool("DRY_RUN", false),
			ArchiveDir:   getEnv("ARCHIVE_DIR", "charge_dumps"),
		},
		Progress: ProgressConfig{
			Backend: getEnv("PROGRESS_BACKEND", "file"),
			File:    getEnv("PROGRESS_FILE", "checkpoint.json"),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			PoolSize:  getEnvAsInt("REDIS_POOL_SIZE", 10),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "fiken-sync"),
		},
		MySQL: MySQLConfig{
			Host:     getEnv("MYSQL_HOST", "localhost:3306"),
			User:     getEnv("MYSQL_USER", "fikensync"),
			Password: getEnv("MYSQL_PASSWORD", ""),
			Database: getEnv("MYSQL_DATABASE", "fikensync"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
