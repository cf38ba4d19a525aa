package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NewRelic  NewRelicConfig
	Log       LogConfig
	Auth      AuthConfig
	Payout    PayoutConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Format string // json or text
}

// AuthConfig holds credentials for the admin and internal job endpoints.
type AuthConfig struct {
	JWTSecret string
	JobToken  string
}

// PayoutConfig holds the driver payout fee policy.
type PayoutConfig struct {
	FixedFee         int64
	FeeRate          float64
	PenaltyPerSeat   int64
	LateCancelWindow time.Duration
}

// SchedulerConfig holds the periodic job configuration.
type SchedulerConfig struct {
	Enabled                 bool
	CompleteTripsInterval   time.Duration
	ExpireUnpaidInterval    time.Duration
	RejectPendingInterval   time.Duration
	BackfillPayoutsInterval time.Duration
	RemindersInterval       time.Duration
	LockTTL                 time.Duration
	MaxAttempts             int
	RetryBackoff            time.Duration
	NotifyTimeout           time.Duration
}

// Load loads configuration from environment variables. Values in a .env
// file in the working directory are used for variables not already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tengo_lugar"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "tengo-lugar-core"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JobToken:  getEnv("JOB_TOKEN", ""),
		},
		Payout: PayoutConfig{
			FixedFee:         getInt64Env("PAYOUT_FIXED_FEE", 0),
			FeeRate:          getFloatEnv("PAYOUT_FEE_RATE", 0.10),
			PenaltyPerSeat:   getInt64Env("PAYOUT_PENALTY_PER_SEAT", 500),
			LateCancelWindow: getDurationEnv("PAYOUT_LATE_CANCEL_WINDOW", 24*time.Hour),
		},
		Scheduler: SchedulerConfig{
			Enabled:                 getBoolEnv("SCHEDULER_ENABLED", true),
			CompleteTripsInterval:   getDurationEnv("SCHEDULER_COMPLETE_TRIPS_INTERVAL", 30*time.Minute),
			ExpireUnpaidInterval:    getDurationEnv("SCHEDULER_EXPIRE_UNPAID_INTERVAL", 30*time.Minute),
			RejectPendingInterval:   getDurationEnv("SCHEDULER_REJECT_PENDING_INTERVAL", 3*time.Hour),
			BackfillPayoutsInterval: getDurationEnv("SCHEDULER_BACKFILL_PAYOUTS_INTERVAL", 2*time.Hour),
			RemindersInterval:       getDurationEnv("SCHEDULER_REMINDERS_INTERVAL", 15*time.Minute),
			LockTTL:                 getDurationEnv("SCHEDULER_LOCK_TTL", 15*time.Minute),
			MaxAttempts:             getIntEnv("SCHEDULER_MAX_ATTEMPTS", 3),
			RetryBackoff:            getDurationEnv("SCHEDULER_RETRY_BACKOFF", 10*time.Second),
			NotifyTimeout:           getDurationEnv("NOTIFY_TIMEOUT", 5*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
