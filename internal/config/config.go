package config

import (
	"os"
	"strconv"
	"time"

	"curvas/internal/database"
	"curvas/internal/external"
	"curvas/internal/messaging"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	Database database.Config
	NATS     messaging.Config
	Payment  external.PaymentConfig
	Mailer   external.MailerConfig
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "curvas"),
			Password:           getEnv("DB_PASSWORD", "curvas123"),
			DBName:             getEnv("DB_NAME", "curvas"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "curvas"),
			ClientID:  getEnv("NATS_CLIENT_ID", "curvas-api"),
		},

		Payment: external.PaymentConfig{
			BaseURL:      getEnv("PAYMENT_GATEWAY_URL", "https://sandbox.wompi.co/v1"),
			PublicKey:    getEnv("PAYMENT_PUBLIC_KEY", ""),
			IntegrityKey: getEnv("PAYMENT_INTEGRITY_KEY", ""),
			Currency:     getEnv("PAYMENT_CURRENCY", "COP"),
			Timeout:      time.Duration(getEnvInt("PAYMENT_TIMEOUT_SEC", 30)) * time.Second,
		},

		Mailer: external.MailerConfig{
			BaseURL: getEnv("MAILER_URL", "http://localhost:8025"),
			From:    getEnv("MAILER_FROM", "tickets@curvas.local"),
			Timeout: time.Duration(getEnvInt("MAILER_TIMEOUT_SEC", 10)) * time.Second,
		},
	}
}

// getEnv reads an environment variable or returns the default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
