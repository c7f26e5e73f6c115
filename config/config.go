package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPHost        string
	HTTPPort        string
	MySQLDSN        string
	BaseURL         string
	HMACSecret      string
	SessionSecret   string
	SessionTTL      time.Duration
	PasswordWorkers int
	Email           EmailConfig
}

type EmailConfig struct {
	APIURL      string
	APIKey      string
	SenderName  string
	SenderEmail string
	Timeout     time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	hmacSecret := os.Getenv("HMAC_SECRET")
	if hmacSecret == "" {
		return nil, errors.New("HMAC_SECRET environment variable is required")
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, errors.New("SESSION_SECRET environment variable is required")
	}

	emailAPIKey := os.Getenv("EMAIL_API_KEY")
	if emailAPIKey == "" {
		return nil, errors.New("EMAIL_API_KEY environment variable is required")
	}

	return &Config{
		HTTPHost:        getEnv("HTTP_HOST", ""),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MySQLDSN:        mysqlDSN,
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		HMACSecret:      hmacSecret,
		SessionSecret:   sessionSecret,
		SessionTTL:      getDurationEnv("SESSION_TTL_SECONDS", 60*time.Minute),
		PasswordWorkers: getIntEnv("PASSWORD_WORKERS", 4),
		Email: EmailConfig{
			APIURL:      getEnv("EMAIL_API_URL", "https://api.brevo.com/v3/smtp/email"),
			APIKey:      emailAPIKey,
			SenderName:  getEnv("EMAIL_SENDER_NAME", "Newsletter"),
			SenderEmail: getEnv("EMAIL_SENDER_EMAIL", "newsletter@example.com"),
			Timeout:     getDurationEnv("EMAIL_TIMEOUT_SECONDS", 10*time.Second),
		},
	}, nil
}

func (c *Config) DSN() string {
	return c.MySQLDSN
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
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
