package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string // "sqlite", "postgres" or "mysql"
	DatabasePath   string // sqlite only
	DatabaseURL    string // postgres/mysql connection string
	MigrationsPath string

	// Teacher dashboard auth
	TokenSecret       string
	TokenDuration     time.Duration
	TeacherAccessCode string // hashed at startup; empty disables code login

	// Optional Google sign-in for the dashboard
	GoogleClientID       string
	GoogleClientSecret   string
	OAuthRedirectBaseURL string

	// Class report email (Amazon SES)
	AWSRegion       string
	SESFromEmail    string
	SESFromName     string
	ReportRecipient string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./spellquiz.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		TokenSecret:       getEnv("TOKEN_SECRET", ""),
		TokenDuration:     time.Duration(getEnvInt("TOKEN_DURATION_HOURS", 12)) * time.Hour,
		TeacherAccessCode: getEnv("TEACHER_ACCESS_CODE", ""),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		OAuthRedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", ""),

		AWSRegion:       getEnv("AWS_REGION", "eu-west-2"),
		SESFromEmail:    getEnv("SES_FROM_EMAIL", ""),
		SESFromName:     getEnv("SES_FROM_NAME", "Spelling Assessment"),
		ReportRecipient: getEnv("REPORT_RECIPIENT", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
