package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Environment   string
	Port          string
	DatabaseURL   string
	JWTSecret     string
	JWTExpiration int
	BaseURL       string

	// File Upload Configuration
	StorageBackend    string // "local" or "gdrive"
	UploadPath        string
	MaxFileSize       int64
	AllowedExtensions []string

	// Google Drive Storage Configuration
	GoogleDriveClientID     string
	GoogleDriveClientSecret string
	GoogleDriveRefreshToken string
	GoogleDriveFolderID     string

	// Email Configuration (SendGrid)
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	// Rate Limiting Configuration
	RateLimitRequests int
	RateLimitWindow   int

	// CORS Configuration
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "sokoni.db"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiration: getEnvAsInt("JWT_EXPIRATION", 24*60*60), // 24 hours in seconds
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),

		StorageBackend:    getEnv("STORAGE_BACKEND", "local"),
		UploadPath:        getEnv("UPLOAD_PATH", "./uploads"),
		MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 5*1024*1024), // 5MB
		AllowedExtensions: getEnvAsSlice("ALLOWED_EXTENSIONS", []string{"jpg", "jpeg", "png", "gif", "webp"}),

		GoogleDriveClientID:     getEnv("GOOGLE_DRIVE_CLIENT_ID", ""),
		GoogleDriveClientSecret: getEnv("GOOGLE_DRIVE_CLIENT_SECRET", ""),
		GoogleDriveRefreshToken: getEnv("GOOGLE_DRIVE_REFRESH_TOKEN", ""),
		GoogleDriveFolderID:     getEnv("GOOGLE_DRIVE_FOLDER_ID", ""),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "orders@sokoni.dev"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "Sokoni"),

		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 1000),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60), // seconds

		AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8080",
		}),
	}
}

// getEnv gets an environment variable with a fallback default
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a fallback default
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as an int64 with a fallback default
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsSlice gets an environment variable as a comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
