package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
)

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "default-jwt-secret-change-me-in-production"

var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be set in release mode")

type Config struct {
	Port    string
	GinMode string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	RedisAddr     string
	RedisPassword string

	JWTSecret         string
	JWTSessionExpiry  time.Duration
	JWTResetExpiry    time.Duration
	ClientURL         string
	CORSAllowedOrigin []string

	AIProvider         string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	GeminiAPIKey       string
	AIModel            string
	AIRateLimitPerHour int

	StorageDriver   string
	StorageLocalDir string
	PublicBaseURL   string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3UseSSL        bool
	S3PublicURL     string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
}

func Load() *Config {
	port := getEnv("PORT", "5000")
	return &Config{
		Port:    port,
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "jobtracker"),
		DBPassword: getEnv("DB_PASSWORD", "jobtracker"),
		DBName:     getEnv("DB_NAME", "job_tracker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "job_tracker.db"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret:         getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTSessionExpiry:  parseDuration(getEnv("JWT_SESSION_EXPIRY", "720h"), 30*24*time.Hour),
		JWTResetExpiry:    parseDuration(getEnv("JWT_RESET_EXPIRY", "15m"), 15*time.Minute),
		ClientURL:         strings.TrimSuffix(getEnv("CLIENT_URL", "http://localhost:5173"), "/"),
		CORSAllowedOrigin: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		AIProvider:         strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		AIModel:            getEnv("AI_MODEL", ""),
		AIRateLimitPerHour: parseInt(getEnv("AI_RATE_LIMIT_PER_HOUR", ""), constants.DefaultAIRequestsPerHour),

		StorageDriver:   strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		StorageLocalDir: getEnv("STORAGE_LOCAL_DIR", "uploads"),
		PublicBaseURL:   strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3Bucket:        getEnv("S3_BUCKET", "resumes"),
		S3UseSSL:        getEnv("S3_USE_SSL", "true") == "true",
		S3PublicURL:     strings.TrimSuffix(getEnv("S3_PUBLIC_URL", ""), "/"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", ""), 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "JobTracker <no-reply@localhost>"),
	}
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Validate rejects settings that are unsafe for the current mode.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return ErrDefaultJWTSecret
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return defaultValue
	}
	return duration
}

func parseInt(value string, defaultValue int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
