package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For session lifetime

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	JWTSecret  string // JWT secret key
	RedisAddr  string // Redis server address
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment

	SessionCookie string        // Name of the session cookie
	SessionTTL    time.Duration // Lifetime of a session token

	SMTPHost string // SMTP server host, empty disables outbound mail
	SMTPPort int    // SMTP server port
	SMTPUser string // SMTP username
	SMTPPass string // SMTP password
	MailFrom string // Sender address for notifications

	NotifyDepositDecline    bool // Send a notice when a deposit is declined
	NotifyWithdrawalDecline bool // Send a notice when a withdrawal is declined

	AdminEmail    string // Admin account seeded by the migrate command
	AdminPassword string // Password of the seeded admin account
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:    getEnv("APP_PORT", "8080"),     // Application port
		DBUser:     os.Getenv("DB_USER"),           // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:     getEnv("DB_HOST", "127.0.0.1"), // Database host
		DBPort:     getEnv("DB_PORT", "3306"),      // Database port
		DBName:     os.Getenv("DB_NAME"),           // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:  getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:  os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:    redisDB,                        // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true", // Is production environment

		SessionCookie: getEnv("SESSION_COOKIE", "token"),                          // Session cookie name
		SessionTTL:    time.Duration(getInt("SESSION_TTL_HOURS", 24)) * time.Hour, // Session lifetime

		SMTPHost: os.Getenv("SMTP_HOST"),   // SMTP host
		SMTPPort: getInt("SMTP_PORT", 587), // SMTP port
		SMTPUser: os.Getenv("SMTP_USER"),   // SMTP user
		SMTPPass: os.Getenv("SMTP_PASS"),   // SMTP password
		MailFrom: getEnv("MAIL_FROM", "no-reply@localhost"),

		NotifyDepositDecline:    getBool("NOTIFY_DEPOSIT_DECLINE", false),   // Deposits stay silent unless enabled
		NotifyWithdrawalDecline: getBool("NOTIFY_WITHDRAWAL_DECLINE", true), // Withdrawals notify unless disabled

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),    // Seeded admin email
		AdminPassword: os.Getenv("ADMIN_PASSWORD"), // Seeded admin password
	}
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// getEnv returns the variable or a fallback when unset
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getInt parses an integer variable, falling back on absence or garbage
func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// getBool parses a boolean variable, falling back on absence or garbage
func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
