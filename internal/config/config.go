package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const minJWTSecretLength = 32

type Config struct {
	// HTTP Server
	Port               string
	CORSAllowedOrigins []string
	LogLevel           string

	// Database
	DBConnectionString string
	DBMaxOpenConns     int

	// Legacy credentials
	JWTSecret   string
	AdminUserID int64

	// Identity provider
	ClerkJWTPublicKey  string
	ClerkSecretKey     string
	ClerkAPIURL        string
	ClerkWebhookSecret string

	// Seed
	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
}

// Load reads the process environment, after merging an optional .env file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, continuing with system environment variables")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		LogLevel:           getEnv("LOG_LEVEL", "info"),

		DBConnectionString: getEnv("DB_CONNECTION_STRING", ""),
		DBMaxOpenConns:     getEnvInt("DB_MAX_OPEN_CONNS", 50),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		AdminUserID: int64(getEnvInt("ADMIN_USER_ID", 1)),

		ClerkJWTPublicKey:  strings.ReplaceAll(getEnv("CLERK_JWT_PUBLIC_KEY", ""), `\n`, "\n"),
		ClerkSecretKey:     getEnv("CLERK_SECRET_KEY", ""),
		ClerkAPIURL:        strings.TrimRight(getEnv("CLERK_API_URL", "https://api.clerk.com/v1"), "/"),
		ClerkWebhookSecret: getEnv("CLERK_WEBHOOK_SECRET", ""),

		AdminEmail:     getEnv("ADMIN_EMAIL", ""),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		AdminFirstName: getEnv("ADMIN_FIRST_NAME", "Admin"),
		AdminLastName:  getEnv("ADMIN_LAST_NAME", "User"),
	}
}

// Validate checks the settings the API server needs and reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBConnectionString == "" {
		errors = append(errors, "DB_CONNECTION_STRING is required")
	}
	if c.DBMaxOpenConns < 1 {
		errors = append(errors, fmt.Sprintf("invalid DB_MAX_OPEN_CONNS %d: must be at least 1", c.DBMaxOpenConns))
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	} else if len(c.JWTSecret) < minJWTSecretLength {
		errors = append(errors, fmt.Sprintf("JWT_SECRET must be at least %d characters", minJWTSecretLength))
	}

	if c.AdminUserID < 1 {
		errors = append(errors, fmt.Sprintf("invalid ADMIN_USER_ID %d: must be positive", c.AdminUserID))
	}

	if c.ClerkJWTPublicKey != "" && !strings.Contains(c.ClerkJWTPublicKey, "BEGIN PUBLIC KEY") {
		errors = append(errors, "CLERK_JWT_PUBLIC_KEY must be a PEM encoded public key")
	}
	if parsed, err := url.Parse(c.ClerkAPIURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid CLERK_API_URL '%s'", c.ClerkAPIURL))
	}
	if c.ClerkWebhookSecret != "" && !strings.HasPrefix(c.ClerkWebhookSecret, "whsec_") {
		errors = append(errors, "CLERK_WEBHOOK_SECRET must start with 'whsec_'")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// ValidateSeed checks the settings the seed tool needs on top of the database.
func (c *Config) ValidateSeed() error {
	var errors []string
	if c.DBConnectionString == "" {
		errors = append(errors, "DB_CONNECTION_STRING is required")
	}
	if c.AdminEmail == "" {
		errors = append(errors, "ADMIN_EMAIL is required")
	}
	if c.AdminPassword == "" {
		errors = append(errors, "ADMIN_PASSWORD is required")
	}
	if len(errors) > 0 {
		return fmt.Errorf("seed configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// SlogLevel maps LogLevel onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
