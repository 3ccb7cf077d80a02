package config

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:               "8080",
		LogLevel:           "info",
		DBConnectionString: "postgres://localhost:5432/myfinances",
		DBMaxOpenConns:     10,
		JWTSecret:          strings.Repeat("s", 32),
		AdminUserID:        1,
		ClerkAPIURL:        "https://api.clerk.com/v1",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing database",
			mutate:      func(c *Config) { c.DBConnectionString = "" },
			wantErr:     true,
			errorString: "DB_CONNECTION_STRING is required",
		},
		{
			name:        "short jwt secret",
			mutate:      func(c *Config) { c.JWTSecret = "short" },
			wantErr:     true,
			errorString: "JWT_SECRET must be at least 32 characters",
		},
		{
			name:        "public key not pem",
			mutate:      func(c *Config) { c.ClerkJWTPublicKey = "abc" },
			wantErr:     true,
			errorString: "CLERK_JWT_PUBLIC_KEY must be a PEM encoded public key",
		},
		{
			name:        "webhook secret without prefix",
			mutate:      func(c *Config) { c.ClerkWebhookSecret = "abc" },
			wantErr:     true,
			errorString: "CLERK_WEBHOOK_SECRET must start with 'whsec_'",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{Port: "x", LogLevel: "info", ClerkAPIURL: "https://api.clerk.com/v1", AdminUserID: 1, DBMaxOpenConns: 1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "DB_CONNECTION_STRING is required")
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestConfig_ValidateSeed(t *testing.T) {
	cfg := validConfig()
	err := cfg.ValidateSeed()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD is required")

	cfg.AdminEmail = "admin@example.com"
	cfg.AdminPassword = "secret"
	assert.NoError(t, cfg.ValidateSeed())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ADMIN_USER_ID", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CLERK_API_URL", "https://api.clerk.com/v1/")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(1), cfg.AdminUserID)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://api.clerk.com/v1", cfg.ClerkAPIURL)
}

func TestConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "DEBUG"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: ""}).SlogLevel())
}
