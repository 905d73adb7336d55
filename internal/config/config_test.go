package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Duration(0), cfg.PendingOrderTTL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.True(t, cfg.IsDevelopment())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"APP_ENV":              "production",
		"PORT":                 "9090",
		"DB_DSN":               "shop:secret@tcp(db:3306)/shop?charset=utf8mb4",
		"JWT_SECRET":           "0123456789abcdef0123456789abcdef",
		"JWT_TTL":              "1h",
		"CORS_ALLOWED_ORIGINS": "https://shop.example, https://admin.example",
		"PENDING_ORDER_TTL":    "48h",
		"SWEEP_INTERVAL":       "10m",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "shop:secret@tcp(db:3306)/shop?charset=utf8mb4&parseTime=true", cfg.DBDSN)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 48*time.Hour, cfg.PendingOrderTTL)
	assert.False(t, cfg.IsDevelopment())
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown env", map[string]string{"APP_ENV": "staging"}},
		{"production without secret", map[string]string{"APP_ENV": "production"}},
		{"short production secret", map[string]string{"APP_ENV": "production", "JWT_SECRET": "short"}},
		{"bad duration", map[string]string{"JWT_TTL": "forever"}},
		{"bad int", map[string]string{"DB_MAX_OPEN_CONNS": "many"}},
		{"zero pool", map[string]string{"DB_MAX_OPEN_CONNS": "0"}},
		{"negative ttl", map[string]string{"PENDING_ORDER_TTL": "-1h"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envFrom(tt.env))
			assert.Error(t, err)
		})
	}
}
