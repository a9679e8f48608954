package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8000", cfg.AppPort)
	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, DefaultSecretKey, cfg.SecretKey)
	assert.Equal(t, "HS256", cfg.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 5, cfg.AuthRateLimit)
	assert.Equal(t, time.Minute, cfg.AuthRateWindow)
	assert.Empty(t, cfg.RedisAddr)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"APP_PORT":                    "9090",
		"SECRET_KEY":                  "s3cr3t",
		"ALGORITHM":                   "hs512",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "5",
		"BCRYPT_COST":                 "4",
		"REDIS_ADDR":                  "localhost:6379",
		"REDIS_DB":                    "2",
		"CORS_ALLOW_ORIGINS":          "http://a.test, http://b.test,",
		"AUTO_MIGRATE":                "false",
		"LOG_JSON":                    "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.Equal(t, "HS512", cfg.Algorithm)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.False(t, cfg.AutoMigrate)
	assert.True(t, cfg.LogJSON)
}

func TestFromEnv_Invalid(t *testing.T) {
	_, err := FromEnv(env(map[string]string{
		"ALGORITHM":                   "RS256",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "-1",
		"BCRYPT_COST":                 "99",
		"AUTO_MIGRATE":                "maybe",
		"CORS_ALLOW_ORIGINS":          "localhost:3000",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ALGORITHM")
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_EXPIRE_MINUTES")
	assert.Contains(t, err.Error(), "BCRYPT_COST")
	assert.Contains(t, err.Error(), "AUTO_MIGRATE")
	assert.Contains(t, err.Error(), "CORS_ALLOW_ORIGINS")
}

func TestFromEnv_ProductionRejectsDefaults(t *testing.T) {
	_, err := FromEnv(env(map[string]string{"APP_ENV": "production"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
	assert.Contains(t, err.Error(), "DATABASE_URL")

	cfg, err := FromEnv(env(map[string]string{
		"APP_ENV":      "production",
		"SECRET_KEY":   "prod-secret",
		"DATABASE_URL": "postgres://db/prod",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
