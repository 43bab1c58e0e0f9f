package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"PGSQL_URL": "postgres://localhost/vizinhomais"}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 2*time.Second, cfg.RedemptionLockTimeout)
	assert.Equal(t, uint(4), cfg.StorageRetryMaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.StorageRetryInitialInterval)
	assert.Equal(t, "60-M", cfg.SubmitRateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "vizinhomais", cfg.JWTIssuer)
}

func TestFromViper_Drivers(t *testing.T) {
	_, err := fromViper(newViper(nil))
	assert.Error(t, err, "postgres requires a url")

	cfg, err := fromViper(newViper(map[string]any{"DB_DRIVER": "SQLite", "SQLITE_PATH": "/tmp/ledger.db"}))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/ledger.db", cfg.SQLitePath)

	cfg, err = fromViper(newViper(map[string]any{"DB_DRIVER": "memory"}))
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DBDriver)

	_, err = fromViper(newViper(map[string]any{"DB_DRIVER": "mysql"}))
	assert.Error(t, err)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"DB_DRIVER":                      "memory",
		"REDEMPTION_LOCK_TIMEOUT":        "500ms",
		"STORAGE_RETRY_INITIAL_INTERVAL": "not-a-duration",
		"STORAGE_RETRY_MAX_ATTEMPTS":     0,
		"CORS_ALLOWED_ORIGINS":           "https://a.example, ,https://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.RedemptionLockTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.StorageRetryInitialInterval)
	assert.Equal(t, uint(1), cfg.StorageRetryMaxAttempts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}
