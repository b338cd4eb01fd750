package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("STORE_MODE", "")
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_TTL_HOURS", "")

	cfg := FromEnv()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StoreModeMemory, cfg.StoreMode)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "HILOSdeCALIDAD.SAC", cfg.Company.Name)
}

func TestFromEnvPostgres(t *testing.T) {
	t.Setenv("STORE_MODE", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "pos")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "hilos")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_TIMEZONE", "UTC")
	t.Setenv("TOKEN_TTL_HOURS", "2")

	cfg := FromEnv()

	assert.Equal(t, StoreModePostgres, cfg.StoreMode)
	assert.Equal(t, "host=db user=pos password=pw dbname=hilos port=6543 sslmode=disable TimeZone=UTC", cfg.Database.DSN())
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestStoreModeOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://x")
	t.Setenv("STORE_MODE", "MEMORY")

	cfg := FromEnv()

	assert.Equal(t, StoreModeMemory, cfg.StoreMode)
	assert.Equal(t, "postgres://x", cfg.Database.DSN())
}
