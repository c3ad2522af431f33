package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("ACCESS_TOKEN_SECRET", "")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "socialhub", cfg.MongoDatabase)
	assert.Equal(t, EventsNone, cfg.EventsDriver)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, time.Duration(0), cfg.TokenTTL)
	assert.NotEmpty(t, cfg.TokenSecret)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("DATABASE_DSN", "file:social.db")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("EVENTS_DRIVER", "nats")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "file:social.db", cfg.DatabaseDSN)
	assert.Equal(t, "s3cret", cfg.TokenSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, EventsNATS, cfg.EventsDriver)
}

func TestLoad_Rejects(t *testing.T) {
	t.Run("missing secret outside local", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("ACCESS_TOKEN_SECRET", "")
		_, err := load(viper.New())
		assert.ErrorContains(t, err, "ACCESS_TOKEN_SECRET")
	})

	t.Run("unknown store", func(t *testing.T) {
		t.Setenv("APP_ENV", "local")
		t.Setenv("STORE_DRIVER", "cassandra")
		_, err := load(viper.New())
		assert.ErrorContains(t, err, "STORE_DRIVER")
	})

	t.Run("sql store without dsn", func(t *testing.T) {
		t.Setenv("APP_ENV", "local")
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DATABASE_DSN", "")
		_, err := load(viper.New())
		assert.ErrorContains(t, err, "DATABASE_DSN")
	})
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socialhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT: \":9090\"\nMONGODB_DATABASE: feedtest\n"), 0o600))
	t.Setenv("APP_ENV", "local")
	t.Setenv("CONFIG_FILE", path)

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "feedtest", cfg.MongoDatabase)
}
