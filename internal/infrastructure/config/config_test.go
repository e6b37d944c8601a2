package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "finledger", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "finledger", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	})

	t.Run("ledger defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 500, cfg.Ledger.BatchSize)
		assert.Equal(t, 3, cfg.Ledger.RetryMaxAttempts)
		assert.Equal(t, 50*time.Millisecond, cfg.Ledger.RetryInitialInterval)
		assert.Equal(t, time.Second, cfg.Ledger.RetryMaxInterval)
		assert.Equal(t, 5*time.Second, cfg.Ledger.LockTTL)
		assert.Equal(t, 2*time.Second, cfg.Ledger.LockWait)
		assert.Equal(t, "INR", cfg.Ledger.BaseCurrency)
		assert.Equal(t, "X-User-ID", cfg.HTTP.ActorHeader)
		assert.Equal(t, "system", cfg.HTTP.DefaultActorID)
	})

	t.Run("loads values from environment variables with FINLEDGER prefix", func(t *testing.T) {
		t.Setenv("FINLEDGER_APP_PORT", "9000")
		t.Setenv("FINLEDGER_DATABASE_DRIVER", "sqlite")
		t.Setenv("FINLEDGER_DATABASE_PATH", ":memory:")
		t.Setenv("FINLEDGER_LEDGER_BATCH_SIZE", "250")
		t.Setenv("FINLEDGER_LEDGER_LOCK_WAIT", "500ms")
		t.Setenv("FINLEDGER_REDIS_ENABLED", "true")
		t.Setenv("FINLEDGER_STORAGE_ENABLED", "true")
		t.Setenv("FINLEDGER_STORAGE_BUCKET", "ledger-audit")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, ":memory:", cfg.Database.DSN())
		assert.Equal(t, 250, cfg.Ledger.BatchSize)
		assert.Equal(t, 500*time.Millisecond, cfg.Ledger.LockWait)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "ledger-audit", cfg.Storage.Bucket)
		assert.Equal(t, "audit", cfg.Storage.Prefix)
	})

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "unknown driver",
			env:  map[string]string{"FINLEDGER_DATABASE_DRIVER": "mysql"},
			want: "database.driver must be postgres or sqlite",
		},
		{
			name: "idle conns above open conns",
			env: map[string]string{
				"FINLEDGER_DATABASE_MAX_OPEN_CONNS": "10",
				"FINLEDGER_DATABASE_MAX_IDLE_CONNS": "20",
			},
			want: "cannot exceed database.max_open_conns",
		},
		{
			name: "negative idle conns",
			env:  map[string]string{"FINLEDGER_DATABASE_MAX_IDLE_CONNS": "-1"},
			want: "max_idle_conns cannot be negative",
		},
		{
			name: "negative batch size",
			env:  map[string]string{"FINLEDGER_LEDGER_BATCH_SIZE": "-5"},
			want: "ledger.batch_size must be positive",
		},
		{
			name: "retry intervals inverted",
			env: map[string]string{
				"FINLEDGER_LEDGER_RETRY_INITIAL_INTERVAL": "2s",
				"FINLEDGER_LEDGER_RETRY_MAX_INTERVAL":     "1s",
			},
			want: "ledger.retry_initial_interval",
		},
		{
			name: "lock wait longer than ttl",
			env:  map[string]string{"FINLEDGER_LEDGER_LOCK_WAIT": "10s"},
			want: "ledger.lock_wait",
		},
		{
			name: "archive without bucket",
			env:  map[string]string{"FINLEDGER_STORAGE_ENABLED": "true"},
			want: "storage.bucket is required",
		},
		{
			name: "sampling ratio out of range",
			env:  map[string]string{"FINLEDGER_TELEMETRY_SAMPLING_RATIO": "1.5"},
			want: "telemetry.sampling_ratio",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("FINLEDGER_APP_ENV", "production")
		t.Setenv("FINLEDGER_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FINLEDGER_DATABASE_SSLMODE", "require")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FINLEDGER_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FINLEDGER_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects sqlite in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FINLEDGER_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sqlite is not allowed in production")
	})

	t.Run("rejects full SQL logging in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("FINLEDGER_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql must be false")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("sqlite uses the file path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "sqlite", Path: "/var/lib/finledger/ledger.db"}
		assert.Equal(t, "/var/lib/finledger/ledger.db", cfg.DSN())
	})
}
