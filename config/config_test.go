package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "")
	t.Setenv("TASK_GRACE_PERIOD", "")
	t.Setenv("MAX_LOCATION_ATTEMPTS", "")
	t.Setenv("DEFAULT_CUSTOMER_PREFIX", "")

	cfg := Load()
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
	assert.Equal(t, 30*time.Minute, cfg.TaskGracePeriod)
	assert.Equal(t, 2, cfg.MaxAttempts)
	assert.Equal(t, "CUS", cfg.CustomerPrefix)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TASK_GRACE_PERIOD", "900")
	t.Setenv("MAX_LOCATION_ATTEMPTS", "3")
	t.Setenv("DEFAULT_CUSTOMER_PREFIX", "vip")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("OFFICE_LAT", "12.97")

	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.TaskGracePeriod)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, "VIP", cfg.CustomerPrefix)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.True(t, cfg.HasOffice())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestInitDBSqlite(t *testing.T) {
	db, err := InitDB(Config{DBDriver: "sqlite", DBDSN: ":memory:", DBMaxOpenConns: 1})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestInitDBUnknownDriver(t *testing.T) {
	_, err := InitDB(Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
