package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DB_DRIVER", "OPEN_HOUR", "CLOSE_HOUR", "TOTAL_TABLES", "SEATS_PER_TABLE", "LOCK_WAIT", "TIMEZONE"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 18, cfg.OpenHour)
	assert.Equal(t, 23, cfg.CloseHour)
	assert.Equal(t, 10, cfg.TotalTables)
	assert.Equal(t, 4, cfg.SeatsPerTable)
	assert.Equal(t, 5*time.Second, cfg.LockWait)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("OPEN_HOUR", "12")
	t.Setenv("CLOSE_HOUR", "22")
	t.Setenv("TOTAL_TABLES", "3")
	t.Setenv("LOCK_WAIT", "250ms")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("TIMEZONE", "UTC")

	cfg := LoadConfig()
	assert.Equal(t, 12, cfg.OpenHour)
	assert.Equal(t, 3, cfg.TotalTables)
	assert.Equal(t, 250*time.Millisecond, cfg.LockWait)
	assert.Equal(t, 0, cfg.RedisDB)

	bc, err := cfg.Booking()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, bc.Location)
	assert.Equal(t, 22, bc.CloseHour)
}

func TestBookingRejectsBadValues(t *testing.T) {
	cfg := &Config{OpenHour: 20, CloseHour: 18, TotalTables: 1, SeatsPerTable: 1, Timezone: "UTC"}
	_, err := cfg.Booking()
	assert.Error(t, err)

	cfg = &Config{OpenHour: 18, CloseHour: 23, TotalTables: 1, SeatsPerTable: 1, Timezone: "Nowhere/Never"}
	_, err = cfg.Booking()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBUser: "app", DBPassword: "pw", DBHost: "db", DBName: "restaurant"}
	assert.Equal(t, "app:pw@tcp(db:3306)/restaurant?parseTime=true&loc=UTC", cfg.DSN())

	cfg.DBDriver = "postgres"
	cfg.DBSSLMode = "disable"
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=restaurant sslmode=disable", cfg.DSN())
}
