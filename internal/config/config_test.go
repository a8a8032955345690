package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[server]
http_port = 9090

[database]
driver = "postgres"
host = "db"
port = 5433
user = "primeauto"
password = "from-file"
dbname = "bookings"
sslmode = "disable"

[scheduler]
total_bays = 4
opening_time = "09:00"
closing_time = "18:00"
slot_interval_minutes = 15
timezone = "Asia/Colombo"

[catalog]
url = "http://storefront:5000"
timeout = 3
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	t.Setenv("PRIMEAUTO_DATABASE_PASSWORD", "from-env")
	t.Setenv("PRIMEAUTO_SCHEDULER_TOTAL_BAYS", "5")
	t.Setenv("PRIMEAUTO_JOBS_REMINDERS_ENABLED", "true")

	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout, "default kept when absent from file")
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 5, cfg.Scheduler.TotalBays)
	assert.Equal(t, "09:00", cfg.Scheduler.OpeningTime)
	assert.True(t, cfg.Jobs.RemindersEnabled)
	assert.Equal(t, "0 18 * * *", cfg.Jobs.RemindersSchedule)

	assert.Equal(t,
		"host=db port=5433 user=primeauto password=from-env dbname=bookings sslmode=disable",
		cfg.Database.DSN())
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "primeauto.db", cfg.Database.DSN())

	sched, err := cfg.Scheduler.ToSchedulerConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, sched.TotalBays)
	assert.Equal(t, 30, sched.SlotIntervalMinutes)
	assert.Equal(t, time.UTC, sched.Location)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"postgres without host", func(c *Config) { c.Database.Driver = DriverPostgres; c.Database.Host = "" }},
		{"sqlite without path", func(c *Config) { c.Database.SQLitePath = "" }},
		{"zero bays", func(c *Config) { c.Scheduler.TotalBays = 0 }},
		{"closing before opening", func(c *Config) { c.Scheduler.ClosingTime = "07:00" }},
		{"bad timezone", func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }},
		{"no catalog", func(c *Config) { c.Catalog.URL = " " }},
		{"events without exchange", func(c *Config) { c.Events.Enabled = true; c.Events.Exchange = "" }},
		{"tracing without endpoint", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.Endpoint = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestNotificationChannels(t *testing.T) {
	n := Default().Notifications
	assert.False(t, n.EmailEnabled())
	assert.False(t, n.SMSEnabled())

	n.SendGridAPIKey = "key"
	n.FromEmail = "desk@primeauto.lk"
	n.TwilioAccountSID = "AC1"
	n.TwilioAuthToken = "token"
	n.TwilioFromNumber = "+15550001111"
	assert.True(t, n.EmailEnabled())
	assert.True(t, n.SMSEnabled())
}
