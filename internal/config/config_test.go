package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"DB_DSN", "TELEGRAM_TOKEN", "ENV", "LOG_LEVEL", "SOURCE_PATH", "REIMPORT_INTERVAL", "HTTP_ADDR",
	"COURSE_COLUMN", "INSTRUCTOR_COLUMN", "SEMESTER_START", "SEMESTER_WEEKS", "TIMEZONE", "NORMALIZE_WORKERS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.ReimportInterval)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "Course Name/Group Name", cfg.CourseColumn)
	assert.Equal(t, "Instructor", cfg.InstructorColumn)
	assert.Equal(t, 16, cfg.SemesterWeeks)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.SemesterStart.IsZero())
	assert.Equal(t, time.UTC, cfg.Location)

	assert.ErrorIs(t, cfg.RequireDB(), ErrNoDBDSN)
	assert.ErrorIs(t, cfg.RequireBot(), ErrNoDBDSN)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/timetable")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SOURCE_PATH", "/data/schedule.csv")
	t.Setenv("REIMPORT_INTERVAL", "0")
	t.Setenv("SEMESTER_START", "2026-01-05")
	t.Setenv("SEMESTER_WEEKS", "14")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("NORMALIZE_WORKERS", "8")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/data/schedule.csv", cfg.SourcePath)
	assert.Zero(t, cfg.ReimportInterval)
	assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), cfg.SemesterStart)
	assert.Equal(t, 14, cfg.SemesterWeeks)
	assert.Equal(t, 8, cfg.Workers)

	assert.NoError(t, cfg.RequireDB())
	assert.ErrorIs(t, cfg.RequireBot(), ErrNoTelegramToken)

	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.NoError(t, cfg.RequireBot())
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "REIMPORT_INTERVAL", value: "daily"},
		{key: "REIMPORT_INTERVAL", value: "-1h"},
		{key: "SEMESTER_WEEKS", value: "zero"},
		{key: "SEMESTER_WEEKS", value: "0"},
		{key: "SEMESTER_START", value: "05.01.2026"},
		{key: "TIMEZONE", value: "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TIMEZONE", "UTC")
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
