package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config, err := NewConfig(writeConfig(t, "users: []\n"))
		require.NoError(t, err)
		require.Equal(t, "WARN", config.Logger.Level)
		require.Equal(t, 7, config.Organizer.UpcomingDays)
		require.Empty(t, config.Events)
	})

	t.Run("seed data", func(t *testing.T) {
		config, err := NewConfig(writeConfig(t, `
organizer:
  upcomingDays: 14
users:
  - username: admin
    password: admin
events:
  - owner: admin
    title: Marathon
    time: "2030-09-01 07:00"
    public: true
    description: City marathon
`))
		require.NoError(t, err)
		require.Equal(t, 14, config.Organizer.UpcomingDays)
		require.Len(t, config.Users, 1)
		require.Equal(t, "admin", config.Users[0].Username)
		require.Len(t, config.Events, 1)
		require.Equal(t, "2030-09-01 07:00", config.Events[0].Time)
		require.True(t, config.Events[0].Public)
	})

	t.Run("env indirection", func(t *testing.T) {
		t.Setenv("ORGANIZER_LOG_LEVEL", "DEBUG")
		config, err := NewConfig(writeConfig(t, "logger:\n  level: $env:ORGANIZER_LOG_LEVEL\n"))
		require.NoError(t, err)
		require.Equal(t, "DEBUG", config.Logger.Level)
	})

	t.Run("bad days", func(t *testing.T) {
		_, err := NewConfig(writeConfig(t, "organizer:\n  upcomingDays: 0\n"))
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("shipped config", func(t *testing.T) {
		config, err := NewConfig("../../configs/organizer.yaml")
		require.NoError(t, err)
		require.Len(t, config.Events, 5)
	})
}
