package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_BOT_TOKEN", "123:abc")

	dbPath := filepath.Join(t.TempDir(), "data", "studio.db")
	path := writeConfig(t, `
server:
  port: 9000
database:
  path: `+dbPath+`
session:
  idle_minutes: 15
telegram:
  bot_token: ${TEST_BOT_TOKEN}
  chat_id: 42
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken, "env placeholders expand")
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, 15*time.Minute, cfg.SessionIdleTimeout())
	assert.DirExists(t, filepath.Dir(dbPath), "db directory is created")
}

func TestLoadDefaults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "krampus.db")
	path := writeConfig(t, "database:\n  path: "+dbPath+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Session.IdleMinutes)
	assert.Equal(t, 20.0, cfg.Telegram.MessagesPerSec)
	assert.Equal(t, "Reservations", cfg.Sheets.SheetName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
