package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
database:
  host: localhost
  port: 3306
  user: sapaa
  dbname: sapaa
jwt:
  secret: short
  expire_hours: 12
storage:
  type: local
  local_path: `+uploads+`
inspection:
  draft_ttl_hours: 48
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sapaa", cfg.Database.DBName)
	assert.Equal(t, "utf8mb4", cfg.Database.Charset)
	assert.Equal(t, 12*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 48*time.Hour, cfg.Inspection.DraftTTL)
	assert.Equal(t, DefaultLiabilityPhrase, cfg.Inspection.LiabilityPhrase)
	assert.Equal(t, 600, cfg.RateLimit.MaxRequests)
	assert.DirExists(t, uploads)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := writeConfig(t, `
database:
  host: localhost
storage:
  type: minio
`)
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SAPAA_INSPECTION_LIABILITY_PHRASE", "custom phrase")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "custom phrase", cfg.Inspection.LiabilityPhrase)
}

func TestLoadConfigRejectsWeakSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: too-short
storage:
  type: minio
`)
	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "JWT secret is too short")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
