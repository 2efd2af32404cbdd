package logger

import (
	"path/filepath"
	"sapaa_backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetModeSwitchesLevel(t *testing.T) {
	SetMode("debug")
	assert.Equal(t, zap.DebugLevel, Level())

	SetMode("release")
	assert.Equal(t, zap.InfoLevel, Level())
}

func TestInitLoggerWritesToFile(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Mode = "release"
	cfg.Log.File = filepath.Join(t.TempDir(), "app.log")
	cfg.Log.MaxSizeMB = 1

	InitLogger(cfg)
	defer func() { Log = zap.NewNop() }()

	Log.Info("logger ready")
	_ = Log.Sync()

	assert.FileExists(t, cfg.Log.File)
	assert.False(t, Log.Core().Enabled(zap.DebugLevel))
}
