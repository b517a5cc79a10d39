package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/darc-project/darc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "darc.log")

	l, err := NewLogger(&config.LoggingConfig{
		Level:          "debug",
		Format:         "json",
		OutputPath:     path,
		DisableConsole: true,
	})
	require.NoError(t, err)

	l.Info("request route", zap.String("route", "/api/analyze"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"route":"/api/analyze"`)
	assert.Contains(t, string(data), `"level":"INFO"`)
}

func TestNewLogger_Errors(t *testing.T) {
	_, err := NewLogger(&config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)

	_, err = NewLogger(&config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewLogger_NoOutputs(t *testing.T) {
	l, err := NewLogger(&config.LoggingConfig{Level: "info", DisableConsole: true})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.ErrorLevel))
}
