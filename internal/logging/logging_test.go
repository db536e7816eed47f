package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casegen.log")

	logger, err := New("info", path)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("generated test cases", zap.Int("count", 3))
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"generated test cases"`)
	assert.Contains(t, string(b), `"count":3`)
	assert.NotContains(t, string(b), "hidden")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New("loud", "")
	assert.Error(t, err)
}

func TestForTUIWithoutFileIsNop(t *testing.T) {
	logger, err := ForTUI("debug", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}
