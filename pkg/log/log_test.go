package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, ParseLevel("debug").Level())
	assert.Equal(t, zap.InfoLevel, ParseLevel("bogus").Level())
}

func TestInitFileLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cli.log")
	l, err := InitFileLog(ParseLevel("info"), path)
	require.NoError(t, err)

	l.Info("job submitted", zap.String("job_id", "abc"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "job submitted")
	assert.Contains(t, string(data), "abc")
}
