package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLogger(t *testing.T) {
	t.Parallel()

	logger := ConsoleLogger(logrus.WarnLevel)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestFileLogger_WritesJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "directory.log")
	f, logger, err := FileLogger(logrus.InfoLevel, path)
	require.NoError(t, err)

	logger.WithField("component", "test").Info("hello")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
