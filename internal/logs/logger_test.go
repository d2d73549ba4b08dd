package logs

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"warning": logrus.WarnLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
		"":        logrus.InfoLevel,
	}
	for in, want := range cases {
		l, err := New(Options{Level: in})
		require.NoError(t, err)
		assert.Equal(t, want, l.GetLevel(), in)
	}
}

func TestNewOffDiscards(t *testing.T) {
	l, err := New(Options{Level: "off"})
	require.NoError(t, err)
	assert.Equal(t, io.Discard, l.Out)
}

func TestNewJSONFormat(t *testing.T) {
	l, err := New(Options{Format: "json"})
	require.NoError(t, err)
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestInitFileOutput(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	prefix := filepath.Join(t.TempDir(), "injdash")
	require.NoError(t, Init(Options{Level: "info", File: prefix}))
	Logger.Info("hello")

	matches, err := filepath.Glob(prefix + "_*.log")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestInitBadFile(t *testing.T) {
	err := Init(Options{File: filepath.Join(t.TempDir(), "missing", "dir", "x")})
	require.Error(t, err)
}
