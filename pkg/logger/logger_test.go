package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()
	level, format := L.Logger.Level, L.Logger.Formatter
	t.Cleanup(func() {
		L.Logger.SetLevel(level)
		L.Logger.Formatter = format
		L.Logger.SetOutput(os.Stderr)
	})
}

func TestNewLogger(t *testing.T) {
	l := newLogger()
	assert.Equal(t, DefaultLevel, l.Level)
	assert.Equal(t, os.Stderr, l.Out)
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

func TestContextLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, L.Logger, G(ctx).Logger)

	entry := logrus.NewEntry(logrus.New()).WithField("skill", "yozuk-skill-dice")
	got := G(WithLogger(ctx, entry))
	assert.Equal(t, "yozuk-skill-dice", got.Data["skill"])
	assert.NotEqual(t, L.Logger, got.Logger)
}

func TestConfigure(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	SetOutput(&buf)

	require.NoError(t, Configure("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.Level)

	L.WithField("skill", "yozuk-skill-uuid").Debug("resolved")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "resolved", line["message"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "yozuk-skill-uuid", line["skill"])
	assert.Contains(t, line, "timestamp")

	require.NoError(t, Configure("", "text"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.Level, "an empty level keeps the current one")
	assert.IsType(t, &logrus.TextFormatter{}, L.Logger.Formatter)
}

func TestConfigureInvalidLevel(t *testing.T) {
	restore(t)
	err := Configure("loud", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}
