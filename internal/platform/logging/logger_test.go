package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(LevelDebug, &buf)

	logger.Warn("upstream call failed", "tab", "standings", "error", errors.New("boom"), "dangling")
	require.NoError(t, logger.Sync())

	var line map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "WARN", line["level"])
	require.Equal(t, "upstream call failed", line["msg"])
	require.Equal(t, "standings", line["tab"])
	require.Equal(t, "boom", line["error"])
	require.Contains(t, line, "dangling")
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONWriter(LevelWarn, &buf)

	logger.Info("hidden")
	logger.Debug("hidden too")
	require.Zero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelDebug, ParseLevel("debug"))
	require.Equal(t, LevelWarn, ParseLevel("warn"))
	require.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("does not panic")
	require.NotNil(t, logger.With("k", "v"))
}

func TestSetMirror_ReceivesEnabledRecords(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, _ ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	var buf bytes.Buffer
	logger := NewJSONWriter(LevelInfo, &buf)
	logger.Debug("skipped")
	logger.WarnContext(context.Background(), "tab fetch failed", "tab", "draw")

	require.Equal(t, []string{"warn:tab fetch failed"}, got)
}
