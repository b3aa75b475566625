package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"panic": zapcore.PanicLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestFromContext ensures the context helpers fall back to the global logger
// and that named loggers round-trip through a context.
func TestFromContext(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // Passing a nil context on purpose to test the fallback.
	require.Same(t, Logger(), FromContext(nil))
	require.Same(t, Logger(), FromContext(context.Background()))

	named := Logger().Named("scheduler")
	ctx := ToContext(context.Background(), named)
	require.Same(t, named, FromContext(ctx))
}
