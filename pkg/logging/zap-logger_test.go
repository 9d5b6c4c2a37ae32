package logging

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"testing"
)

func TestWithContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := New(zap.New(core))

	ctx := WithContextFields(context.Background(), zap.String("path", "/api/order"))
	ctx = WithContextFields(ctx, zap.Int64("update_id", 42))
	logger.InfoCtx(ctx, "handled", zap.Int("status", 200))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "handled", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "/api/order", fields["path"])
	assert.Equal(t, int64(42), fields["update_id"])
	assert.Equal(t, int64(200), fields["status"])
}

func TestWithContextFieldsDoesNotLeakIntoParent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := New(zap.New(core))

	parent := WithContextFields(context.Background(), zap.String("a", "1"))
	_ = WithContextFields(parent, zap.String("b", "2"))
	logger.WarnCtx(parent, "parent only")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Contains(t, fields, "a")
	assert.NotContains(t, fields, "b")
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := New(zap.New(core))

	logger.DebugCtx(context.Background(), "hidden")
	logger.ErrorCtx(context.Background(), "shown")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zapcore.Level
		wantErr  bool
	}{
		{name: "debug", level: "debug", expected: zapcore.DebugLevel},
		{name: "warn", level: "warn", expected: zapcore.WarnLevel},
		{name: "garbage", level: "loud", expected: zapcore.InfoLevel, wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lvl, err := ParseLevel(test.level)
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, test.expected, lvl)
		})
	}
}
