package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
)

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	t.Parallel()

	l := newObserved(t)
	ctx := logger.WithContext(context.Background(), l)

	assert.Same(t, l, logger.FromContext(ctx))
}

func TestFromContext_FallbackIsSharedAndUsable(t *testing.T) {
	t.Parallel()

	a := logger.FromContext(context.Background())
	b := logger.FromContext(context.Background())
	require.NotNil(t, a)
	assert.Same(t, a, b)

	a.Info("filtered at warn level")
	a.Warn("fallback works", logger.String("key", "value"))
}

func TestWith_CarriesFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	base := logger.FromZap(zap.New(core))

	child := base.With(logger.RequestID("req-1"), logger.UserID("user-1"))
	child.Info("generated", logger.Provider("primary"))

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", ctx[logger.KeyRequestID])
	assert.Equal(t, "user-1", ctx[logger.KeyUserID])
	assert.Equal(t, "primary", ctx[logger.KeyProvider])
}

func TestNew_AppliesLevel(t *testing.T) {
	t.Parallel()

	l, err := logger.New(logger.Config{Level: "error", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	l.Debug("dropped")
	l.Error("kept")
}

func TestNop_IsSilent(t *testing.T) {
	t.Parallel()

	l := logger.NewNop()
	assert.Same(t, l, l.With(logger.String("a", "b")))
	assert.NoError(t, l.Sync())
	l.Fatal("does not exit")
}

func newObserved(t *testing.T) logger.Logger {
	t.Helper()
	core, _ := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core))
}
