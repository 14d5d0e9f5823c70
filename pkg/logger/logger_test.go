package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "repairdesk/internal/core/context"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{zap.New(core).Sugar()}, logs
}

func TestFromContext_EnrichesWithTraceAndStaff(t *testing.T) {
	l, logs := observed()

	ctx := WithLogger(context.Background(), l)
	ctx = appctx.WithTrace(ctx, &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1", Operation: "PUT /api/v1/parts-stock/pool-quantity"})
	ctx = appctx.WithStaff(ctx, &appctx.StaffContext{StaffID: "staff-7", ShopID: "shibuya"})

	Info(ctx, "pool edited", "pool", "SE-FAMILY")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "PUT /api/v1/parts-stock/pool-quantity", fields["operation"])
	assert.Equal(t, "staff-7", fields["staff_id"])
	assert.Equal(t, "shibuya", fields["shop_id"])
	assert.Equal(t, "SE-FAMILY", fields["pool"])
}

func TestFromContext_OmitsEmptyShop(t *testing.T) {
	l, logs := observed()

	ctx := WithLogger(context.Background(), l)
	ctx = appctx.WithStaff(ctx, &appctx.StaffContext{StaffID: "stockctl"})

	Warn(ctx, "member skipped")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "stockctl", fields["staff_id"])
	assert.NotContains(t, fields, "shop_id")
	assert.NotContains(t, fields, "trace_id")
}

func TestLogger_WithComponent(t *testing.T) {
	l, logs := observed()

	l.WithComponent("worker").Infow("tick")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "worker", logs.All()[0].ContextMap()["component"])
}

func TestNew_FallsBackToInfoOnBadLevel(t *testing.T) {
	l, err := New(Config{Level: "verbose", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}
