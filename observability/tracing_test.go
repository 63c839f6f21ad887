package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_Disabled(t *testing.T) {
	tp, err := InitTracing(context.Background(), Config{ServiceName: "dungeon"})
	require.NoError(t, err)
	assert.False(t, tp.Enabled())

	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestInitTracing_Enabled(t *testing.T) {
	tp, err := InitTracing(context.Background(), Config{
		ServiceName:    "dungeon",
		ServiceVersion: "test",
		Enabled:        true,
		Endpoint:       "http://127.0.0.1:4318/v1/traces",
	})
	require.NoError(t, err)
	assert.True(t, tp.Enabled())

	_, span := tp.Tracer("test").Start(context.Background(), "step")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// Nothing listens on the endpoint; shutdown must still return promptly.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = tp.Shutdown(ctx)
}
