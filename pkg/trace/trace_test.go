package trace

import (
	"context"
	"testing"

	"github.com/pairtalk/pairtalk/internal/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), &config.TracingConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracingEnabled(t *testing.T) {
	// The OTLP exporter connects lazily, so initialization succeeds without a
	// running collector.
	cfg := &config.TracingConfig{
		Enabled:     true,
		ServiceName: "pairtalk-relay-test",
		Insecure:    true,
		SamplerRate: 1.0,
	}
	shutdown, err := InitTracing(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	_ = shutdown(context.Background())
}
