package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"storyapi/internal/config"
)

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "always_on", want: "AlwaysOnSampler"},
		{name: "always_off", want: "AlwaysOffSampler"},
		{name: "traceidratio", arg: "0.25", want: "TraceIDRatioBased{0.25}"},
		{name: "parentbased_always_off", want: "ParentBased{root:AlwaysOffSampler"},
		{name: "parentbased_traceidratio", arg: "0.5", want: "ParentBased{root:TraceIDRatioBased{0.5}"},
		{name: "unknown", want: "ParentBased{root:AlwaysOnSampler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, newSampler(tt.name, tt.arg).Description(), tt.want)
		})
	}
}

func TestParseRatio(t *testing.T) {
	assert.Equal(t, 0.3, parseRatio("0.3"))
	assert.Equal(t, 1.0, parseRatio("nope"))
	assert.Equal(t, 1.0, parseRatio(""))
	assert.Equal(t, 0.0, parseRatio("-2"))
	assert.Equal(t, 1.0, parseRatio("7"))
}

func TestInit_Disabled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	shutdown, err := Init(context.Background(), config.OTelConfig{SDKDisabled: true}, zap.New(core))
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))

	entries := logs.FilterMessage("tracing_configured").All()
	require.Len(t, entries, 1)
	assert.Equal(t, false, entries[0].ContextMap()["tracing_enabled"])
}

func TestInit_UnsupportedProtocolDegrades(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := config.OTelConfig{
		ServiceName:          "storyapi",
		ExporterOTLPProtocol: "carrier-pigeon",
		TracesSampler:        "always_on",
	}

	shutdown, err := Init(context.Background(), cfg, zap.New(core))
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("tracing_init_failed").Len())
}

func TestNewExporter(t *testing.T) {
	for _, protocol := range []string{"grpc", "http/protobuf"} {
		t.Run(protocol, func(t *testing.T) {
			exp, err := newExporter(context.Background(), protocol, "http://localhost:4317")
			require.NoError(t, err)
			require.NotNil(t, exp)
			assert.NoError(t, exp.Shutdown(context.Background()))
		})
	}

	_, err := newExporter(context.Background(), "carrier-pigeon", "")
	assert.ErrorContains(t, err, "unsupported OTLP protocol")
}
