package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMetricsRecordCallLifecycleCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.CallStarted(ctx, "inbound")
	metrics.CallEnded(ctx, "caller_hangup")
	metrics.BargeIn(ctx)
	metrics.ProviderError(ctx, "provider.rate_limited")

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &data))

	names := map[string]bool{}
	for _, sm := range data.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	require.True(t, names["callcontrol.calls.started"])
	require.True(t, names["callcontrol.calls.ended"])
	require.True(t, names["callcontrol.sessions.active"])
	require.True(t, names["callcontrol.voice.barge_ins"])
	require.True(t, names["callcontrol.provider.errors"])
}
