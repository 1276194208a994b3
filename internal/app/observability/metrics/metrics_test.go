package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewAppMetrics_RecordsOverrideWrites(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := newAppMetrics(provider.Meter(meterName))
	require.NoError(t, err)

	ctx := context.Background()
	m.OverrideWritesTotal.Add(ctx, 1)
	m.OverrideWritesTotal.Add(ctx, 2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	var found bool
	for _, md := range rm.ScopeMetrics[0].Metrics {
		if md.Name != "i18n_override_writes_total" {
			continue
		}
		found = true
		sum, ok := md.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, sum.DataPoints, 1)
		assert.Equal(t, int64(3), sum.DataPoints[0].Value)
	}
	assert.True(t, found)
}

func TestRecordHelpersDoNotPanicWithoutProvider(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordLogin(ctx, "success")
		RecordOverrideWrite(ctx, "fi", "upsert")
		RecordMerge(ctx, "en", "ok")
		RecordDBError(ctx, "GetOverrides")
	})
}
