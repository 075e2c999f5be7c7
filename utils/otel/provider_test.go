package otel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name            string
		env             map[string]string
		wantEnabled     bool
		wantEndpoint    string
		wantSampleRatio float64
		wantInterval    time.Duration
	}{
		{
			name:            "defaults",
			wantEnabled:     false,
			wantEndpoint:    "http://localhost:4318",
			wantSampleRatio: 0.1,
			wantInterval:    5 * time.Second,
		},
		{
			name: "enabled with custom endpoint",
			env: map[string]string{
				"OTEL_ENABLED":                "true",
				"OTEL_EXPORTER_OTLP_ENDPOINT": "http://collector:4318/",
				"OTEL_TRACE_SAMPLE_RATIO":     "0.5",
				"OTEL_EXPORT_INTERVAL":        "2s",
			},
			wantEnabled:     true,
			wantEndpoint:    "http://collector:4318",
			wantSampleRatio: 0.5,
			wantInterval:    2 * time.Second,
		},
		{
			name: "invalid values keep defaults",
			env: map[string]string{
				"OTEL_TRACE_SAMPLE_RATIO": "3",
				"OTEL_EXPORT_INTERVAL":    "soon",
			},
			wantEndpoint:    "http://localhost:4318",
			wantSampleRatio: 0.1,
			wantInterval:    5 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_TRACE_SAMPLE_RATIO", "OTEL_SERVICE_NAME", "OTEL_EXPORT_INTERVAL"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := ConfigFromEnv()
			assert.Equal(t, tt.wantEnabled, cfg.Enabled)
			assert.Equal(t, tt.wantEndpoint, cfg.OTLPEndpoint)
			assert.Equal(t, tt.wantSampleRatio, cfg.SampleRatio)
			assert.Equal(t, tt.wantInterval, cfg.ExportInterval)
			assert.Equal(t, "search-orchestrator", cfg.ServiceName)
		})
	}
}

func TestNewResource(t *testing.T) {
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "k8s.namespace.name=search")

	res, err := newResource(context.Background(), Config{
		ServiceName:    "search-orchestrator",
		ServiceVersion: "1.2.3",
		Environment:    "staging",
	})
	require.NoError(t, err)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range res.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "search-orchestrator", attrs["service.name"].AsString())
	assert.Equal(t, "1.2.3", attrs["service.version"].AsString())
	assert.Equal(t, "search", attrs["service.namespace"].AsString())
	assert.Equal(t, "staging", attrs["deployment.environment"].AsString())
	assert.Equal(t, "meilisearch", attrs["search.index_engine"].AsString())
	assert.Equal(t, "searxng", attrs["search.metasearch_engine"].AsString())
	assert.Equal(t, []string{"movies", "books", "web"}, attrs["search.domains"].AsStringSlice())
	assert.Equal(t, "search", attrs["k8s.namespace.name"].AsString())
}

func TestSignalURL(t *testing.T) {
	cfg := Config{OTLPEndpoint: "http://collector:4318"}
	assert.Equal(t, "http://collector:4318/v1/traces", signalURL(cfg, "traces"))
	assert.Equal(t, "http://collector:4318/v1/metrics", signalURL(cfg, "metrics"))
}

func TestInitProvider_Disabled(t *testing.T) {
	shutdown, err := InitProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	Metrics = nil
	ctx := context.Background()

	assert.NotPanics(t, func() {
		RecordSearchDuration(ctx, "movies", 0.1)
		RecordFacetDuration(ctx, "movies", 0.1)
		RecordImported(ctx, 3)
		RecordError(ctx, "search", "query_error")
	})
}

func TestRecordImported(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	original := otel.GetMeterProvider()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	t.Cleanup(func() {
		otel.SetMeterProvider(original)
		Metrics = nil
	})

	require.NoError(t, InitMetrics())

	ctx := context.Background()
	RecordImported(ctx, 3)
	RecordImported(ctx, 0)
	RecordImported(ctx, 2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "search_orchestrator_imported_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			assert.Equal(t, int64(5), sum.DataPoints[0].Value)
			found = true
		}
	}
	assert.True(t, found)
}
