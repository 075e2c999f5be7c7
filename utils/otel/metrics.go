package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all OTel metric instruments for search-orchestrator. It is
// nil until InitMetrics runs; the Record helpers tolerate that.
var Metrics *SearchOrchestratorMetrics

// SearchOrchestratorMetrics contains all metric instruments.
type SearchOrchestratorMetrics struct {
	SearchDuration metric.Float64Histogram
	FacetDuration  metric.Float64Histogram
	ImportedTotal  metric.Int64Counter
	ErrorsTotal    metric.Int64Counter
}

// InitMetrics initializes all metric instruments.
func InitMetrics() error {
	meter := otel.Meter("search-orchestrator")

	searchDuration, err := meter.Float64Histogram("search_orchestrator_search_duration_seconds",
		metric.WithDescription("Faceted search duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	facetDuration, err := meter.Float64Histogram("search_orchestrator_facet_duration_seconds",
		metric.WithDescription("Facet distribution lookup duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	importedTotal, err := meter.Int64Counter("search_orchestrator_imported_total",
		metric.WithDescription("Total number of web results imported into the index"),
	)
	if err != nil {
		return err
	}

	errorsTotal, err := meter.Int64Counter("search_orchestrator_errors_total",
		metric.WithDescription("Total number of failed operations by kind"),
	)
	if err != nil {
		return err
	}

	Metrics = &SearchOrchestratorMetrics{
		SearchDuration: searchDuration,
		FacetDuration:  facetDuration,
		ImportedTotal:  importedTotal,
		ErrorsTotal:    errorsTotal,
	}

	return nil
}

func RecordSearchDuration(ctx context.Context, domain string, seconds float64) {
	if Metrics == nil {
		return
	}
	Metrics.SearchDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("domain", domain)))
}

func RecordFacetDuration(ctx context.Context, domain string, seconds float64) {
	if Metrics == nil {
		return
	}
	Metrics.FacetDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("domain", domain)))
}

func RecordImported(ctx context.Context, count int) {
	if Metrics == nil || count == 0 {
		return
	}
	Metrics.ImportedTotal.Add(ctx, int64(count))
}

func RecordError(ctx context.Context, operation, kind string) {
	if Metrics == nil {
		return
	}
	Metrics.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("kind", kind),
	))
}
