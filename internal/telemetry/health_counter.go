package telemetry

import (
	"context"
	"fmt"

	"boilerplate/internal/constants"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HealthCounter counts calls to the health endpoint.
type HealthCounter struct {
	counter metric.Int64Counter
}

// NewHealthCounter creates the health_endpoint_calls counter on meter.
func NewHealthCounter(meter metric.Meter) (*HealthCounter, error) {
	counter, err := meter.Int64Counter(
		constants.HealthCounterName,
		metric.WithUnit("1"),
		metric.WithDescription("Number of times the health endpoint has been called"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health counter: %w", err)
	}
	return &HealthCounter{counter: counter}, nil
}

// RecordHealthCheck adds one to the counter with endpoint and status
// attributes.
func (h *HealthCounter) RecordHealthCheck(ctx context.Context, endpoint, status string) {
	if h == nil {
		return
	}
	h.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	))
}
