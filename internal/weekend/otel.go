package weekend

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gridline/racesim/pkg/core"
)

const instrumentationName = "github.com/gridline/racesim/internal/weekend"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	races          metric.Int64Counter
	incidents      metric.Int64Counter
	statsFallbacks metric.Int64Counter
	stored         metric.Int64ObservableGauge

	storedCount atomic.Int64
}

func newMetrics() (*metrics, error) {
	m := meter()
	out := &metrics{}

	var err error
	out.races, err = m.Int64Counter(
		"weekend.races",
		metric.WithDescription("Races simulated"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating races counter: %w", err)
	}

	out.incidents, err = m.Int64Counter(
		"weekend.incidents",
		metric.WithDescription("Retirements and disqualifications by incident kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating incidents counter: %w", err)
	}

	out.statsFallbacks, err = m.Int64Counter(
		"weekend.stats.fallbacks",
		metric.WithDescription("Races run on base attributes because statistics were unavailable"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stats fallback counter: %w", err)
	}

	out.stored, err = m.Int64ObservableGauge(
		"weekend.races.stored",
		metric.WithDescription("Races held in the results store"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			o.Observe(out.storedCount.Load())
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stored races gauge: %w", err)
	}

	return out, nil
}

func (m *metrics) recordRace(ctx context.Context, r *core.Race) {
	m.races.Add(ctx, 1, metric.WithAttributes(
		attribute.String("condition", string(r.Weather.Condition)),
		attribute.Bool("enhanced", r.Enhanced),
	))
	for _, res := range r.Results {
		if res.Incident == core.IncidentNone {
			continue
		}
		m.incidents.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", res.Incident.String())))
	}
	m.storedCount.Add(1)
}
