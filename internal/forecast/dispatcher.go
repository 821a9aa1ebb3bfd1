// backend-go/internal/forecast/dispatcher.go
package forecast

import (
	"context"
	"fmt"

	"github.com/andresuchdata/medforecast/backend-go/internal/forecast/features"
	"github.com/andresuchdata/medforecast/backend-go/internal/model"
)

// Strategy is the single capability both model families implement.
type Strategy interface {
	Forecast(ctx context.Context, medicineName string, history []features.Observation, horizon int) (*Result, error)
}

// Routing assigns each medicine to exactly one model family. Membership is
// static configuration; a medicine in neither list is not forecast.
type Routing struct {
	Tabular    []string
	Sequential []string
}

// Dispatcher routes a medicine to its model family and invokes the strategy.
type Dispatcher struct {
	routes     map[string]Family
	tabular    Strategy
	sequential Strategy
}

// NewDispatcher builds a dispatcher with the default strategies backed by the
// given model registry.
func NewDispatcher(routing Routing, registry model.Registry) *Dispatcher {
	return NewDispatcherWithStrategies(routing,
		NewTabularStrategy(registry),
		NewSequentialStrategy(registry))
}

// NewDispatcherWithStrategies allows injecting strategies directly; tests use
// this to substitute fakes.
func NewDispatcherWithStrategies(routing Routing, tabular, sequential Strategy) *Dispatcher {
	routes := make(map[string]Family, len(routing.Tabular)+len(routing.Sequential))
	for _, name := range routing.Tabular {
		routes[name] = FamilyTabular
	}
	for _, name := range routing.Sequential {
		routes[name] = FamilySequential
	}
	return &Dispatcher{routes: routes, tabular: tabular, sequential: sequential}
}

// FamilyOf reports which family a medicine is routed to.
func (d *Dispatcher) FamilyOf(medicineName string) (Family, bool) {
	family, ok := d.routes[medicineName]
	return family, ok
}

// Forecast routes the medicine and runs the matching strategy. Errors carry
// the sentinel taxonomy (ErrNotConfigured, ErrInsufficientHistory,
// model.ErrArtifactNotFound, model.ErrShapeMismatch) so callers can convert
// them into per-medicine outcomes.
func (d *Dispatcher) Forecast(ctx context.Context, medicineName string, history []features.Observation, horizon int) (*Result, error) {
	if horizon < 1 {
		horizon = 1
	}

	switch d.routes[medicineName] {
	case FamilyTabular:
		return d.tabular.Forecast(ctx, medicineName, history, horizon)
	case FamilySequential:
		return d.sequential.Forecast(ctx, medicineName, history, horizon)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, medicineName)
	}
}
