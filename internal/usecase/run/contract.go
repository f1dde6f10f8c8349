package run

import (
	"context"

	domexp "github.com/fiberlab/expreg/internal/domain/experiment"
	domrun "github.com/fiberlab/expreg/internal/domain/run"
)

// Repository defines the storage contract for training runs.
type Repository interface {
	NextID(ctx context.Context, experiment string) (string, error)
	Save(ctx context.Context, run domrun.Run) error
	Get(ctx context.Context, id string) (domrun.Run, error)
	ListByExperiment(ctx context.Context, experiment string) ([]domrun.Run, error)
}

// ExperimentReader resolves the experiment a run belongs to.
type ExperimentReader interface {
	Get(ctx context.Context, name string) (domexp.Spec, error)
}
