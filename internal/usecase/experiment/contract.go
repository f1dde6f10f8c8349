package experiment

import (
	"context"

	domexp "github.com/fiberlab/expreg/internal/domain/experiment"
)

// Repository defines the storage contract for experiment specs.
type Repository interface {
	Create(ctx context.Context, spec domexp.Spec) error
	Upsert(ctx context.Context, spec domexp.Spec) error
	Get(ctx context.Context, name string) (domexp.Spec, error)
	List(ctx context.Context) ([]domexp.Spec, error)
	Delete(ctx context.Context, name string) error
}
