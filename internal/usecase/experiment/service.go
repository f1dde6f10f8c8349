package experiment

import (
	"context"
	"fmt"

	"github.com/fiberlab/expreg/internal/domain"
	domexp "github.com/fiberlab/expreg/internal/domain/experiment"
	"github.com/fiberlab/expreg/internal/metrics"
)

// Service handles experiment registration and lookup.
type Service struct {
	repo Repository
}

// New creates an experiment service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// resolve overlays the overrides on the named preset.
func resolve(name, presetName string, ov domexp.Overrides) (domexp.Spec, error) {
	preset, ok := domexp.PresetByName(presetName)
	if !ok {
		return domexp.Spec{}, fmt.Errorf("%w: %q", domain.ErrPresetNotFound, presetName)
	}

	spec, err := domexp.New(name, preset, ov)
	if err != nil {
		return domexp.Spec{}, fmt.Errorf("resolve experiment: %w: %w", domain.ErrInvalidSpec, err)
	}
	return spec, nil
}

// Register resolves a new experiment from a preset plus overrides and stores
// it. A name conflict is ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, name, presetName string, ov domexp.Overrides) (domexp.Spec, error) {
	spec, err := resolve(name, presetName, ov)
	if err != nil {
		return domexp.Spec{}, err
	}

	if err := s.repo.Create(ctx, spec); err != nil {
		return domexp.Spec{}, fmt.Errorf("create experiment: %w", err)
	}

	metrics.ExperimentsRegisteredTotal.WithLabelValues(presetName).Inc()
	return spec, nil
}

// Sync resolves an experiment and stores it, replacing any previous
// revision. Used by the definition-file loader where files win.
func (s *Service) Sync(ctx context.Context, name, presetName string, ov domexp.Overrides) (domexp.Spec, error) {
	spec, err := resolve(name, presetName, ov)
	if err != nil {
		return domexp.Spec{}, err
	}

	if err := s.repo.Upsert(ctx, spec); err != nil {
		return domexp.Spec{}, fmt.Errorf("upsert experiment: %w", err)
	}
	return spec, nil
}

// Get retrieves a resolved experiment by name.
func (s *Service) Get(ctx context.Context, name string) (domexp.Spec, error) {
	spec, err := s.repo.Get(ctx, name)
	if err != nil {
		return domexp.Spec{}, fmt.Errorf("get experiment: %w", err)
	}
	return spec, nil
}

// List returns all registered experiments.
func (s *Service) List(ctx context.Context) ([]domexp.Spec, error) {
	specs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list experiments: %w", err)
	}
	return specs, nil
}

// Delete removes an experiment.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete experiment: %w", err)
	}
	return nil
}

// Presets returns the built-in base configurations.
func (s *Service) Presets() []domexp.Preset {
	return domexp.Presets()
}

// Preset looks up a built-in base configuration.
func (s *Service) Preset(name string) (domexp.Preset, error) {
	p, ok := domexp.PresetByName(name)
	if !ok {
		return domexp.Preset{}, fmt.Errorf("%w: %q", domain.ErrPresetNotFound, name)
	}
	return p, nil
}
