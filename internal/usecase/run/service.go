package run

import (
	"context"
	"fmt"

	domrun "github.com/fiberlab/expreg/internal/domain/run"
	"github.com/fiberlab/expreg/internal/metrics"
)

// Service handles training run bookkeeping for the external harness.
type Service struct {
	repo        Repository
	experiments ExperimentReader
}

// New creates a run service.
func New(repo Repository, experiments ExperimentReader) *Service {
	return &Service{repo: repo, experiments: experiments}
}

// Start opens a run for an experiment. The experiment's epoch count becomes
// the run's epoch budget.
func (s *Service) Start(ctx context.Context, experiment string) (domrun.Run, error) {
	spec, err := s.experiments.Get(ctx, experiment)
	if err != nil {
		return domrun.Run{}, fmt.Errorf("resolve experiment: %w", err)
	}

	id, err := s.repo.NextID(ctx, experiment)
	if err != nil {
		return domrun.Run{}, fmt.Errorf("allocate run id: %w", err)
	}

	run, err := domrun.New(id, experiment, spec.Epochs())
	if err != nil {
		return domrun.Run{}, fmt.Errorf("start run: %w", err)
	}

	if err := s.repo.Save(ctx, run); err != nil {
		return domrun.Run{}, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

// RecordEpoch registers one completed epoch with its validation loss.
func (s *Service) RecordEpoch(ctx context.Context, id string, loss float64) (domrun.Run, error) {
	run, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrun.Run{}, fmt.Errorf("get run: %w", err)
	}

	run, err = run.RecordEpoch(loss)
	if err != nil {
		return domrun.Run{}, fmt.Errorf("record epoch: %w", err)
	}

	if err := s.repo.Save(ctx, run); err != nil {
		return domrun.Run{}, fmt.Errorf("save run: %w", err)
	}

	metrics.EpochsRecordedTotal.Inc()
	return run, nil
}

// Finish moves a run to a terminal status.
func (s *Service) Finish(ctx context.Context, id string, status domrun.Status) (domrun.Run, error) {
	run, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrun.Run{}, fmt.Errorf("get run: %w", err)
	}

	run, err = run.Finish(status)
	if err != nil {
		return domrun.Run{}, fmt.Errorf("finish run: %w", err)
	}

	if err := s.repo.Save(ctx, run); err != nil {
		return domrun.Run{}, fmt.Errorf("save run: %w", err)
	}

	metrics.RunsFinishedTotal.WithLabelValues(string(status)).Inc()
	return run, nil
}

// Get retrieves a run by id.
func (s *Service) Get(ctx context.Context, id string) (domrun.Run, error) {
	run, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrun.Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListByExperiment returns all runs of an experiment.
func (s *Service) ListByExperiment(ctx context.Context, experiment string) ([]domrun.Run, error) {
	runs, err := s.repo.ListByExperiment(ctx, experiment)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
