package run

import (
	"fmt"
	"time"

	"github.com/fiberlab/expreg/internal/domain"
)

// Status is the training run lifecycle state.
type Status string

const (
	// StatusRunning marks an in-progress run.
	StatusRunning Status = "running"
	// StatusCompleted marks a successfully finished run.
	StatusCompleted Status = "completed"
	// StatusFailed marks an aborted run.
	StatusFailed Status = "failed"
)

// IsValid checks if the status is supported.
func (s Status) IsValid() bool {
	return s == StatusRunning || s == StatusCompleted || s == StatusFailed
}

// Terminal reports whether the status allows no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run tracks one training execution of an experiment (immutable value
// object; transitions return an updated copy).
type Run struct {
	id          string
	experiment  string
	status      Status
	epochBudget int
	epochsDone  int
	bestLoss    float64
	hasBestLoss bool
	startedAt   int64
	finishedAt  int64
}

// New starts a run for an experiment with the given epoch budget.
func New(id, experiment string, epochBudget int) (Run, error) {
	if id == "" {
		return Run{}, fmt.Errorf("run id is required")
	}
	if experiment == "" {
		return Run{}, fmt.Errorf("experiment name is required")
	}
	if epochBudget <= 0 {
		return Run{}, fmt.Errorf("epoch budget must be positive, got %d", epochBudget)
	}
	return Run{
		id:          id,
		experiment:  experiment,
		status:      StatusRunning,
		epochBudget: epochBudget,
		startedAt:   time.Now().UnixMilli(),
	}, nil
}

// RecordEpoch registers one completed epoch and its validation loss.
// Epochs completed never exceed the experiment's epoch budget.
func (r Run) RecordEpoch(loss float64) (Run, error) {
	if r.status.Terminal() {
		return Run{}, domain.ErrRunFinished
	}
	if r.epochsDone+1 > r.epochBudget {
		return Run{}, domain.ErrEpochBudgetExceeded
	}
	r.epochsDone++
	if !r.hasBestLoss || loss < r.bestLoss {
		r.bestLoss = loss
		r.hasBestLoss = true
	}
	return r, nil
}

// Finish moves the run to a terminal status.
func (r Run) Finish(status Status) (Run, error) {
	if !status.Terminal() {
		return Run{}, fmt.Errorf("finish requires a terminal status, got %q", status)
	}
	if r.status.Terminal() {
		return Run{}, domain.ErrRunFinished
	}
	r.status = status
	r.finishedAt = time.Now().UnixMilli()
	return r, nil
}

// Snapshot is the flat field set of a Run, used for storage hydration.
type Snapshot struct {
	ID          string
	Experiment  string
	Status      Status
	EpochBudget int
	EpochsDone  int
	BestLoss    float64
	HasBestLoss bool
	StartedAt   int64
	FinishedAt  int64
}

// Reconstruct creates a Run without validation (storage hydration).
func Reconstruct(snap Snapshot) Run {
	return Run{
		id:          snap.ID,
		experiment:  snap.Experiment,
		status:      snap.Status,
		epochBudget: snap.EpochBudget,
		epochsDone:  snap.EpochsDone,
		bestLoss:    snap.BestLoss,
		hasBestLoss: snap.HasBestLoss,
		startedAt:   snap.StartedAt,
		finishedAt:  snap.FinishedAt,
	}
}

// Snapshot returns the flat field set of the Run.
func (r Run) Snapshot() Snapshot {
	return Snapshot{
		ID:          r.id,
		Experiment:  r.experiment,
		Status:      r.status,
		EpochBudget: r.epochBudget,
		EpochsDone:  r.epochsDone,
		BestLoss:    r.bestLoss,
		HasBestLoss: r.hasBestLoss,
		StartedAt:   r.startedAt,
		FinishedAt:  r.finishedAt,
	}
}

// ID returns the run identifier.
func (r Run) ID() string { return r.id }

// Experiment returns the owning experiment name.
func (r Run) Experiment() string { return r.experiment }

// Status returns the lifecycle state.
func (r Run) Status() Status { return r.status }

// EpochBudget returns the experiment's epoch budget at run start.
func (r Run) EpochBudget() int { return r.epochBudget }

// EpochsDone returns the number of completed epochs.
func (r Run) EpochsDone() int { return r.epochsDone }

// BestLoss returns the lowest recorded loss; ok is false before any epoch.
func (r Run) BestLoss() (loss float64, ok bool) { return r.bestLoss, r.hasBestLoss }

// StartedAt returns the start timestamp (unix millis).
func (r Run) StartedAt() int64 { return r.startedAt }

// FinishedAt returns the finish timestamp, zero while the run is active.
func (r Run) FinishedAt() int64 { return r.finishedAt }
