package domain

import "errors"

var (
	// ErrNotFound signals a missing experiment.
	ErrNotFound = errors.New("experiment not found")
	// ErrAlreadyExists signals a duplicate experiment name.
	ErrAlreadyExists = errors.New("experiment already exists")
	// ErrPresetNotFound signals an unknown base configuration.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrInvalidSpec signals an invalid experiment specification.
	ErrInvalidSpec = errors.New("invalid experiment spec")
	// ErrRunNotFound signals a missing training run.
	ErrRunNotFound = errors.New("run not found")
	// ErrRunFinished signals an update against a completed or failed run.
	ErrRunFinished = errors.New("run already finished")
	// ErrEpochBudgetExceeded signals more recorded epochs than the experiment allows.
	ErrEpochBudgetExceeded = errors.New("epoch budget exceeded")
)
