package chi

import (
	"encoding/json"
	"net/http"

	domexp "github.com/fiberlab/expreg/internal/domain/experiment"
	domrun "github.com/fiberlab/expreg/internal/domain/run"
)

// Error codes returned in the JSON error envelope.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeNotFound            = "experiment_not_found"
	codePresetNotFound      = "preset_not_found"
	codeAlreadyExists       = "experiment_already_exists"
	codeRunNotFound         = "run_not_found"
	codeRunFinished         = "run_finished"
	codeEpochBudgetExceeded = "epoch_budget_exceeded"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type registerExperimentRequest struct {
	Name      string           `json:"name"`
	Preset    string           `json:"preset"`
	Overrides domexp.Overrides `json:"overrides"`
}

type experimentResponse struct {
	Name             string              `json:"name"`
	Preset           string              `json:"preset"`
	Task             string              `json:"task"`
	Epochs           int                 `json:"epochs"`
	BatchSize        int                 `json:"batch_size"`
	LearningRate     float64             `json:"learning_rate"`
	Optimizer        string              `json:"optimizer"`
	LossFunction     string              `json:"loss"`
	Model            string              `json:"model"`
	ClassCount       int                 `json:"classes"`
	Resolution       string              `json:"resolution"`
	Features         string              `json:"features"`
	LabelsType       string              `json:"labels_type"`
	DataAugmentation bool                `json:"data_augmentation"`
	Augment          domexp.Augmentation `json:"augment"`
	CreatedAt        int64               `json:"created_at"`
	Revision         int                 `json:"revision"`
}

func specToResponse(spec domexp.Spec) experimentResponse {
	snap := spec.Snapshot()
	return experimentResponse{
		Name:             snap.Name,
		Preset:           snap.Preset,
		Task:             string(snap.Task),
		Epochs:           snap.Epochs,
		BatchSize:        snap.BatchSize,
		LearningRate:     snap.LearningRate,
		Optimizer:        snap.Optimizer,
		LossFunction:     snap.LossFunction,
		Model:            snap.Model,
		ClassCount:       snap.ClassCount,
		Resolution:       snap.Resolution,
		Features:         snap.Features,
		LabelsType:       snap.LabelsType,
		DataAugmentation: snap.DataAugmentation,
		Augment:          snap.Augment,
		CreatedAt:        snap.CreatedAt,
		Revision:         snap.Revision,
	}
}

type presetResponse struct {
	Name             string              `json:"name"`
	Task             string              `json:"task"`
	Epochs           int                 `json:"epochs"`
	BatchSize        int                 `json:"batch_size"`
	LearningRate     float64             `json:"learning_rate"`
	Optimizer        string              `json:"optimizer"`
	LossFunction     string              `json:"loss"`
	Model            string              `json:"model"`
	ClassCount       int                 `json:"classes"`
	Resolution       string              `json:"resolution"`
	Features         string              `json:"features"`
	LabelsType       string              `json:"labels_type"`
	DataAugmentation bool                `json:"data_augmentation"`
	Augment          domexp.Augmentation `json:"augment"`
}

func presetToResponse(p domexp.Preset) presetResponse {
	return presetResponse{
		Name:             p.Name,
		Task:             string(p.Task),
		Epochs:           p.Epochs,
		BatchSize:        p.BatchSize,
		LearningRate:     p.LearningRate,
		Optimizer:        p.Optimizer,
		LossFunction:     p.LossFunction,
		Model:            p.Model,
		ClassCount:       p.ClassCount,
		Resolution:       p.Resolution,
		Features:         p.Features,
		LabelsType:       p.LabelsType,
		DataAugmentation: p.DataAugmentation,
		Augment:          p.Augment,
	}
}

type recordEpochRequest struct {
	Loss float64 `json:"loss"`
}

type finishRunRequest struct {
	Status string `json:"status"`
}

type runResponse struct {
	ID          string   `json:"id"`
	Experiment  string   `json:"experiment"`
	Status      string   `json:"status"`
	EpochBudget int      `json:"epoch_budget"`
	EpochsDone  int      `json:"epochs_done"`
	BestLoss    *float64 `json:"best_loss,omitempty"`
	StartedAt   int64    `json:"started_at"`
	FinishedAt  int64    `json:"finished_at,omitempty"`
}

func runToResponse(run domrun.Run) runResponse {
	resp := runResponse{
		ID:          run.ID(),
		Experiment:  run.Experiment(),
		Status:      string(run.Status()),
		EpochBudget: run.EpochBudget(),
		EpochsDone:  run.EpochsDone(),
		StartedAt:   run.StartedAt(),
		FinishedAt:  run.FinishedAt(),
	}
	if loss, ok := run.BestLoss(); ok {
		resp.BestLoss = &loss
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
