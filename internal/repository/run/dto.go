package run

import (
	"fmt"
	"strconv"

	domrun "github.com/fiberlab/expreg/internal/domain/run"
)

// runToHash converts a domain Run to a map for HSET.
func runToHash(run domrun.Run) map[string]string {
	snap := run.Snapshot()
	m := map[string]string{
		"id":           snap.ID,
		"experiment":   snap.Experiment,
		"status":       string(snap.Status),
		"epoch_budget": strconv.Itoa(snap.EpochBudget),
		"epochs_done":  strconv.Itoa(snap.EpochsDone),
		"started_at":   strconv.FormatInt(snap.StartedAt, 10),
		"finished_at":  strconv.FormatInt(snap.FinishedAt, 10),
	}
	if snap.HasBestLoss {
		m["best_loss"] = strconv.FormatFloat(snap.BestLoss, 'g', -1, 64)
	}
	return m
}

// runFromHash hydrates a domain Run from an HGETALL result map.
func runFromHash(m map[string]string) (domrun.Run, error) {
	snap := domrun.Snapshot{
		ID:         m["id"],
		Experiment: m["experiment"],
		Status:     domrun.Status(m["status"]),
	}

	var err error
	if snap.EpochBudget, err = strconv.Atoi(m["epoch_budget"]); err != nil {
		return domrun.Run{}, fmt.Errorf("invalid epoch_budget: %w", err)
	}
	if snap.EpochsDone, err = strconv.Atoi(m["epochs_done"]); err != nil {
		return domrun.Run{}, fmt.Errorf("invalid epochs_done: %w", err)
	}
	if snap.StartedAt, err = strconv.ParseInt(m["started_at"], 10, 64); err != nil {
		return domrun.Run{}, fmt.Errorf("invalid started_at: %w", err)
	}
	if snap.FinishedAt, err = strconv.ParseInt(m["finished_at"], 10, 64); err != nil {
		return domrun.Run{}, fmt.Errorf("invalid finished_at: %w", err)
	}

	if lossStr, ok := m["best_loss"]; ok && lossStr != "" {
		if snap.BestLoss, err = strconv.ParseFloat(lossStr, 64); err != nil {
			return domrun.Run{}, fmt.Errorf("invalid best_loss: %w", err)
		}
		snap.HasBestLoss = true
	}

	return domrun.Reconstruct(snap), nil
}
