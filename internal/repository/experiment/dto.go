package experiment

import (
	"encoding/json"
	"fmt"
	"strconv"

	domexp "github.com/fiberlab/expreg/internal/domain/experiment"
)

// specToHash converts a domain Spec to a map for HSET.
func specToHash(spec domexp.Spec) (map[string]string, error) {
	snap := spec.Snapshot()

	augJSON, err := json.Marshal(snap.Augment)
	if err != nil {
		return nil, fmt.Errorf("marshal augment: %w", err)
	}

	return map[string]string{
		"name":              snap.Name,
		"preset":            snap.Preset,
		"task":              string(snap.Task),
		"epochs":            strconv.Itoa(snap.Epochs),
		"batch_size":        strconv.Itoa(snap.BatchSize),
		"learning_rate":     strconv.FormatFloat(snap.LearningRate, 'g', -1, 64),
		"optimizer":         snap.Optimizer,
		"loss":              snap.LossFunction,
		"model":             snap.Model,
		"classes":           strconv.Itoa(snap.ClassCount),
		"resolution":        snap.Resolution,
		"features":          snap.Features,
		"labels_type":       snap.LabelsType,
		"data_augmentation": strconv.FormatBool(snap.DataAugmentation),
		"augment_json":      string(augJSON),
		"created_at":        strconv.FormatInt(snap.CreatedAt, 10),
		"revision":          strconv.Itoa(snap.Revision),
	}, nil
}

// specFromHash hydrates a domain Spec from an HGETALL result map.
func specFromHash(m map[string]string) (domexp.Spec, error) {
	snap := domexp.Snapshot{
		Name:         m["name"],
		Preset:       m["preset"],
		Task:         domexp.TaskType(m["task"]),
		Optimizer:    m["optimizer"],
		LossFunction: m["loss"],
		Model:        m["model"],
		Resolution:   m["resolution"],
		Features:     m["features"],
		LabelsType:   m["labels_type"],
		Revision:     1,
	}

	var err error
	if snap.Epochs, err = strconv.Atoi(m["epochs"]); err != nil {
		return domexp.Spec{}, fmt.Errorf("invalid epochs: %w", err)
	}
	if snap.BatchSize, err = strconv.Atoi(m["batch_size"]); err != nil {
		return domexp.Spec{}, fmt.Errorf("invalid batch_size: %w", err)
	}
	if snap.LearningRate, err = strconv.ParseFloat(m["learning_rate"], 64); err != nil {
		return domexp.Spec{}, fmt.Errorf("invalid learning_rate: %w", err)
	}
	if snap.ClassCount, err = strconv.Atoi(m["classes"]); err != nil {
		return domexp.Spec{}, fmt.Errorf("invalid classes: %w", err)
	}
	if snap.CreatedAt, err = strconv.ParseInt(m["created_at"], 10, 64); err != nil {
		return domexp.Spec{}, fmt.Errorf("invalid created_at: %w", err)
	}
	snap.DataAugmentation = m["data_augmentation"] == "true"

	if augJSON := m["augment_json"]; augJSON != "" {
		if err := json.Unmarshal([]byte(augJSON), &snap.Augment); err != nil {
			return domexp.Spec{}, fmt.Errorf("unmarshal augment: %w", err)
		}
	}

	if revStr, ok := m["revision"]; ok && revStr != "" {
		if parsed, err := strconv.Atoi(revStr); err == nil {
			snap.Revision = parsed
		}
	}

	return domexp.Reconstruct(snap), nil
}
