package experiment

import (
	"fmt"
	"regexp"
	"time"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// TaskType distinguishes the training task families.
type TaskType string

const (
	// TaskTractSegmentation is voxel-wise bundle segmentation.
	TaskTractSegmentation TaskType = "tract_segmentation"
	// TaskEndingsSegmentation is bundle start/end region segmentation.
	TaskEndingsSegmentation TaskType = "endings_segmentation"
	// TaskPeakRegression is per-bundle fiber peak regression.
	TaskPeakRegression TaskType = "peak_regression"
	// TaskDMRegression is tract density map regression.
	TaskDMRegression TaskType = "dm_regression"
)

// IsValid checks if the task type is supported.
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTractSegmentation, TaskEndingsSegmentation, TaskPeakRegression, TaskDMRegression:
		return true
	}
	return false
}

// Augmentation holds per-transform data augmentation switches.
type Augmentation struct {
	Scale         bool `yaml:"scale" json:"scale"`
	Noise         bool `yaml:"noise" json:"noise"`
	Rotate        bool `yaml:"rotate" json:"rotate"`
	ElasticDeform bool `yaml:"elastic_deform" json:"elastic_deform"`
	Flip          bool `yaml:"flip" json:"flip"`
}

// Spec is a fully resolved experiment configuration (immutable value object).
// It is produced by overlaying partial overrides on a preset; fields the
// overrides leave unset keep the preset's values.
type Spec struct {
	name             string
	preset           string
	task             TaskType
	epochs           int
	batchSize        int
	learningRate     float64
	optimizer        string
	lossFunction     string
	model            string
	classCount       int
	resolution       string
	features         string
	labelsType       string
	dataAugmentation bool
	augment          Augmentation
	createdAt        int64
	revision         int
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("experiment name is required")
	}
	if len(name) > 96 {
		return fmt.Errorf("experiment name too long (max 96)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("experiment name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

var validOptimizers = map[string]struct{}{
	"adamax": {},
	"adam":   {},
	"sgd":    {},
}

var validLabelsTypes = map[string]struct{}{
	"int":   {},
	"float": {},
}

func (s Spec) validate() error {
	if err := validateName(s.name); err != nil {
		return err
	}
	if !s.task.IsValid() {
		return fmt.Errorf("invalid task type: %q", s.task)
	}
	if s.epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", s.epochs)
	}
	if s.batchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", s.batchSize)
	}
	if s.learningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %g", s.learningRate)
	}
	if _, ok := validOptimizers[s.optimizer]; !ok {
		return fmt.Errorf("unsupported optimizer: %q", s.optimizer)
	}
	if s.lossFunction == "" {
		return fmt.Errorf("loss function is required")
	}
	if s.model == "" {
		return fmt.Errorf("model is required")
	}
	if s.classCount <= 0 {
		return fmt.Errorf("class count must be positive, got %d", s.classCount)
	}
	if s.resolution == "" {
		return fmt.Errorf("resolution is required")
	}
	if _, ok := validLabelsTypes[s.labelsType]; !ok {
		return fmt.Errorf("unsupported labels type: %q", s.labelsType)
	}
	return nil
}

// New resolves an experiment Spec: the preset supplies every default, the
// overrides replace only the fields they set. Name: ^[a-zA-Z0-9_-]+$, 1-96
// chars.
func New(name string, preset Preset, ov Overrides) (Spec, error) {
	s := Spec{
		name:             name,
		preset:           preset.Name,
		task:             preset.Task,
		epochs:           preset.Epochs,
		batchSize:        preset.BatchSize,
		learningRate:     preset.LearningRate,
		optimizer:        preset.Optimizer,
		lossFunction:     preset.LossFunction,
		model:            preset.Model,
		classCount:       preset.ClassCount,
		resolution:       preset.Resolution,
		features:         preset.Features,
		labelsType:       preset.LabelsType,
		dataAugmentation: preset.DataAugmentation,
		augment:          preset.Augment,
		createdAt:        time.Now().UnixMilli(),
		revision:         1,
	}
	ov.apply(&s)

	if err := s.validate(); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// Snapshot is the flat field set of a Spec, used for storage hydration.
type Snapshot struct {
	Name             string
	Preset           string
	Task             TaskType
	Epochs           int
	BatchSize        int
	LearningRate     float64
	Optimizer        string
	LossFunction     string
	Model            string
	ClassCount       int
	Resolution       string
	Features         string
	LabelsType       string
	DataAugmentation bool
	Augment          Augmentation
	CreatedAt        int64
	Revision         int
}

// Reconstruct creates a Spec without validation (storage hydration).
func Reconstruct(snap Snapshot) Spec {
	return Spec{
		name:             snap.Name,
		preset:           snap.Preset,
		task:             snap.Task,
		epochs:           snap.Epochs,
		batchSize:        snap.BatchSize,
		learningRate:     snap.LearningRate,
		optimizer:        snap.Optimizer,
		lossFunction:     snap.LossFunction,
		model:            snap.Model,
		classCount:       snap.ClassCount,
		resolution:       snap.Resolution,
		features:         snap.Features,
		labelsType:       snap.LabelsType,
		dataAugmentation: snap.DataAugmentation,
		augment:          snap.Augment,
		createdAt:        snap.CreatedAt,
		revision:         snap.Revision,
	}
}

// Snapshot returns the flat field set of the Spec.
func (s Spec) Snapshot() Snapshot {
	return Snapshot{
		Name:             s.name,
		Preset:           s.preset,
		Task:             s.task,
		Epochs:           s.epochs,
		BatchSize:        s.batchSize,
		LearningRate:     s.learningRate,
		Optimizer:        s.optimizer,
		LossFunction:     s.lossFunction,
		Model:            s.model,
		ClassCount:       s.classCount,
		Resolution:       s.resolution,
		Features:         s.features,
		LabelsType:       s.labelsType,
		DataAugmentation: s.dataAugmentation,
		Augment:          s.augment,
		CreatedAt:        s.createdAt,
		Revision:         s.revision,
	}
}

// Name returns the experiment name.
func (s Spec) Name() string { return s.name }

// Preset returns the name of the base configuration this Spec was resolved from.
func (s Spec) Preset() string { return s.preset }

// Task returns the training task family.
func (s Spec) Task() TaskType { return s.task }

// Epochs returns the number of training epochs.
func (s Spec) Epochs() int { return s.epochs }

// BatchSize returns the training batch size.
func (s Spec) BatchSize() int { return s.batchSize }

// LearningRate returns the optimizer learning rate.
func (s Spec) LearningRate() float64 { return s.learningRate }

// Optimizer returns the optimizer name.
func (s Spec) Optimizer() string { return s.optimizer }

// LossFunction returns the training loss function name.
func (s Spec) LossFunction() string { return s.lossFunction }

// Model returns the network architecture name.
func (s Spec) Model() string { return s.model }

// ClassCount returns the number of output classes.
func (s Spec) ClassCount() int { return s.classCount }

// Resolution returns the input resampling resolution.
func (s Spec) Resolution() string { return s.resolution }

// Features returns the dataset features file stem.
func (s Spec) Features() string { return s.features }

// LabelsType returns the label value type (int or float).
func (s Spec) LabelsType() string { return s.labelsType }

// DataAugmentation reports whether training-time augmentation is enabled.
func (s Spec) DataAugmentation() bool { return s.dataAugmentation }

// Augment returns the per-transform augmentation switches.
func (s Spec) Augment() Augmentation { return s.augment }

// CreatedAt returns the creation timestamp (unix millis).
func (s Spec) CreatedAt() int64 { return s.createdAt }

// Revision returns the storage revision.
func (s Spec) Revision() int { return s.revision }
