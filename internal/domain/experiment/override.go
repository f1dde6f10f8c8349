package experiment

// Overrides is a partial experiment configuration. Nil fields inherit the
// preset's value; the merge is additive, never a full replacement.
type Overrides struct {
	Epochs           *int          `yaml:"epochs" json:"epochs,omitempty"`
	BatchSize        *int          `yaml:"batch_size" json:"batch_size,omitempty"`
	LearningRate     *float64      `yaml:"learning_rate" json:"learning_rate,omitempty"`
	Optimizer        *string       `yaml:"optimizer" json:"optimizer,omitempty"`
	LossFunction     *string       `yaml:"loss" json:"loss,omitempty"`
	ClassCount       *int          `yaml:"classes" json:"classes,omitempty"`
	Resolution       *string       `yaml:"resolution" json:"resolution,omitempty"`
	Features         *string       `yaml:"features" json:"features,omitempty"`
	LabelsType       *string       `yaml:"labels_type" json:"labels_type,omitempty"`
	DataAugmentation *bool         `yaml:"data_augmentation" json:"data_augmentation,omitempty"`
	Augment          *Augmentation `yaml:"augment" json:"augment,omitempty"`
}

// IsZero reports whether no field is overridden.
func (o Overrides) IsZero() bool {
	return o.Epochs == nil &&
		o.BatchSize == nil &&
		o.LearningRate == nil &&
		o.Optimizer == nil &&
		o.LossFunction == nil &&
		o.ClassCount == nil &&
		o.Resolution == nil &&
		o.Features == nil &&
		o.LabelsType == nil &&
		o.DataAugmentation == nil &&
		o.Augment == nil
}

func (o Overrides) apply(s *Spec) {
	if o.Epochs != nil {
		s.epochs = *o.Epochs
	}
	if o.BatchSize != nil {
		s.batchSize = *o.BatchSize
	}
	if o.LearningRate != nil {
		s.learningRate = *o.LearningRate
	}
	if o.Optimizer != nil {
		s.optimizer = *o.Optimizer
	}
	if o.LossFunction != nil {
		s.lossFunction = *o.LossFunction
	}
	if o.ClassCount != nil {
		s.classCount = *o.ClassCount
	}
	if o.Resolution != nil {
		s.resolution = *o.Resolution
	}
	if o.Features != nil {
		s.features = *o.Features
	}
	if o.LabelsType != nil {
		s.labelsType = *o.LabelsType
	}
	if o.DataAugmentation != nil {
		s.dataAugmentation = *o.DataAugmentation
	}
	if o.Augment != nil {
		s.augment = *o.Augment
	}
}
