package experiment

// Preset is a named base configuration. Every field is a default that an
// experiment's overrides may replace.
type Preset struct {
	Name             string
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
}

// fullAugment enables every augmentation transform.
var fullAugment = Augmentation{
	Scale:         true,
	Noise:         true,
	Rotate:        true,
	ElasticDeform: true,
	Flip:          true,
}

// builtins are the base configurations, one per task family. The shared
// defaults (batch 47, lr 1e-3, adamax, unet, 1.25mm, 250 epochs) come from
// the upstream training pipeline; augmentation is off in every base and is
// enabled per experiment.
var builtins = []Preset{
	{
		Name:         "tract_seg",
		Task:         TaskTractSegmentation,
		Epochs:       250,
		BatchSize:    47,
		LearningRate: 1e-3,
		Optimizer:    "adamax",
		LossFunction: "bce",
		Model:        "unet",
		ClassCount:   72,
		Resolution:   "1.25mm",
		Features:     "12g90g270g_CSD_BX",
		LabelsType:   "int",
		Augment:      fullAugment,
	},
	{
		Name:         "endings_seg",
		Task:         TaskEndingsSegmentation,
		Epochs:       250,
		BatchSize:    47,
		LearningRate: 1e-3,
		Optimizer:    "adamax",
		LossFunction: "bce",
		Model:        "unet",
		ClassCount:   144, // 72 bundles x start/end region
		Resolution:   "1.25mm",
		Features:     "12g90g270g_CSD_BX",
		LabelsType:   "int",
		Augment:      fullAugment,
	},
	{
		Name:         "peak_reg",
		Task:         TaskPeakRegression,
		Epochs:       250,
		BatchSize:    44,
		LearningRate: 1e-3,
		Optimizer:    "adamax",
		LossFunction: "angle_length",
		Model:        "unet",
		ClassCount:   216, // 72 bundles x 3 peak components
		Resolution:   "1.25mm",
		Features:     "12g90g270g_CSD_BX",
		LabelsType:   "float",
		Augment:      fullAugment,
	},
	{
		Name:         "dm_reg",
		Task:         TaskDMRegression,
		Epochs:       250,
		BatchSize:    47,
		LearningRate: 1e-3,
		Optimizer:    "adamax",
		LossFunction: "mse",
		Model:        "unet",
		ClassCount:   72,
		Resolution:   "1.25mm",
		Features:     "12g90g270g_CSD_BX",
		LabelsType:   "float",
		Augment:      fullAugment,
	},
}

// Presets returns the built-in base configurations.
func Presets() []Preset {
	out := make([]Preset, len(builtins))
	copy(out, builtins)
	return out
}

// PresetByName looks up a built-in preset.
func PresetByName(name string) (Preset, bool) {
	for _, p := range builtins {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
