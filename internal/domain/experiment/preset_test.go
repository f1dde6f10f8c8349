package experiment

import "testing"

func TestPresets_OnePerTaskFamily(t *testing.T) {
	presets := Presets()
	if len(presets) != 4 {
		t.Fatalf("expected 4 presets, got %d", len(presets))
	}

	seen := map[TaskType]bool{}
	for _, p := range presets {
		if !p.Task.IsValid() {
			t.Errorf("preset %q has invalid task %q", p.Name, p.Task)
		}
		if seen[p.Task] {
			t.Errorf("duplicate task family %q", p.Task)
		}
		seen[p.Task] = true
	}
}

func TestPresets_ResolveAsValidSpecs(t *testing.T) {
	// Every base configuration must already be a complete, valid experiment.
	for _, p := range Presets() {
		t.Run(p.Name, func(t *testing.T) {
			if _, err := New("smoke", p, Overrides{}); err != nil {
				t.Errorf("preset does not resolve: %v", err)
			}
		})
	}
}

func TestPresetByName(t *testing.T) {
	p, ok := PresetByName("endings_seg")
	if !ok {
		t.Fatal("endings_seg preset missing")
	}
	if p.Task != TaskEndingsSegmentation {
		t.Errorf("unexpected task %q", p.Task)
	}
	if p.ClassCount != 144 {
		t.Errorf("expected 144 classes, got %d", p.ClassCount)
	}

	if _, ok := PresetByName("nope"); ok {
		t.Error("expected lookup miss for unknown preset")
	}
}

func TestPresets_CallerCannotMutateBuiltins(t *testing.T) {
	Presets()[0].Epochs = 1

	p, _ := PresetByName(Presets()[0].Name)
	if p.Epochs == 1 {
		t.Error("builtin preset mutated through Presets() result")
	}
}
