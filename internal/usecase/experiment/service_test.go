package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/fiberlab/expreg/internal/domain"
	domexp "github.com/fiberlab/expreg/internal/domain/experiment"
)

// --- Mocks ---

type mockRepo struct {
	created    domexp.Spec
	upserted   domexp.Spec
	getResult  domexp.Spec
	listResult []domexp.Spec
	createErr  error
	upsertErr  error
	getErr     error
	listErr    error
	deleteErr  error
}

func (m *mockRepo) Create(_ context.Context, spec domexp.Spec) error {
	m.created = spec
	return m.createErr
}

func (m *mockRepo) Upsert(_ context.Context, spec domexp.Spec) error {
	m.upserted = spec
	return m.upsertErr
}

func (m *mockRepo) Get(_ context.Context, _ string) (domexp.Spec, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) List(_ context.Context) ([]domexp.Spec, error) {
	return m.listResult, m.listErr
}

func (m *mockRepo) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// --- Tests ---

func TestRegister_Success(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	spec, err := svc.Register(context.Background(),
		"EndingsSeg_12g90g270g_125mm_DAugAll", "endings_seg",
		domexp.Overrides{Epochs: intPtr(500), DataAugmentation: boolPtr(true)},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Epochs() != 500 {
		t.Errorf("expected 500 epochs, got %d", spec.Epochs())
	}
	if !spec.DataAugmentation() {
		t.Error("expected data augmentation enabled")
	}
	if repo.created.Name() != "EndingsSeg_12g90g270g_125mm_DAugAll" {
		t.Errorf("stored spec has wrong name %q", repo.created.Name())
	}
}

func TestRegister_UnknownPreset(t *testing.T) {
	svc := New(&mockRepo{})

	_, err := svc.Register(context.Background(), "exp", "segnet_base", domexp.Overrides{})
	if !errors.Is(err, domain.ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestRegister_InvalidOverrides(t *testing.T) {
	svc := New(&mockRepo{})

	_, err := svc.Register(context.Background(), "exp", "endings_seg",
		domexp.Overrides{Epochs: intPtr(-5)})
	if !errors.Is(err, domain.ErrInvalidSpec) {
		t.Errorf("expected ErrInvalidSpec, got %v", err)
	}
}

func TestRegister_AlreadyExists(t *testing.T) {
	repo := &mockRepo{createErr: domain.ErrAlreadyExists}
	svc := New(repo)

	_, err := svc.Register(context.Background(), "exp", "endings_seg", domexp.Overrides{})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestSync_Overwrites(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo)

	_, err := svc.Sync(context.Background(), "exp", "tract_seg", domexp.Overrides{Epochs: intPtr(300)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.upserted.Epochs() != 300 {
		t.Errorf("expected upserted spec with 300 epochs, got %d", repo.upserted.Epochs())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := &mockRepo{getErr: domain.ErrNotFound}
	svc := New(repo)

	_, err := svc.Get(context.Background(), "nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_Success(t *testing.T) {
	preset, _ := domexp.PresetByName("tract_seg")
	a, err := domexp.New("a", preset, domexp.Overrides{})
	if err != nil {
		t.Fatalf("domexp.New: %v", err)
	}
	b, err := domexp.New("b", preset, domexp.Overrides{})
	if err != nil {
		t.Fatalf("domexp.New: %v", err)
	}

	svc := New(&mockRepo{listResult: []domexp.Spec{a, b}})
	specs, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(specs) != 2 {
		t.Errorf("expected 2 specs, got %d", len(specs))
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := New(&mockRepo{deleteErr: domain.ErrNotFound})

	err := svc.Delete(context.Background(), "nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPresets(t *testing.T) {
	svc := New(&mockRepo{})

	if len(svc.Presets()) != 4 {
		t.Errorf("expected 4 presets, got %d", len(svc.Presets()))
	}

	p, err := svc.Preset("endings_seg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "endings_seg" {
		t.Errorf("unexpected preset %q", p.Name)
	}

	if _, err := svc.Preset("nope"); !errors.Is(err, domain.ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
}
