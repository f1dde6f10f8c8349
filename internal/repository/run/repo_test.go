package run

import (
	"context"
	"errors"
	"testing"

	"github.com/fiberlab/expreg/internal/domain"
	domrun "github.com/fiberlab/expreg/internal/domain/run"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	incrByFn       func(ctx context.Context, key string, val int64) (int64, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) IncrBy(ctx context.Context, key string, val int64) (int64, error) {
	if m.incrByFn != nil {
		return m.incrByFn(ctx, key, val)
	}
	return 1, nil
}

func testRun(t *testing.T, id string) domrun.Run {
	t.Helper()
	r, err := domrun.New(id, "exp", 500)
	if err != nil {
		t.Fatalf("domrun.New: %v", err)
	}
	return r
}

func TestNextID_SequencePerExperiment(t *testing.T) {
	ms := &mockStore{}
	var gotKey string
	ms.incrByFn = func(_ context.Context, key string, _ int64) (int64, error) {
		gotKey = key
		return 3, nil
	}
	repo := New(ms, "expreg:")

	id, err := repo.NextID(context.Background(), "exp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "exp-0003" {
		t.Errorf("expected id exp-0003, got %q", id)
	}
	if gotKey != "expreg:runseq:exp" {
		t.Errorf("unexpected counter key %q", gotKey)
	}
}

func TestSave_Get_RoundTrip(t *testing.T) {
	ms := &mockStore{}
	stored := map[string]map[string]string{}
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		stored[key] = fields
		return nil
	}
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		return stored[key], nil
	}
	repo := New(ms, "expreg:")

	run := testRun(t, "exp-0001")
	run, err := run.RecordEpoch(0.42)
	if err != nil {
		t.Fatalf("RecordEpoch: %v", err)
	}

	if err := repo.Save(context.Background(), run); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(context.Background(), "exp-0001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != run {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got.Snapshot(), run.Snapshot())
	}
}

func TestSave_RoundTrip_NoLoss(t *testing.T) {
	ms := &mockStore{}
	stored := map[string]map[string]string{}
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		stored[key] = fields
		return nil
	}
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		return stored[key], nil
	}
	repo := New(ms, "expreg:")

	run := testRun(t, "exp-0001")
	if err := repo.Save(context.Background(), run); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(context.Background(), "exp-0001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := got.BestLoss(); ok {
		t.Error("expected no best loss before any epoch")
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(&mockStore{}, "expreg:")

	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestListByExperiment_FiltersPrefixCollisions(t *testing.T) {
	ms := &mockStore{}

	mine := testRun(t, "exp-0001")
	other, err := domrun.New("exp-b-0001", "exp-b", 100)
	if err != nil {
		t.Fatalf("domrun.New: %v", err)
	}

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "expreg:run:exp-*" {
			t.Errorf("unexpected scan pattern %q", pattern)
		}
		return []string{"expreg:run:exp-0001", "expreg:run:exp-b-0001"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		return []map[string]string{runToHash(mine), runToHash(other)}, nil
	}

	repo := New(ms, "expreg:")
	runs, err := repo.ListByExperiment(context.Background(), "exp")
	if err != nil {
		t.Fatalf("ListByExperiment: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID() != "exp-0001" {
		t.Errorf("unexpected run %q", runs[0].ID())
	}
}

func TestListByExperiment_Empty(t *testing.T) {
	repo := New(&mockStore{}, "expreg:")

	runs, err := repo.ListByExperiment(context.Background(), "exp")
	if err != nil {
		t.Fatalf("ListByExperiment: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}
