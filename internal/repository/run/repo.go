package run

import (
	"context"
	"fmt"
	"sort"

	"github.com/fiberlab/expreg/internal/domain"
	domrun "github.com/fiberlab/expreg/internal/domain/run"
)

// store is the consumer interface for run persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Repo implements usecase/run.Repository.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a run repository.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = "expreg:"
	}
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "run:" + id
}

// NextID allocates a sequential run id for an experiment via an atomic
// counter, e.g. "EndingsSeg_12g90g270g_125mm_DAugAll-0003".
func (r *Repo) NextID(ctx context.Context, experiment string) (string, error) {
	seq, err := r.store.IncrBy(ctx, r.keyPrefix+"runseq:"+experiment, 1)
	if err != nil {
		return "", fmt.Errorf("incr run sequence for %s: %w", experiment, err)
	}
	return fmt.Sprintf("%s-%04d", experiment, seq), nil
}

// Save persists the run state. Run state is overwritten on every update; the
// harness is the only writer for a given run id.
func (r *Repo) Save(ctx context.Context, run domrun.Run) error {
	if err := r.store.HSet(ctx, r.key(run.ID()), runToHash(run)); err != nil {
		return fmt.Errorf("hset run %s: %w", run.ID(), err)
	}
	return nil
}

// Get retrieves a run by id.
func (r *Repo) Get(ctx context.Context, id string) (domrun.Run, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domrun.Run{}, fmt.Errorf("hgetall run %s: %w", id, err)
	}
	if len(m) == 0 {
		return domrun.Run{}, domain.ErrRunNotFound
	}
	return runFromHash(m)
}

// ListByExperiment returns all runs of an experiment, oldest first.
func (r *Repo) ListByExperiment(ctx context.Context, experiment string) ([]domrun.Run, error) {
	keys, err := r.store.Scan(ctx, r.key(experiment+"-*"))
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	if len(keys) == 0 {
		return []domrun.Run{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi runs: %w", err)
	}

	runs := make([]domrun.Run, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		run, err := runFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse run %s: %w", keys[i], err)
		}
		// The scan pattern also matches experiments whose name extends this
		// one ("exp-b" under pattern "exp-*"); filter on the stored field.
		if run.Experiment() != experiment {
			continue
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt() != runs[j].StartedAt() {
			return runs[i].StartedAt() < runs[j].StartedAt()
		}
		return runs[i].ID() < runs[j].ID()
	})

	return runs, nil
}
