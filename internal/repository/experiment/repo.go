package experiment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fiberlab/expreg/internal/domain"
	domexp "github.com/fiberlab/expreg/internal/domain/experiment"
)

// store is the consumer interface for experiment persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/experiment.Repository.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates an experiment repository.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = "expreg:"
	}
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) key(name string) string {
	return r.keyPrefix + "experiment:" + name
}

// Create stores a new experiment spec. Fails with ErrAlreadyExists on a
// name conflict.
func (r *Repo) Create(ctx context.Context, spec domexp.Spec) error {
	key := r.key(spec.Name())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	hash, err := specToHash(spec)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, key, hash); err != nil {
		return fmt.Errorf("hset experiment %s: %w", spec.Name(), err)
	}
	return nil
}

// Upsert stores an experiment spec, replacing any previous revision. Used by
// the definition-file loader where the file is the source of truth.
func (r *Repo) Upsert(ctx context.Context, spec domexp.Spec) error {
	hash, err := specToHash(spec)
	if err != nil {
		return err
	}
	if err := r.store.HSet(ctx, r.key(spec.Name()), hash); err != nil {
		return fmt.Errorf("hset experiment %s: %w", spec.Name(), err)
	}
	return nil
}

// Get retrieves an experiment by name.
func (r *Repo) Get(ctx context.Context, name string) (domexp.Spec, error) {
	m, err := r.store.HGetAll(ctx, r.key(name))
	if err != nil {
		return domexp.Spec{}, fmt.Errorf("hgetall experiment %s: %w", name, err)
	}
	if len(m) == 0 {
		return domexp.Spec{}, domain.ErrNotFound
	}
	return specFromHash(m)
}

// List returns all experiments sorted by name.
func (r *Repo) List(ctx context.Context) ([]domexp.Spec, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan experiments: %w", err)
	}
	if len(keys) == 0 {
		return []domexp.Spec{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi experiments: %w", err)
	}

	specs := make([]domexp.Spec, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		spec, err := specFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse experiment %s: %w", keys[i], err)
		}
		specs = append(specs, spec)
	}

	sort.Slice(specs, func(i, j int) bool {
		return strings.Compare(specs[i].Name(), specs[j].Name()) < 0
	})

	return specs, nil
}

// Delete removes an experiment.
func (r *Repo) Delete(ctx context.Context, name string) error {
	key := r.key(name)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del experiment %s: %w", name, err)
	}
	return nil
}
