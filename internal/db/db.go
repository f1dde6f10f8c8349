package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces. Consumers
// declare narrow interfaces with only the operations they use.
type Store interface {
	Pinger
	HashStore
	Counter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Counter provides atomic counters, used for run sequence numbers.
type Counter interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}
