// Package prefstore provides the key-value slots the filter snapshot is persisted in.
// One value per key, replaced wholesale on every write.
package prefstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNotFound is returned by Get when nothing was stored under the key.
var ErrNotFound = errors.New("prefstore: key not found")

// Slot is a persistent string key-value store.
type Slot interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Open builds a slot from a backend name and its target: a directory for file,
// a database path or DSN for sqlite/postgres, an address for redis.
func Open(ctx context.Context, backend, target string) (Slot, error) {
	b := strings.ToLower(strings.TrimSpace(backend))
	switch b {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(target), nil
	case BackendSQLite, BackendPostgres:
		d := DialectSQLite
		if b == BackendPostgres {
			d = DialectPostgres
		}
		s, err := OpenSQL(ctx, d, target)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		r, err := DialRedis(ctx, target, "")
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown preference backend %q", backend)
	}
}

// Memory keeps values for the life of the process.
type Memory struct {
	mu   sync.RWMutex
	vals map[string]string
}

func NewMemory() *Memory { return &Memory{vals: map[string]string{}} }

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vals[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.vals[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
