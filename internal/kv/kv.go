// Package kv defines the key/value text store the journal persists into, and
// an in-memory implementation.
//
// Backends live in subpackages: filekv (one file per key), sqlitekv
// (a single SQLite table) and boltkv (a bbolt bucket). All of them store
// opaque strings; the journal owns the JSON format.
package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// DefaultProbeKey is written and removed to check that a store accepts writes.
const DefaultProbeKey = "__one-breath-storage-test__"

var (
	// ErrUnavailable reports that a store cannot be used at all.
	ErrUnavailable = errors.New("kv: store unavailable")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("kv: store closed")
)

// Store is a string key/value store.
//
// Get returns ok=false, err=nil for a missing key. Remove of a missing key is
// not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Probe performs a trivial write/delete cycle. A nil store is unavailable.
func Probe(ctx context.Context, s Store, key string) error {
	if s == nil {
		return ErrUnavailable
	}
	if key == "" {
		key = DefaultProbeKey
	}
	if err := s.Set(ctx, key, "ok"); err != nil {
		return fmt.Errorf("probe set: %w", err)
	}
	if err := s.Remove(ctx, key); err != nil {
		return fmt.Errorf("probe remove: %w", err)
	}
	return nil
}

// Memory is a map-backed Store, safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
