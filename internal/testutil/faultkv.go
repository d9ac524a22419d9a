package testutil

import (
	"context"
	"sync"

	"github.com/roach88/onebreath/internal/kv"
)

// FaultyKV wraps a kv.Store and injects failures.
//
// Get failures are counted down: FailGets(2, err) fails the next two Get calls
// and then lets calls through. Set and Remove failures persist until cleared.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FaultyKV struct {
	mu        sync.Mutex
	inner     kv.Store
	getErr    error
	getFails  int
	setErr    error
	removeErr error
	gets      int
	sets      int
}

// NewFaultyKV wraps inner. A nil inner uses a fresh kv.Memory.
func NewFaultyKV(inner kv.Store) *FaultyKV {
	if inner == nil {
		inner = kv.NewMemory()
	}
	return &FaultyKV{inner: inner}
}

// FailGets makes the next n Get calls return err.
func (f *FaultyKV) FailGets(n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getFails, f.getErr = n, err
}

// FailSets makes every Set return err until called with nil.
func (f *FaultyKV) FailSets(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setErr = err
}

// FailRemoves makes every Remove return err until called with nil.
func (f *FaultyKV) FailRemoves(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeErr = err
}

// Gets returns the number of Get calls, failed or not.
func (f *FaultyKV) Gets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

// Sets returns the number of Set calls, failed or not.
func (f *FaultyKV) Sets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

// Inner returns the wrapped store, for inspecting what actually persisted.
func (f *FaultyKV) Inner() kv.Store {
	return f.inner
}

func (f *FaultyKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	f.gets++
	if f.getFails > 0 {
		f.getFails--
		err := f.getErr
		f.mu.Unlock()
		return "", false, err
	}
	f.mu.Unlock()
	return f.inner.Get(ctx, key)
}

func (f *FaultyKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.sets++
	err := f.setErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.inner.Set(ctx, key, value)
}

func (f *FaultyKV) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	err := f.removeErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.inner.Remove(ctx, key)
}
