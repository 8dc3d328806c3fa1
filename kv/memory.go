package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Backend. A non-zero quota caps the total number of
// bytes held across all keys, the way browser storage does.
type Memory struct {
	mu    sync.RWMutex
	data  map[string][]byte
	quota int
	used  int
}

// NewMemory returns an empty Memory backend. quota <= 0 means unlimited.
func NewMemory(quota int) *Memory {
	return &Memory{data: make(map[string][]byte), quota: quota}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.used - len(m.data[key]) + len(value)
	if m.quota > 0 && next > m.quota {
		return ErrQuotaExceeded
	}
	m.data[key] = append([]byte(nil), value...)
	m.used = next
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	m.used -= len(m.data[key])
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
