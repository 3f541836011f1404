// ABOUTME: In-memory Bucket for tests and throwaway sessions.
// ABOUTME: Values are copied on the way in and out.
package storage

import (
	"strings"
	"sync"
)

// MemoryBucket is a map-backed Bucket safe for concurrent use.
type MemoryBucket struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBucket returns an empty bucket.
func NewMemoryBucket() *MemoryBucket {
	return &MemoryBucket{data: make(map[string][]byte)}
}

// NewMemoryBackend returns a Backend that forgets everything on exit.
func NewMemoryBackend() *KVBackend {
	return NewKVBackend(NewMemoryBucket())
}

func (m *MemoryBucket) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBucket) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBucket) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryBucket) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *MemoryBucket) Close() error {
	return nil
}
