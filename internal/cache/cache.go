// Package cache stores finished translations so repeated demo requests do
// not reach the model Lambda.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/rutooro/translation-manager/internal/domain"
)

// Cache looks up and stores translations. A miss returns ok == false and a
// nil error.
type Cache interface {
	Get(ctx context.Context, dir domain.Direction, text string) (translation string, ok bool, err error)
	Set(ctx context.Context, dir domain.Direction, text, translation string) error
}

// Key returns the cache key for text in a direction. Texts are hashed so
// keys stay short whatever the input length.
func Key(dir domain.Direction, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "ttj:translation:" + string(dir) + ":" + hex.EncodeToString(sum[:])
}

// Memory is an in-process Cache bounded to a fixed number of entries.
// When full, an arbitrary entry is evicted.
type Memory struct {
	mu      sync.Mutex
	entries map[string]string
	max     int
}

// NewMemory creates a Memory cache holding at most size entries (0 = 1024).
func NewMemory(size int) *Memory {
	if size <= 0 {
		size = 1024
	}
	return &Memory{entries: make(map[string]string), max: size}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, dir domain.Direction, text string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[Key(dir, text)]
	return v, ok, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, dir domain.Direction, text, translation string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := Key(dir, text)
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.max {
		for k := range m.entries {
			delete(m.entries, k)
			break
		}
	}
	m.entries[key] = translation
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
