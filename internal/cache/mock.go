package cache

import (
	"context"
	"sync"
)

// MockCache is an in-memory stand-in used in tests and when Redis is not
// configured locally.
type MockCache struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewMockCache() *MockCache {
	return &MockCache{seen: make(map[string]bool)}
}

func (m *MockCache) Close() error {
	return nil
}

func (m *MockCache) IsSeen(_ context.Context, fp string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[fp], nil
}

func (m *MockCache) MarkSeen(_ context.Context, fp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[fp] = true
	return nil
}

func (m *MockCache) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = make(map[string]bool)
	return nil
}
