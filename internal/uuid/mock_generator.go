package uuid

import (
	"fmt"
	"sync"
)

// MockGenerator implements Generator for testing with predetermined IDs
type MockGenerator struct {
	mu    sync.Mutex
	next  int
	fixed []string
}

// NewMockGenerator creates a mock generator that issues sequential IDs
// ("id-1", "id-2", ...) unless explicit values are set
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// SetIDs sets the IDs returned by subsequent New calls; once exhausted the
// generator falls back to sequential IDs
func (m *MockGenerator) SetIDs(ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixed = ids
}

// New returns the next predetermined or sequential ID
func (m *MockGenerator) New() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.fixed) > 0 {
		id := m.fixed[0]
		m.fixed = m.fixed[1:]
		return id
	}

	m.next++
	return fmt.Sprintf("id-%d", m.next)
}
