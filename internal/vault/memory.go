package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"screenkeep/internal/catalog"
)

// MemoryVault is an in-memory implementation of the Vault interface.
// It stores all content in memory, making it useful for testing.
// This implementation is safe for concurrent use.
type MemoryVault struct {
	name    string
	content map[string][]byte // checksum -> encoded image bytes
	mu      sync.RWMutex
}

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:    name,
		content: make(map[string][]byte),
	}
}

// PutContent stores content identified by its checksum.
func (m *MemoryVault) PutContent(checksum string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Idempotent: storing the same checksum multiple times is safe
	m.content[checksum] = data
	return nil
}

// GetContent retrieves content by checksum.
func (m *MemoryVault) GetContent(checksum string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.content[checksum]
	if !ok {
		return fmt.Errorf("content not found: %s", checksum)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}

	return nil
}

// DeleteContent removes content by checksum. Absent content is a no-op.
func (m *MemoryVault) DeleteContent(checksum string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.content, checksum)
	return nil
}

// Len reports how many content items the vault holds. Test helper.
func (m *MemoryVault) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.content)
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

// Compile-time check that MemoryVault implements the catalog.Vault interface
var _ catalog.Vault = (*MemoryVault)(nil)
