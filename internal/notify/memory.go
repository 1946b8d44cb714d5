package notify

import (
	"sync"

	"screenkeep/internal/catalog"
)

// MemoryNotifier records scheduled reminders in memory so tests can inspect
// them. Safe for concurrent use.
type MemoryNotifier struct {
	mu       sync.Mutex
	pending  map[string]int // screenshot ID -> delay in hours
	canceled []string
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{pending: make(map[string]int)}
}

func (n *MemoryNotifier) Schedule(screenshotID string, afterHours int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending[screenshotID] = afterHours
	return nil
}

func (n *MemoryNotifier) Cancel(screenshotID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.pending, screenshotID)
	n.canceled = append(n.canceled, screenshotID)
	return nil
}

// Pending returns the delay for a scheduled reminder and whether one exists.
func (n *MemoryNotifier) Pending(screenshotID string) (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	hours, ok := n.pending[screenshotID]
	return hours, ok
}

// Canceled returns the IDs Cancel has been called with, in order.
func (n *MemoryNotifier) Canceled() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.canceled...)
}

// Compile-time check that MemoryNotifier implements the catalog.Notifier interface
var _ catalog.Notifier = (*MemoryNotifier)(nil)
