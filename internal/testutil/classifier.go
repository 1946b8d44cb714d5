package testutil

import (
	"context"
	"sync"

	"screenkeep/internal/catalog"
)

// StubClassifier returns a fixed label ranking for every image, or a fixed
// error. It counts calls so tests can assert classification ran.
type StubClassifier struct {
	mu     sync.Mutex
	Labels []catalog.Label
	Err    error
	calls  int
}

// NewStubClassifier creates a classifier returning the given ranking.
func NewStubClassifier(labels ...catalog.Label) *StubClassifier {
	return &StubClassifier{Labels: labels}
}

func (c *StubClassifier) Classify(_ context.Context, _ []byte) ([]catalog.Label, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Labels, nil
}

// Calls returns how many times Classify has been invoked.
func (c *StubClassifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// SetLabels replaces the ranking returned by subsequent Classify calls.
func (c *StubClassifier) SetLabels(labels ...catalog.Label) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Labels = labels
	c.Err = nil
}
