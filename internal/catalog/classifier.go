package catalog

import "context"

// MaxLabels caps how many ranked labels the pipeline considers per image.
const MaxLabels = 5

// Label is one entry in a classifier's ranked output.
type Label struct {
	Name       string
	Confidence float64 // in [0, 1]
}

// Classifier produces ranked content labels for an encoded image.
// It is a black-box capability: any implementation (on-device model, remote
// service, fixture) must return a ranked label list, an empty list, or an
// error. Errors and empty lists both mean "no result" — the pipeline falls
// back to the catch-all category rather than aborting. Classify must be
// stateless per call and free of side effects; it may be slow, so callers
// pass a context and stay off the interactive path.
type Classifier interface {
	Classify(ctx context.Context, image []byte) ([]Label, error)
}
