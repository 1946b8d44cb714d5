package classify

import (
	"context"

	"screenkeep/internal/catalog"
)

// NoneClassifier is the null capability: every image yields "no result",
// so everything lands in the catch-all category. Used when no classifier
// is configured.
type NoneClassifier struct{}

func NewNoneClassifier() *NoneClassifier { return &NoneClassifier{} }

func (*NoneClassifier) Classify(context.Context, []byte) ([]catalog.Label, error) {
	return nil, nil
}

// Compile-time check that NoneClassifier implements the catalog.Classifier interface
var _ catalog.Classifier = (*NoneClassifier)(nil)
