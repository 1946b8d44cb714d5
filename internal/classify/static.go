package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"screenkeep/internal/catalog"
)

// StaticClassifier resolves labels from a fixed table keyed by content
// checksum. Useful for fixtures and offline runs; unknown content yields
// "no result".
type StaticClassifier struct {
	labels map[string][]catalog.Label // checksum -> ranked labels
}

// staticLabelsFile is the on-disk format for a static label table.
type staticLabelsFile struct {
	Entries []struct {
		Checksum string `toml:"checksum"`
		Labels   []struct {
			Name       string  `toml:"name"`
			Confidence float64 `toml:"confidence"`
		} `toml:"labels"`
	} `toml:"entries"`
}

// NewStaticClassifier creates a classifier over the given table.
func NewStaticClassifier(labels map[string][]catalog.Label) *StaticClassifier {
	if labels == nil {
		labels = make(map[string][]catalog.Label)
	}
	return &StaticClassifier{labels: labels}
}

// LoadStaticClassifier reads a label table from a TOML file.
func LoadStaticClassifier(path string) (*StaticClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading labels file: %w", err)
	}

	var file staticLabelsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding labels file: %w", err)
	}

	labels := make(map[string][]catalog.Label, len(file.Entries))
	for _, e := range file.Entries {
		ranked := make([]catalog.Label, 0, len(e.Labels))
		for _, l := range e.Labels {
			ranked = append(ranked, catalog.Label{Name: l.Name, Confidence: l.Confidence})
		}
		labels[e.Checksum] = ranked
	}
	return NewStaticClassifier(labels), nil
}

// Add registers labels for content. Test helper.
func (c *StaticClassifier) Add(checksum string, labels []catalog.Label) {
	c.labels[checksum] = labels
}

func (c *StaticClassifier) Classify(_ context.Context, image []byte) ([]catalog.Label, error) {
	sum := sha256.Sum256(image)
	return c.labels[hex.EncodeToString(sum[:])], nil
}

// Compile-time check that StaticClassifier implements the catalog.Classifier interface
var _ catalog.Classifier = (*StaticClassifier)(nil)
