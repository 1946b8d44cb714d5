package classify_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"screenkeep/internal/catalog"
	"screenkeep/internal/classify"
	"screenkeep/internal/testutil"
)

func TestStaticClassifier(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves registered content by checksum", func(t *testing.T) {
		c := classify.NewStaticClassifier(nil)
		data := []byte("image")
		c.Add(testutil.SHA256Hex(data), []catalog.Label{
			{Name: "receipt", Confidence: 0.9},
			{Name: "paper", Confidence: 0.6},
		})

		labels, err := c.Classify(ctx, data)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if len(labels) != 2 || labels[0].Name != "receipt" {
			t.Errorf("Classify() = %v, want receipt ranking", labels)
		}
	})

	t.Run("unknown content yields no result", func(t *testing.T) {
		c := classify.NewStaticClassifier(nil)

		labels, err := c.Classify(ctx, []byte("never seen"))
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if len(labels) != 0 {
			t.Errorf("Classify() = %v, want empty", labels)
		}
	})

	t.Run("loads a label table from TOML", func(t *testing.T) {
		data := []byte("fixture image")
		checksum := testutil.SHA256Hex(data)

		content := `
[[entries]]
checksum = "` + checksum + `"

  [[entries.labels]]
  name = "game"
  confidence = 0.75

  [[entries.labels]]
  name = "controller"
  confidence = 0.5
`
		path := filepath.Join(t.TempDir(), "labels.toml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		c, err := classify.LoadStaticClassifier(path)
		if err != nil {
			t.Fatalf("LoadStaticClassifier() error = %v", err)
		}

		labels, err := c.Classify(ctx, data)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if len(labels) != 2 || labels[0].Name != "game" || labels[0].Confidence != 0.75 {
			t.Errorf("Classify() = %v, want game ranking from file", labels)
		}
	})
}
