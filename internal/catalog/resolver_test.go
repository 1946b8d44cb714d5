package catalog_test

import (
	"math"
	"testing"

	"screenkeep/internal/catalog"
)

func TestResolveCategory(t *testing.T) {
	t.Run("empty label list resolves to fallback with zero confidence", func(t *testing.T) {
		name, confidence := catalog.ResolveCategory(nil)
		if name != catalog.FallbackCategory {
			t.Errorf("ResolveCategory() name = %q, want %q", name, catalog.FallbackCategory)
		}
		if confidence != 0.0 {
			t.Errorf("ResolveCategory() confidence = %v, want 0.0", confidence)
		}
	})

	t.Run("top label drives the category", func(t *testing.T) {
		labels := []catalog.Label{
			{Name: "receipt", Confidence: 0.9},
			{Name: "game", Confidence: 0.8},
		}
		name, confidence := catalog.ResolveCategory(labels)
		if name != "Documents" {
			t.Errorf("ResolveCategory() name = %q, want Documents", name)
		}
		if math.Abs(confidence-0.85) > 1e-9 {
			t.Errorf("ResolveCategory() confidence = %v, want 0.85", confidence)
		}
	})

	t.Run("confidence averages at most the top five labels", func(t *testing.T) {
		labels := []catalog.Label{
			{Name: "food", Confidence: 1.0},
			{Name: "meal", Confidence: 0.8},
			{Name: "drink", Confidence: 0.6},
			{Name: "restaurant", Confidence: 0.4},
			{Name: "recipe", Confidence: 0.2},
			{Name: "junk", Confidence: 0.0}, // beyond the window, must not count
		}
		_, confidence := catalog.ResolveCategory(labels)
		if math.Abs(confidence-0.6) > 1e-9 {
			t.Errorf("ResolveCategory() confidence = %v, want 0.6", confidence)
		}
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		name, _ := catalog.ResolveCategory([]catalog.Label{{Name: "Receipt", Confidence: 0.5}})
		if name != "Documents" {
			t.Errorf("ResolveCategory() name = %q, want Documents", name)
		}
	})

	t.Run("label containing a vocabulary term matches", func(t *testing.T) {
		name, _ := catalog.ResolveCategory([]catalog.Label{{Name: "storefront", Confidence: 0.5}})
		if name != "Shopping" {
			t.Errorf("ResolveCategory() name = %q, want Shopping", name)
		}
	})

	t.Run("label contained in a vocabulary term matches", func(t *testing.T) {
		name, _ := catalog.ResolveCategory([]catalog.Label{{Name: "doc", Confidence: 0.5}})
		if name != "Documents" {
			t.Errorf("ResolveCategory() name = %q, want Documents", name)
		}
	})

	t.Run("unknown label resolves to fallback keeping confidence", func(t *testing.T) {
		name, confidence := catalog.ResolveCategory([]catalog.Label{{Name: "zebra", Confidence: 0.7}})
		if name != catalog.FallbackCategory {
			t.Errorf("ResolveCategory() name = %q, want %q", name, catalog.FallbackCategory)
		}
		if math.Abs(confidence-0.7) > 1e-9 {
			t.Errorf("ResolveCategory() confidence = %v, want 0.7", confidence)
		}
	})

	t.Run("blank label name resolves to fallback", func(t *testing.T) {
		name, _ := catalog.ResolveCategory([]catalog.Label{{Name: "   ", Confidence: 0.5}})
		if name != catalog.FallbackCategory {
			t.Errorf("ResolveCategory() name = %q, want %q", name, catalog.FallbackCategory)
		}
	})

	t.Run("same input always yields the same result", func(t *testing.T) {
		labels := []catalog.Label{{Name: "price tag collection", Confidence: 0.42}}
		firstName, firstConf := catalog.ResolveCategory(labels)
		for i := 0; i < 20; i++ {
			name, conf := catalog.ResolveCategory(labels)
			if name != firstName || conf != firstConf {
				t.Fatalf("ResolveCategory() unstable: (%q, %v) vs (%q, %v)", name, conf, firstName, firstConf)
			}
		}
	})
}

func TestDefaultCategories(t *testing.T) {
	if got := catalog.DefaultCategories[len(catalog.DefaultCategories)-1]; got != catalog.FallbackCategory {
		t.Errorf("last default category = %q, want %q", got, catalog.FallbackCategory)
	}

	seen := make(map[string]bool)
	for _, name := range catalog.DefaultCategories {
		if seen[name] {
			t.Errorf("duplicate default category %q", name)
		}
		seen[name] = true
	}
}
