package catalog_test

import (
	"testing"

	"screenkeep/internal/catalog"
)

func TestPickAppearance(t *testing.T) {
	t.Run("is deterministic for a name", func(t *testing.T) {
		c1, i1 := catalog.PickAppearance("Recipes")
		c2, i2 := catalog.PickAppearance("Recipes")
		if c1 != c2 || i1 != i2 {
			t.Errorf("PickAppearance() unstable: (%s, %s) vs (%s, %s)", c1, i1, c2, i2)
		}
	})

	t.Run("always returns a color and an icon", func(t *testing.T) {
		for _, name := range append([]string{"", "x", "A Very Long Category Name"}, catalog.DefaultCategories...) {
			color, icon := catalog.PickAppearance(name)
			if color == "" || icon == "" {
				t.Errorf("PickAppearance(%q) = (%q, %q), want non-empty", name, color, icon)
			}
		}
	})
}

func TestIsScreenResolution(t *testing.T) {
	t.Run("matches a known resolution", func(t *testing.T) {
		if !catalog.IsScreenResolution(1170, 2532) {
			t.Error("IsScreenResolution(1170, 2532) = false, want true")
		}
	})

	t.Run("matches either orientation", func(t *testing.T) {
		if !catalog.IsScreenResolution(2532, 1170) {
			t.Error("IsScreenResolution(2532, 1170) = false, want true")
		}
	})

	t.Run("rejects arbitrary photo sizes", func(t *testing.T) {
		if catalog.IsScreenResolution(4032, 3024) {
			t.Error("IsScreenResolution(4032, 3024) = true, want false")
		}
		if catalog.IsScreenResolution(0, 0) {
			t.Error("IsScreenResolution(0, 0) = true, want false")
		}
	})
}
