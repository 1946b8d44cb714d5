package catalog

import "hash/fnv"

// Fixed palettes for auto-created categories. Appearance selection hashes the
// category name, so the same name always gets the same color and icon and
// tests stay reproducible.
var (
	categoryColors = []string{
		"#4A90D2",
		"#E94E3C",
		"#50B86C",
		"#F5A623",
		"#9B59B6",
		"#1ABC9C",
		"#E67E22",
		"#34495E",
		"#D35492",
		"#7F8C8D",
	}
	categoryIcons = []string{
		"folder",
		"tag",
		"star",
		"bookmark",
		"camera",
		"globe",
		"bolt",
		"heart",
		"leaf",
		"flag",
	}
)

// PickAppearance chooses a color and icon for a category name from the fixed
// palettes. Deterministic for a given name.
func PickAppearance(name string) (color, icon string) {
	h := fnv.New32a()
	h.Write([]byte(name))
	sum := h.Sum32()
	return categoryColors[int(sum)%len(categoryColors)],
		categoryIcons[int(sum/7)%len(categoryIcons)]
}
