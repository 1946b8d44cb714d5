package catalog

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"screenkeep/internal/model"
)

// SortKey selects which attribute orders the projection.
type SortKey string

const (
	SortByDateCreated  SortKey = "created"
	SortByDateModified SortKey = "modified"
	SortByFileName     SortKey = "name"
	SortBySize         SortKey = "size"
	SortByConfidence   SortKey = "confidence"
)

// Filter holds the current filter/sort state a projection is computed from.
// Zero values mean "not filtering on this".
type Filter struct {
	CategoryID string  // category-equality filter
	Search     string  // case-insensitive substring across name/description/tags
	Tag        string  // exact-tag filter
	Sort       SortKey // defaults to SortByDateCreated
	Descending bool
}

// fileNameCollator orders file names locale-aware and case-insensitively.
// language.Und gives the root collation order, which is stable across hosts.
var fileNameCollator = collate.New(language.Und, collate.IgnoreCase)

// Project computes the filtered, sorted view of the given screenshots.
// Filters apply in order: category, search text, tag — though the set is the
// same in any order. Ties on the sort key break by ID ascending, so the
// result is deterministic for a given input. The input slice is not modified.
func Project(shots []*model.Screenshot, f Filter) []*model.Screenshot {
	out := make([]*model.Screenshot, 0, len(shots))
	for _, s := range shots {
		if f.CategoryID != "" && s.CategoryID != f.CategoryID {
			continue
		}
		if f.Search != "" && !matchesSearch(s, f.Search) {
			continue
		}
		if f.Tag != "" && !hasTag(s, f.Tag) {
			continue
		}
		out = append(out, s)
	}

	key := f.Sort
	if key == "" {
		key = SortByDateCreated
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compareByKey(out[i], out[j], key)
		if f.Descending {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// matchesSearch reports whether the query appears, case-insensitively, in the
// file name, AI description, or any tag.
func matchesSearch(s *model.Screenshot, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(s.FileName), q) {
		return true
	}
	if strings.Contains(strings.ToLower(s.AIDescription), q) {
		return true
	}
	for _, t := range s.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func hasTag(s *model.Screenshot, tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// compareByKey orders a against b on the given key: -1, 0, or 1.
func compareByKey(a, b *model.Screenshot, key SortKey) int {
	switch key {
	case SortByDateModified:
		return compareTimes(a.ModifiedAt, b.ModifiedAt)
	case SortByFileName:
		return fileNameCollator.CompareString(a.FileName, b.FileName)
	case SortBySize:
		return compareInt64(a.Size, b.Size)
	case SortByConfidence:
		switch {
		case a.Confidence < b.Confidence:
			return -1
		case a.Confidence > b.Confidence:
			return 1
		}
		return 0
	default: // SortByDateCreated
		return compareTimes(a.CreatedAt, b.CreatedAt)
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
