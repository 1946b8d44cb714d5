package catalog

import (
	"sort"
	"strings"
)

// FallbackCategory is the catch-all for content the vocabulary cannot place.
// ResolveCategory never returns an empty name; this is the floor.
const FallbackCategory = "Other"

// DefaultCategories is the taxonomy seeded at first run, in display order.
// FallbackCategory is always last.
var DefaultCategories = []string{
	"Social Media",
	"Documents",
	"Games",
	"Shopping",
	"Food",
	"Travel",
	"Entertainment",
	"Work",
	"Memes",
	FallbackCategory,
}

// vocabulary maps lower-cased classifier label terms to category names.
// Lookup is exact first, then substring containment in either direction.
var vocabulary = map[string]string{
	"person":       "Social Media",
	"people":       "Social Media",
	"selfie":       "Social Media",
	"portrait":     "Social Media",
	"profile":      "Social Media",
	"chat":         "Social Media",
	"message":      "Social Media",
	"receipt":      "Documents",
	"document":     "Documents",
	"text":         "Documents",
	"invoice":      "Documents",
	"paper":        "Documents",
	"form":         "Documents",
	"ticket":       "Documents",
	"game":         "Games",
	"video game":   "Games",
	"arcade":       "Games",
	"controller":   "Games",
	"cart":         "Shopping",
	"product":      "Shopping",
	"price":        "Shopping",
	"store":        "Shopping",
	"clothing":     "Shopping",
	"food":         "Food",
	"meal":         "Food",
	"restaurant":   "Food",
	"drink":        "Food",
	"recipe":       "Food",
	"map":          "Travel",
	"landmark":     "Travel",
	"beach":        "Travel",
	"mountain":     "Travel",
	"airport":      "Travel",
	"hotel":        "Travel",
	"movie":        "Entertainment",
	"video":        "Entertainment",
	"music":        "Entertainment",
	"concert":      "Entertainment",
	"television":   "Entertainment",
	"chart":        "Work",
	"graph":        "Work",
	"presentation": "Work",
	"spreadsheet":  "Work",
	"diagram":      "Work",
	"meme":         "Memes",
	"cartoon":      "Memes",
	"comic":        "Memes",
}

// vocabularyTerms holds the vocabulary keys in sorted order so the substring
// scan always visits them the same way. Map iteration order would make
// resolution nondeterministic when several terms match.
var vocabularyTerms = func() []string {
	terms := make([]string, 0, len(vocabulary))
	for t := range vocabulary {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}()

// ResolveCategory maps a ranked label list to exactly one category name plus
// an aggregate confidence. The top-ranked label drives the category choice;
// the confidence is the arithmetic mean over the top MaxLabels entries.
// A pure function: deterministic for a given label list, no I/O.
func ResolveCategory(labels []Label) (string, float64) {
	if len(labels) == 0 {
		return FallbackCategory, 0.0
	}

	name := lookupCategory(labels[0].Name)

	k := len(labels)
	if k > MaxLabels {
		k = MaxLabels
	}
	var sum float64
	for _, l := range labels[:k] {
		sum += l.Confidence
	}

	return name, sum / float64(k)
}

// lookupCategory resolves a single label term against the vocabulary.
func lookupCategory(label string) string {
	term := strings.ToLower(strings.TrimSpace(label))
	if term == "" {
		return FallbackCategory
	}

	if name, ok := vocabulary[term]; ok {
		return name
	}

	// No exact key: try substring containment in either direction.
	for _, key := range vocabularyTerms {
		if strings.Contains(term, key) || strings.Contains(key, term) {
			return vocabulary[key]
		}
	}

	return FallbackCategory
}
