package model

import "time"

// Screenshot is a captured-image record in the catalog. The encoded image
// bytes themselves live in the vault, addressed by Checksum; the record holds
// everything needed to browse, search and re-analyze without touching pixels.
type Screenshot struct {
	ID            string // UUID, immutable once created
	FileName      string // Display name, usually the source file name
	Checksum      string // SHA-256 of the encoded image bytes (vault key)
	Size          int64  // Encoded length in bytes, authoritative at creation
	Width         int    // Pixel width, authoritative at creation
	Height        int    // Pixel height, authoritative at creation
	CreatedAt     time.Time
	ModifiedAt    time.Time // Always >= CreatedAt
	Tags          []string  // Free-text tags, no duplicates, order irrelevant
	AIDescription string    // Top classifier label; empty until analyzed
	Confidence    float64   // Aggregate classifier confidence in [0,1]
	Favorite      bool
	Note          string
	CategoryID    string // Owning category; empty means uncategorized
}

// Category is a named grouping of screenshots.
type Category struct {
	ID        string // UUID
	Name      string // Display name, unique in practice (not enforced)
	Color     string // Hex color, e.g. "#4A90D2"
	Icon      string // Icon identifier
	CreatedAt time.Time
	IsDefault bool // Seeded at first run; default categories are undeletable
	SortOrder int
}

// Profile is the singleton user record.
type Profile struct {
	Name           string
	Email          string
	CreatedAt      time.Time
	OnboardingDone bool
}
