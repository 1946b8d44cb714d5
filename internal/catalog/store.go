package catalog

import (
	"context"
	"errors"

	"screenkeep/internal/model"
)

// ErrNotFound is returned by store lookups that require the record to exist.
// Lookups documented as returning (nil, nil) on a miss never return it.
var ErrNotFound = errors.New("record not found")

// Store provides an interface for catalog metadata persistence.
// Implementations must make each call atomic: a method either commits all of
// its writes or none of them.
type Store interface {
	// Screenshot operations

	// InsertScreenshot persists a new screenshot record, including its tags.
	InsertScreenshot(ctx context.Context, s *model.Screenshot) error

	// GetScreenshot returns a screenshot by ID, or (nil, nil) if absent.
	GetScreenshot(ctx context.Context, id string) (*model.Screenshot, error)

	// ListScreenshots returns all screenshots ordered by creation time,
	// then ID, ascending.
	ListScreenshots(ctx context.Context) ([]*model.Screenshot, error)

	// UpdateScreenshot persists in-place mutation of an existing record,
	// replacing its tag set. Returns ErrNotFound if the record is absent.
	UpdateScreenshot(ctx context.Context, s *model.Screenshot) error

	// DeleteScreenshot removes a screenshot and its tags.
	// Deleting an absent ID is a no-op, not an error.
	DeleteScreenshot(ctx context.Context, id string) error

	// CountScreenshotsByChecksum reports how many records reference the
	// given content checksum. Used to decide when vault content can go.
	CountScreenshotsByChecksum(ctx context.Context, checksum string) (int64, error)

	// ReassignCategory moves every screenshot in fromID to toID in a single
	// transaction, so both sides of the relationship change together.
	ReassignCategory(ctx context.Context, fromID, toID string) error

	// Category operations

	// InsertCategory persists a new category.
	InsertCategory(ctx context.Context, c *model.Category) error

	// GetCategory returns a category by ID, or (nil, nil) if absent.
	GetCategory(ctx context.Context, id string) (*model.Category, error)

	// FindCategoryByName returns a category by case-insensitive name match,
	// or (nil, nil) if absent.
	FindCategoryByName(ctx context.Context, name string) (*model.Category, error)

	// ListCategories returns all categories ordered by sort order, then name.
	ListCategories(ctx context.Context) ([]*model.Category, error)

	// UpdateCategory persists changes to an existing category.
	// Returns ErrNotFound if the record is absent.
	UpdateCategory(ctx context.Context, c *model.Category) error

	// DeleteCategory removes a category record. Member screenshots must be
	// reassigned first; the store does not cascade.
	DeleteCategory(ctx context.Context, id string) error

	// Profile operations

	// GetProfile returns the singleton profile, or (nil, nil) if never saved.
	GetProfile(ctx context.Context) (*model.Profile, error)

	// SaveProfile inserts or replaces the singleton profile.
	SaveProfile(ctx context.Context, p *model.Profile) error

	// Close closes the underlying connection.
	Close() error
}
