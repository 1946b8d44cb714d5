package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"screenkeep/internal/catalog"
	"screenkeep/internal/database/migrations"
	"screenkeep/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the catalog.Store interface using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite store.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a raw configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Screenshot operations

const screenshotColumns = `id, file_name, checksum, size, width, height,
	created_at, modified_at, ai_description, confidence, favorite, note, category_id`

func (s *SQLiteStore) InsertScreenshot(ctx context.Context, shot *model.Screenshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO screenshots (`+screenshotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shot.ID, shot.FileName, shot.Checksum, shot.Size, shot.Width, shot.Height,
		shot.CreatedAt, shot.ModifiedAt, shot.AIDescription, shot.Confidence,
		shot.Favorite, shot.Note, nullable(shot.CategoryID))
	if err != nil {
		return fmt.Errorf("inserting screenshot: %w", err)
	}

	if err := insertTags(ctx, tx, shot.ID, shot.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetScreenshot(ctx context.Context, id string) (*model.Screenshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+screenshotColumns+` FROM screenshots WHERE id = ?`, id)

	shot, err := scanScreenshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding screenshot by id: %w", err)
	}

	tags, err := s.tagsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	shot.Tags = tags
	return shot, nil
}

func (s *SQLiteStore) ListScreenshots(ctx context.Context) ([]*model.Screenshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+screenshotColumns+` FROM screenshots ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing screenshots: %w", err)
	}
	defer rows.Close()

	var shots []*model.Screenshot
	byID := make(map[string]*model.Screenshot)
	for rows.Next() {
		shot, err := scanScreenshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning screenshot: %w", err)
		}
		shots = append(shots, shot)
		byID[shot.ID] = shot
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating screenshots: %w", err)
	}

	// One pass over the tags table instead of a query per record.
	tagRows, err := s.db.QueryContext(ctx,
		`SELECT screenshot_id, tag FROM screenshot_tags ORDER BY screenshot_id, tag`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var id, tag string
		if err := tagRows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		if shot, ok := byID[id]; ok {
			shot.Tags = append(shot.Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	return shots, nil
}

func (s *SQLiteStore) UpdateScreenshot(ctx context.Context, shot *model.Screenshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE screenshots SET
			file_name = ?, checksum = ?, size = ?, width = ?, height = ?,
			created_at = ?, modified_at = ?, ai_description = ?, confidence = ?,
			favorite = ?, note = ?, category_id = ?
		WHERE id = ?`,
		shot.FileName, shot.Checksum, shot.Size, shot.Width, shot.Height,
		shot.CreatedAt, shot.ModifiedAt, shot.AIDescription, shot.Confidence,
		shot.Favorite, shot.Note, nullable(shot.CategoryID), shot.ID)
	if err != nil {
		return fmt.Errorf("updating screenshot: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("screenshot %s: %w", shot.ID, catalog.ErrNotFound)
	}

	// Replace the tag set wholesale.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM screenshot_tags WHERE screenshot_id = ?`, shot.ID); err != nil {
		return fmt.Errorf("clearing tags: %w", err)
	}
	if err := insertTags(ctx, tx, shot.ID, shot.Tags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteScreenshot(ctx context.Context, id string) error {
	// Tags go with the record via ON DELETE CASCADE.
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM screenshots WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting screenshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CountScreenshotsByChecksum(ctx context.Context, checksum string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM screenshots WHERE checksum = ?`, checksum).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting screenshots by checksum: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) ReassignCategory(ctx context.Context, fromID, toID string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE screenshots SET category_id = ? WHERE category_id = ?`, toID, fromID); err != nil {
		return fmt.Errorf("reassigning category: %w", err)
	}
	return nil
}

// Category operations

const categoryColumns = `id, name, color, icon, created_at, is_default, sort_order`

func (s *SQLiteStore) InsertCategory(ctx context.Context, c *model.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Color, c.Icon, c.CreatedAt, c.IsDefault, c.SortOrder)
	if err != nil {
		return fmt.Errorf("inserting category: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding category by id: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) FindCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = ? COLLATE NOCASE`, name)

	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding category by name: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return categories, nil
}

func (s *SQLiteStore) UpdateCategory(ctx context.Context, c *model.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = ?, color = ?, icon = ?, created_at = ?, is_default = ?, sort_order = ?
		WHERE id = ?`,
		c.Name, c.Color, c.Icon, c.CreatedAt, c.IsDefault, c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", c.ID, catalog.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return nil
}

// Profile operations

func (s *SQLiteStore) GetProfile(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	err := s.db.QueryRowContext(ctx,
		`SELECT name, email, created_at, onboarding_done FROM profile WHERE id = 1`).
		Scan(&p.Name, &p.Email, &p.CreatedAt, &p.OnboardingDone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Never saved
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) SaveProfile(ctx context.Context, p *model.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profile (id, name, email, created_at, onboarding_done)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			created_at = excluded.created_at,
			onboarding_done = excluded.onboarding_done`,
		p.Name, p.Email, p.CreatedAt, p.OnboardingDone)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// Path returns the database file path (or ":memory:" for in-memory stores).
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// MigrateUp brings the schema to the latest version.
func (s *SQLiteStore) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Helpers

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanScreenshot(row scanner) (*model.Screenshot, error) {
	var shot model.Screenshot
	var categoryID sql.NullString
	err := row.Scan(&shot.ID, &shot.FileName, &shot.Checksum, &shot.Size,
		&shot.Width, &shot.Height, &shot.CreatedAt, &shot.ModifiedAt,
		&shot.AIDescription, &shot.Confidence, &shot.Favorite, &shot.Note,
		&categoryID)
	if err != nil {
		return nil, err
	}
	shot.CategoryID = categoryID.String
	return &shot, nil
}

func scanCategory(row scanner) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt,
		&c.IsDefault, &c.SortOrder)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) tagsFor(ctx context.Context, screenshotID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM screenshot_tags WHERE screenshot_id = ? ORDER BY tag`,
		screenshotID)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

func insertTags(ctx context.Context, tx *sql.Tx, screenshotID string, tags []string) error {
	// Stored sorted: the tag set is unordered by contract, and a stable
	// on-disk order keeps reads deterministic.
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	for _, tag := range sorted {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO screenshot_tags (screenshot_id, tag) VALUES (?, ?)`,
			screenshotID, tag); err != nil {
			return fmt.Errorf("inserting tag %q: %w", tag, err)
		}
	}
	return nil
}

// nullable maps an empty string to NULL for nullable foreign keys.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Compile-time check that SQLiteStore implements the catalog.Store interface
var _ catalog.Store = (*SQLiteStore)(nil)
