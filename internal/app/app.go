package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"screenkeep/internal/catalog"
	"screenkeep/internal/classify"
	"screenkeep/internal/config"
	"screenkeep/internal/database"
	"screenkeep/internal/model"
	"screenkeep/internal/notify"
	"screenkeep/internal/photos"
	"screenkeep/internal/vault"
)

// App is the application layer between the CLI and the catalog Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw strings, and manages resource lifecycles on Close.
type App struct {
	cfg     *config.Config
	store   catalog.Store
	vault   catalog.Vault
	service *catalog.Service
	logger  *zap.Logger
}

// NewApp creates a fully wired App from the given config.
// The caller must call Close when done.
func NewApp(cfg *config.Config) (*App, error) {
	logger, err := newLogger(cfg.LogDir)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapted := &zapAdapter{l: logger.Sugar()}

	store, err := database.NewStoreFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	v, err := vault.NewVaultFromConfig(cfg.Vault, cfg.Encryption, promptPassphrase)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating vault: %w", err)
	}

	classifier, err := classify.NewClassifierFromConfig(cfg.Classifier)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating classifier: %w", err)
	}

	notifier, err := notify.NewNotifierFromConfig(cfg.Notifications, adapted)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating notifier: %w", err)
	}

	svc := catalog.NewService(store, v, classifier, notifier, adapted, catalog.RealClock{}, catalog.UUIDGenerator{})

	ctx := context.Background()
	if err := svc.EnsureDefaultCategories(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("seeding categories: %w", err)
	}
	if err := svc.Refresh(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	return &App{
		cfg:     cfg,
		store:   store,
		vault:   v,
		service: svc,
		logger:  logger,
	}, nil
}

// Service exposes the underlying catalog service for read operations.
func (a *App) Service() *catalog.Service {
	return a.service
}

// ImportFiles reads each path and imports it into the catalog.
// Returns the number of successful imports.
func (a *App) ImportFiles(ctx context.Context, paths []string) (int, error) {
	items := make([]catalog.ImportItem, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", p, err)
		}
		items = append(items, catalog.ImportItem{Data: data, FileName: filepath.Base(p)})
	}
	return a.service.ImportMany(ctx, items)
}

// Scan discovers screenshot candidates in the configured photo directory and
// imports them. Returns the number of candidates found and imported.
func (a *App) Scan(ctx context.Context) (found, imported int, err error) {
	source, err := photos.NewFileSystemSource(a.cfg.Photos, catalog.RealClock{})
	if err != nil {
		return 0, 0, err
	}

	assets, err := source.ListAssets(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("scanning photos: %w", err)
	}

	items := make([]catalog.ImportItem, 0, len(assets))
	for _, asset := range assets {
		data, err := source.LoadAsset(ctx, asset.Handle)
		if err != nil {
			a.logger.Sugar().Warnw("asset skipped", "handle", asset.Handle, "error", err)
			continue
		}
		items = append(items, catalog.ImportItem{Data: data, FileName: asset.FileName})
	}

	imported, err = a.service.ImportMany(ctx, items)
	return len(assets), imported, err
}

// List applies the filter and returns the resulting projection.
func (a *App) List(ctx context.Context, f catalog.Filter) ([]*model.Screenshot, error) {
	if err := a.service.Refresh(ctx); err != nil {
		return nil, err
	}
	a.service.SetFilter(f)
	return a.service.FilteredProjection(), nil
}

// GetScreenshot loads a single screenshot by ID.
func (a *App) GetScreenshot(ctx context.Context, id string) (*model.Screenshot, error) {
	shot, err := a.store.GetScreenshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading screenshot: %w", err)
	}
	if shot == nil {
		return nil, fmt.Errorf("screenshot %s: %w", id, catalog.ErrNotFound)
	}
	return shot, nil
}

// Reanalyze re-runs classification for a single screenshot.
func (a *App) Reanalyze(ctx context.Context, id string) error {
	return a.service.Reanalyze(ctx, id)
}

// ReanalyzeAll re-runs classification for every stored screenshot.
func (a *App) ReanalyzeAll(ctx context.Context) (int, error) {
	return a.service.BatchReanalyze(ctx)
}

// Delete removes a screenshot and its vault content when unreferenced.
func (a *App) Delete(ctx context.Context, id string) error {
	return a.service.DeleteScreenshot(ctx, id)
}

// AddTag appends a tag to a screenshot; duplicates are collapsed.
func (a *App) AddTag(ctx context.Context, id, tag string) error {
	shot, err := a.GetScreenshot(ctx, id)
	if err != nil {
		return err
	}
	shot.Tags = append(shot.Tags, tag)
	return a.service.UpdateScreenshot(ctx, shot)
}

// RemoveTag removes a tag from a screenshot. Absent tags are a no-op.
func (a *App) RemoveTag(ctx context.Context, id, tag string) error {
	shot, err := a.GetScreenshot(ctx, id)
	if err != nil {
		return err
	}
	kept := shot.Tags[:0]
	for _, t := range shot.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	shot.Tags = kept
	return a.service.UpdateScreenshot(ctx, shot)
}

// SetNote replaces the note on a screenshot.
func (a *App) SetNote(ctx context.Context, id, note string) error {
	shot, err := a.GetScreenshot(ctx, id)
	if err != nil {
		return err
	}
	shot.Note = note
	return a.service.UpdateScreenshot(ctx, shot)
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (a *App) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	shot, err := a.GetScreenshot(ctx, id)
	if err != nil {
		return false, err
	}
	shot.Favorite = !shot.Favorite
	if err := a.service.UpdateScreenshot(ctx, shot); err != nil {
		return false, err
	}
	return shot.Favorite, nil
}

// Categories returns all categories in display order.
func (a *App) Categories(ctx context.Context) ([]*model.Category, error) {
	return a.service.Categories(ctx)
}

// CreateCategory creates a user category, picking its appearance.
func (a *App) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	return a.service.FindOrCreateCategory(ctx, name)
}

// DeleteCategory removes a category by name, reassigning its screenshots.
// An unknown name is a no-op.
func (a *App) DeleteCategory(ctx context.Context, name string) error {
	categories, err := a.service.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return a.service.DeleteCategory(ctx, c.ID)
		}
	}
	return nil
}

// ResolveCategoryID maps a category name to its ID, or "" when unknown.
func (a *App) ResolveCategoryID(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	categories, err := a.service.Categories(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("unknown category: %s", name)
}

// Remind schedules a review reminder for a screenshot.
func (a *App) Remind(ctx context.Context, id string, afterHours int) error {
	return a.service.ScheduleReminder(ctx, id, afterHours)
}

// CancelReminder cancels a pending reminder.
func (a *App) CancelReminder(id string) error {
	return a.service.CancelReminder(id)
}

// Profile returns the stored profile, or nil when never saved.
func (a *App) Profile(ctx context.Context) (*model.Profile, error) {
	return a.service.Profile(ctx)
}

// SaveProfile stores the profile, marking onboarding complete.
func (a *App) SaveProfile(ctx context.Context, name, email string) error {
	p, err := a.service.Profile(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		p = &model.Profile{}
	}
	p.Name = name
	p.Email = email
	p.OnboardingDone = true
	return a.service.SaveProfile(ctx, p)
}

// Close releases all resources.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	// Sync failures on stderr are expected on some platforms.
	_ = a.logger.Sync()
	return firstErr
}

// promptPassphrase reads the vault key passphrase from the terminal without echo.
func promptPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "identity passphrase: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pass), nil
}
