package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"screenkeep/internal/model"
)

// ErrDefaultCategory is returned when an operation would remove a seeded
// default category.
var ErrDefaultCategory = errors.New("default categories cannot be deleted")

// ImportItem is one image handed to ImportMany.
type ImportItem struct {
	Data     []byte
	FileName string
}

// Service is the orchestration layer tying import, classification, category
// resolution, persistence and the presentation projection together.
//
// It is single-writer by convention: all mutations must come from one
// goroutine. The only suspension point is the classifier call, which receives
// the caller's context; everything else runs synchronously against the store.
type Service struct {
	store      Store
	vault      Vault
	classifier Classifier
	notifier   Notifier
	logger     Logger
	clock      Clock
	idgen      IDGenerator

	// projection is the in-memory copy of the catalog the filtered view is
	// computed from. Refreshed from the store after every mutation, so the
	// store stays authoritative even when a commit fails mid-operation.
	projection []*model.Screenshot
	filter     Filter
}

// NewService creates a Service with the provided collaborators.
func NewService(store Store, vault Vault, classifier Classifier, notifier Notifier, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		store:      store,
		vault:      vault,
		classifier: classifier,
		notifier:   notifier,
		logger:     logger,
		clock:      clock,
		idgen:      idgen,
	}
}

// EnsureDefaultCategories seeds the default taxonomy if the store holds no
// categories yet. Safe to call on every startup.
func (s *Service) EnsureDefaultCategories(ctx context.Context) error {
	existing, err := s.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for i, name := range DefaultCategories {
		color, icon := PickAppearance(name)
		c := &model.Category{
			ID:        s.idgen.New(),
			Name:      name,
			Color:     color,
			Icon:      icon,
			CreatedAt: s.clock.Now(),
			IsDefault: true,
			SortOrder: i,
		}
		if err := s.store.InsertCategory(ctx, c); err != nil {
			return fmt.Errorf("seeding category %q: %w", name, err)
		}
	}

	s.logger.Info("default categories seeded", "count", len(DefaultCategories))
	return nil
}

// ImportOne creates a screenshot record from raw image bytes: decode header,
// classify, resolve a category, store the bytes in the vault, persist the
// record, refresh the projection. Exactly one record is created on success;
// at most one category is created (when the resolved name is new).
// Undecodable bytes abort the import with nothing persisted.
func (s *Service) ImportOne(ctx context.Context, data []byte, fileName string) (*model.Screenshot, error) {
	width, height, err := decodeMeta(data)
	if err != nil {
		s.logger.Debug("import abandoned", "file", fileName, "error", err)
		return nil, err
	}

	id := s.idgen.New()
	if fileName == "" {
		fileName = "screenshot-" + id
	}

	labels := s.classify(ctx, data, fileName)
	categoryName, confidence := ResolveCategory(labels)

	category, err := s.FindOrCreateCategory(ctx, categoryName)
	if err != nil {
		return nil, err
	}

	// Vault first: a content upload without a record is a harmless orphan,
	// a record without content is not.
	checksum := contentChecksum(data)
	if err := s.vault.PutContent(checksum, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("storing image content: %w", err)
	}

	now := s.clock.Now()
	shot := &model.Screenshot{
		ID:            id,
		FileName:      fileName,
		Checksum:      checksum,
		Size:          int64(len(data)),
		Width:         width,
		Height:        height,
		CreatedAt:     now,
		ModifiedAt:    now,
		AIDescription: topLabel(labels),
		Confidence:    confidence,
		CategoryID:    category.ID,
	}

	if err := s.store.InsertScreenshot(ctx, shot); err != nil {
		s.refresh(ctx)
		return nil, fmt.Errorf("persisting screenshot: %w", err)
	}

	s.refresh(ctx)
	s.logger.Info("screenshot imported",
		"id", shot.ID, "file", fileName, "category", category.Name, "confidence", confidence)
	return shot, nil
}

// ImportMany imports images strictly in sequence. Items succeed or fail
// independently: a failure is logged and the remaining items still run.
// Returns the number of successful imports.
func (s *Service) ImportMany(ctx context.Context, items []ImportItem) (int, error) {
	count := 0
	for _, item := range items {
		if _, err := s.ImportOne(ctx, item.Data, item.FileName); err != nil {
			s.logger.Warn("import skipped", "file", item.FileName, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// Reanalyze re-runs classification on the stored image bytes. It overwrites
// the AI description and confidence and, if the resolved category differs,
// moves the screenshot. Identity, file name, tags, note and favorite flag are
// never touched; the modification time is bumped.
func (s *Service) Reanalyze(ctx context.Context, id string) error {
	shot, err := s.store.GetScreenshot(ctx, id)
	if err != nil {
		return fmt.Errorf("loading screenshot: %w", err)
	}
	if shot == nil {
		return fmt.Errorf("screenshot %s: %w", id, ErrNotFound)
	}

	var buf bytes.Buffer
	if err := s.vault.GetContent(shot.Checksum, &buf); err != nil {
		return fmt.Errorf("loading image content: %w", err)
	}

	labels := s.classify(ctx, buf.Bytes(), shot.FileName)
	categoryName, confidence := ResolveCategory(labels)

	shot.AIDescription = topLabel(labels)
	shot.Confidence = confidence
	shot.ModifiedAt = s.clock.Now()

	// Only switch categories when the resolved name actually differs.
	current, err := s.currentCategory(ctx, shot)
	if err != nil {
		return err
	}
	if current == nil || !strings.EqualFold(current.Name, categoryName) {
		category, err := s.FindOrCreateCategory(ctx, categoryName)
		if err != nil {
			return err
		}
		shot.CategoryID = category.ID
	}

	if err := s.store.UpdateScreenshot(ctx, shot); err != nil {
		s.refresh(ctx)
		return fmt.Errorf("persisting reanalysis: %w", err)
	}

	s.refresh(ctx)
	s.logger.Info("screenshot reanalyzed", "id", id, "category", categoryName, "confidence", confidence)
	return nil
}

// BatchReanalyze runs Reanalyze over every stored screenshot, sequentially.
// Per-item failures are logged and skipped. Returns the number reanalyzed.
func (s *Service) BatchReanalyze(ctx context.Context) (int, error) {
	shots, err := s.store.ListScreenshots(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing screenshots: %w", err)
	}

	count := 0
	for _, shot := range shots {
		if err := s.Reanalyze(ctx, shot.ID); err != nil {
			s.logger.Warn("reanalysis skipped", "id", shot.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// DeleteScreenshot removes a screenshot, detaching it from its category,
// dropping its vault content when no other record shares the checksum, and
// cancelling any pending reminder. Deleting an absent ID is a no-op.
func (s *Service) DeleteScreenshot(ctx context.Context, id string) error {
	shot, err := s.store.GetScreenshot(ctx, id)
	if err != nil {
		return fmt.Errorf("loading screenshot: %w", err)
	}
	if shot == nil {
		return nil // already gone
	}

	if err := s.store.DeleteScreenshot(ctx, id); err != nil {
		s.refresh(ctx)
		return fmt.Errorf("deleting screenshot: %w", err)
	}

	remaining, err := s.store.CountScreenshotsByChecksum(ctx, shot.Checksum)
	if err != nil {
		s.logger.Warn("checksum refcount failed, leaving vault content", "checksum", shot.Checksum, "error", err)
	} else if remaining == 0 {
		if err := s.vault.DeleteContent(shot.Checksum); err != nil {
			s.logger.Warn("vault content not removed", "checksum", shot.Checksum, "error", err)
		}
	}

	if err := s.notifier.Cancel(id); err != nil {
		s.logger.Warn("reminder not cancelled", "id", id, "error", err)
	}

	s.refresh(ctx)
	s.logger.Info("screenshot deleted", "id", id)
	return nil
}

// UpdateScreenshot persists tag/note/favorite edits. Tags are de-duplicated
// preserving first occurrence; the modification time is bumped.
func (s *Service) UpdateScreenshot(ctx context.Context, shot *model.Screenshot) error {
	shot.Tags = dedupeTags(shot.Tags)
	shot.ModifiedAt = s.clock.Now()

	if err := s.store.UpdateScreenshot(ctx, shot); err != nil {
		s.refresh(ctx)
		return fmt.Errorf("persisting screenshot update: %w", err)
	}

	s.refresh(ctx)
	return nil
}

// CreateCategory creates a user category with the given appearance.
func (s *Service) CreateCategory(ctx context.Context, name, color, icon string) (*model.Category, error) {
	existing, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	c := &model.Category{
		ID:        s.idgen.New(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: s.clock.Now(),
		SortOrder: len(existing),
	}
	if err := s.store.InsertCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	s.logger.Info("category created", "id", c.ID, "name", name)
	return c, nil
}

// UpdateCategory persists changes to an existing category.
func (s *Service) UpdateCategory(ctx context.Context, c *model.Category) error {
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return fmt.Errorf("persisting category update: %w", err)
	}
	return nil
}

// DeleteCategory removes a non-default category. Its member screenshots are
// reassigned to the fallback category first (created if absent), keeping
// their confidence unchanged. Deleting an absent ID is a no-op; deleting a
// default category returns ErrDefaultCategory.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("loading category: %w", err)
	}
	if category == nil {
		return nil // already gone
	}
	if category.IsDefault {
		return fmt.Errorf("category %q: %w", category.Name, ErrDefaultCategory)
	}

	fallback, err := s.FindOrCreateCategory(ctx, FallbackCategory)
	if err != nil {
		return err
	}

	if err := s.store.ReassignCategory(ctx, category.ID, fallback.ID); err != nil {
		s.refresh(ctx)
		return fmt.Errorf("reassigning screenshots: %w", err)
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		s.refresh(ctx)
		return fmt.Errorf("deleting category: %w", err)
	}

	s.refresh(ctx)
	s.logger.Info("category deleted", "id", id, "name", category.Name)
	return nil
}

// FindOrCreateCategory matches a category by name, case-insensitively, or
// creates one with an appearance picked from the fixed palettes.
func (s *Service) FindOrCreateCategory(ctx context.Context, name string) (*model.Category, error) {
	existing, err := s.store.FindCategoryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("finding category: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	color, icon := PickAppearance(name)
	return s.CreateCategory(ctx, name, color, icon)
}

// Categories returns all categories in display order.
func (s *Service) Categories(ctx context.Context) ([]*model.Category, error) {
	return s.store.ListCategories(ctx)
}

// ScheduleReminder schedules a review reminder for a screenshot after the
// given number of hours. Fire-and-forget: delivery is never confirmed.
func (s *Service) ScheduleReminder(ctx context.Context, id string, afterHours int) error {
	shot, err := s.store.GetScreenshot(ctx, id)
	if err != nil {
		return fmt.Errorf("loading screenshot: %w", err)
	}
	if shot == nil {
		return fmt.Errorf("screenshot %s: %w", id, ErrNotFound)
	}
	return s.notifier.Schedule(id, afterHours)
}

// CancelReminder cancels a pending reminder. Unknown IDs are a no-op.
func (s *Service) CancelReminder(id string) error {
	return s.notifier.Cancel(id)
}

// Profile returns the singleton profile, or (nil, nil) if never saved.
func (s *Service) Profile(ctx context.Context) (*model.Profile, error) {
	return s.store.GetProfile(ctx)
}

// SaveProfile inserts or replaces the profile, stamping the creation time
// on first save.
func (s *Service) SaveProfile(ctx context.Context, p *model.Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.clock.Now()
	}
	return s.store.SaveProfile(ctx, p)
}

// Projection state

// SetFilter replaces the current filter/sort state.
func (s *Service) SetFilter(f Filter) { s.filter = f }

// CurrentFilter returns the current filter/sort state.
func (s *Service) CurrentFilter() Filter { return s.filter }

// FilteredProjection recomputes the filtered, sorted view from the in-memory
// catalog copy and the current filter state.
func (s *Service) FilteredProjection() []*model.Screenshot {
	return Project(s.projection, s.filter)
}

// Refresh reloads the in-memory catalog copy from the store.
func (s *Service) Refresh(ctx context.Context) error {
	shots, err := s.store.ListScreenshots(ctx)
	if err != nil {
		return fmt.Errorf("refreshing projection: %w", err)
	}
	s.projection = shots
	return nil
}

// refresh is the best-effort form used after mutations, including failed
// ones: the store stays the source of truth for what is displayed.
func (s *Service) refresh(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("projection refresh failed", "error", err)
	}
}

// classify invokes the classifier, normalizing failures to "no result" and
// truncating the ranked list to MaxLabels.
func (s *Service) classify(ctx context.Context, data []byte, fileName string) []Label {
	labels, err := s.classifier.Classify(ctx, data)
	if err != nil {
		s.logger.Warn("classification failed", "file", fileName, "error", err)
		return nil
	}
	if len(labels) > MaxLabels {
		labels = labels[:MaxLabels]
	}
	return labels
}

// currentCategory loads the screenshot's owning category, or nil when
// uncategorized or dangling.
func (s *Service) currentCategory(ctx context.Context, shot *model.Screenshot) (*model.Category, error) {
	if shot.CategoryID == "" {
		return nil, nil
	}
	c, err := s.store.GetCategory(ctx, shot.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("loading current category: %w", err)
	}
	return c, nil
}

func topLabel(labels []Label) string {
	if len(labels) == 0 {
		return ""
	}
	return labels[0].Name
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
