package catalog_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"screenkeep/internal/catalog"
	"screenkeep/internal/model"
	"screenkeep/internal/notify"
	"screenkeep/internal/testutil"
	"screenkeep/internal/vault"
)

type fixture struct {
	svc        *catalog.Service
	store      catalog.Store
	vault      *vault.MemoryVault
	classifier *testutil.StubClassifier
	notifier   *notify.MemoryNotifier
	clock      *testutil.StubClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:      testutil.NewTestStore(t),
		vault:      vault.NewMemoryVault("test"),
		classifier: testutil.NewStubClassifier(),
		notifier:   notify.NewMemoryNotifier(),
		clock:      testutil.FixedClock(),
	}
	f.svc = catalog.NewService(f.store, f.vault, f.classifier, f.notifier,
		catalog.NewNopLogger(), f.clock, testutil.NewStubIDGenerator())

	if err := f.svc.EnsureDefaultCategories(context.Background()); err != nil {
		t.Fatalf("EnsureDefaultCategories() error = %v", err)
	}
	return f
}

// categoryName maps a screenshot's category ID back to its display name.
func (f *fixture) categoryName(t *testing.T, shot *model.Screenshot) string {
	t.Helper()
	categories, err := f.svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	for _, c := range categories {
		if c.ID == shot.CategoryID {
			return c.Name
		}
	}
	return ""
}

func TestService_EnsureDefaultCategories(t *testing.T) {
	t.Run("seeds the default taxonomy once", func(t *testing.T) {
		f := newFixture(t)

		categories, err := f.svc.Categories(context.Background())
		if err != nil {
			t.Fatalf("Categories() error = %v", err)
		}
		if len(categories) != len(catalog.DefaultCategories) {
			t.Fatalf("category count = %d, want %d", len(categories), len(catalog.DefaultCategories))
		}
		for _, c := range categories {
			if !c.IsDefault {
				t.Errorf("category %q IsDefault = false, want true", c.Name)
			}
		}

		// Second call must not duplicate.
		if err := f.svc.EnsureDefaultCategories(context.Background()); err != nil {
			t.Fatalf("second EnsureDefaultCategories() error = %v", err)
		}
		categories, _ = f.svc.Categories(context.Background())
		if len(categories) != len(catalog.DefaultCategories) {
			t.Errorf("category count after reseed = %d, want %d", len(categories), len(catalog.DefaultCategories))
		}
	})
}

func TestService_ImportOne(t *testing.T) {
	ctx := context.Background()

	t.Run("imports and categorizes an image", func(t *testing.T) {
		f := newFixture(t)
		f.classifier.SetLabels(
			catalog.Label{Name: "receipt", Confidence: 0.9},
			catalog.Label{Name: "paper", Confidence: 0.8},
		)

		data := testutil.PNG(t, 8, 6)
		shot, err := f.svc.ImportOne(ctx, data, "expense.png")
		if err != nil {
			t.Fatalf("ImportOne() error = %v", err)
		}

		if shot.FileName != "expense.png" {
			t.Errorf("FileName = %q, want expense.png", shot.FileName)
		}
		if shot.Size != int64(len(data)) {
			t.Errorf("Size = %d, want %d", shot.Size, len(data))
		}
		if shot.Width != 8 || shot.Height != 6 {
			t.Errorf("dimensions = %dx%d, want 8x6", shot.Width, shot.Height)
		}
		if shot.Checksum != testutil.SHA256Hex(data) {
			t.Errorf("Checksum = %q, want content checksum", shot.Checksum)
		}
		if shot.AIDescription != "receipt" {
			t.Errorf("AIDescription = %q, want receipt", shot.AIDescription)
		}
		if math.Abs(shot.Confidence-0.85) > 1e-9 {
			t.Errorf("Confidence = %v, want 0.85", shot.Confidence)
		}
		if got := f.categoryName(t, shot); got != "Documents" {
			t.Errorf("category = %q, want Documents", got)
		}
		if f.vault.Len() != 1 {
			t.Errorf("vault content count = %d, want 1", f.vault.Len())
		}
	})

	t.Run("undecodable bytes abort with nothing persisted", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ImportOne(ctx, []byte("not an image"), "bad.png")
		if !errors.Is(err, catalog.ErrUndecodable) {
			t.Fatalf("ImportOne() error = %v, want ErrUndecodable", err)
		}

		if err := f.svc.Refresh(ctx); err != nil {
			t.Fatalf("Refresh() error = %v", err)
		}
		if got := len(f.svc.FilteredProjection()); got != 0 {
			t.Errorf("projection size = %d, want 0", got)
		}
		if f.vault.Len() != 0 {
			t.Errorf("vault content count = %d, want 0", f.vault.Len())
		}
	})

	t.Run("no classifier result falls back to Other with zero confidence", func(t *testing.T) {
		f := newFixture(t)

		shot, err := f.svc.ImportOne(ctx, testutil.PNG(t, 4, 4), "mystery.png")
		if err != nil {
			t.Fatalf("ImportOne() error = %v", err)
		}
		if got := f.categoryName(t, shot); got != catalog.FallbackCategory {
			t.Errorf("category = %q, want %q", got, catalog.FallbackCategory)
		}
		if shot.Confidence != 0.0 {
			t.Errorf("Confidence = %v, want 0.0", shot.Confidence)
		}
	})

	t.Run("classifier failure is treated as no result", func(t *testing.T) {
		f := newFixture(t)
		f.classifier.Err = errors.New("model unavailable")

		shot, err := f.svc.ImportOne(ctx, testutil.PNG(t, 4, 4), "offline.png")
		if err != nil {
			t.Fatalf("ImportOne() error = %v", err)
		}
		if got := f.categoryName(t, shot); got != catalog.FallbackCategory {
			t.Errorf("category = %q, want %q", got, catalog.FallbackCategory)
		}
	})

	t.Run("unknown resolved name creates exactly one category", func(t *testing.T) {
		f := newFixture(t)
		f.classifier.SetLabels(catalog.Label{Name: "receipt", Confidence: 0.9})

		before, _ := f.svc.Categories(ctx)

		if _, err := f.svc.ImportOne(ctx, testutil.PNG(t, 4, 4), "one.png"); err != nil {
			t.Fatalf("ImportOne() error = %v", err)
		}

		after, _ := f.svc.Categories(ctx)
		// "Documents" is already a default, so no new category appears.
		if len(after) != len(before) {
			t.Errorf("category count = %d, want %d", len(after), len(before))
		}
	})

	t.Run("blank file name gets a generated one", func(t *testing.T) {
		f := newFixture(t)

		shot, err := f.svc.ImportOne(ctx, testutil.PNG(t, 4, 4), "")
		if err != nil {
			t.Fatalf("ImportOne() error = %v", err)
		}
		if shot.FileName == "" {
			t.Error("FileName is empty, want generated name")
		}
	})
}

func TestService_ImportMany(t *testing.T) {
	t.Run("continues past failures", func(t *testing.T) {
		f := newFixture(t)

		items := []catalog.ImportItem{
			{Data: testutil.PNGSeeded(t, 4, 4, 1), FileName: "a.png"},
			{Data: []byte("garbage"), FileName: "broken.png"},
			{Data: testutil.PNGSeeded(t, 4, 4, 2), FileName: "b.png"},
		}

		count, err := f.svc.ImportMany(context.Background(), items)
		if err != nil {
			t.Fatalf("ImportMany() error = %v", err)
		}
		if count != 2 {
			t.Errorf("ImportMany() count = %d, want 2", count)
		}
		if got := len(f.svc.FilteredProjection()); got != 2 {
			t.Errorf("projection size = %d, want 2", got)
		}
	})
}

func TestService_Reanalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites analysis and moves category, preserving user edits", func(t *testing.T) {
		f := newFixture(t)
		f.classifier.SetLabels(catalog.Label{Name: "receipt", Confidence: 0.9})

		shot, err := f.svc.ImportOne(ctx, testutil.PNG(t, 4, 4), "shifty.png")
		if err != nil {
			t.Fatalf("ImportOne() error = %v", err)
		}

		shot.Tags = []string{"keepme"}
		shot.Note = "user note"
		shot.Favorite = true
		if err := f.svc.UpdateScreenshot(ctx, shot); err != nil {
			t.Fatalf("UpdateScreenshot() error = %v", err)
		}

		f.classifier.SetLabels(catalog.Label{Name: "game", Confidence: 0.7})
		f.clock.Advance(time.Hour)

		if err := f.svc.Reanalyze(ctx, shot.ID); err != nil {
			t.Fatalf("Reanalyze() error = %v", err)
		}

		updated := findShot(t, f.svc, shot.ID)
		if updated.AIDescription != "game" {
			t.Errorf("AIDescription = %q, want game", updated.AIDescription)
		}
		if math.Abs(updated.Confidence-0.7) > 1e-9 {
			t.Errorf("Confidence = %v, want 0.7", updated.Confidence)
		}
		if got := f.categoryName(t, updated); got != "Games" {
			t.Errorf("category = %q, want Games", got)
		}
		if updated.FileName != "shifty.png" || updated.Note != "user note" || !updated.Favorite {
			t.Error("user-owned fields were not preserved")
		}
		if len(updated.Tags) != 1 || updated.Tags[0] != "keepme" {
			t.Errorf("Tags = %v, want [keepme]", updated.Tags)
		}
		if !updated.ModifiedAt.After(updated.CreatedAt) {
			t.Error("ModifiedAt was not bumped")
		}
	})

	t.Run("unknown ID returns ErrNotFound", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Reanalyze(ctx, "missing")
		if !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("Reanalyze() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("batch reanalyzes everything", func(t *testing.T) {
		f := newFixture(t)

		for i := 0; i < 3; i++ {
			if _, err := f.svc.ImportOne(ctx, testutil.PNGSeeded(t, 4, 4, uint8(i)), ""); err != nil {
				t.Fatalf("ImportOne() error = %v", err)
			}
		}

		count, err := f.svc.BatchReanalyze(ctx)
		if err != nil {
			t.Fatalf("BatchReanalyze() error = %v", err)
		}
		if count != 3 {
			t.Errorf("BatchReanalyze() count = %d, want 3", count)
		}
	})
}

func TestService_DeleteScreenshot(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the record, its content, and its reminder", func(t *testing.T) {
		f := newFixture(t)

		shot, err := f.svc.ImportOne(ctx, testutil.PNG(t, 4, 4), "gone.png")
		if err != nil {
			t.Fatalf("ImportOne() error = %v", err)
		}
		if err := f.svc.ScheduleReminder(ctx, shot.ID, 24); err != nil {
			t.Fatalf("ScheduleReminder() error = %v", err)
		}

		if err := f.svc.DeleteScreenshot(ctx, shot.ID); err != nil {
			t.Fatalf("DeleteScreenshot() error = %v", err)
		}

		if got := len(f.svc.FilteredProjection()); got != 0 {
			t.Errorf("projection size = %d, want 0", got)
		}
		if f.vault.Len() != 0 {
			t.Errorf("vault content count = %d, want 0", f.vault.Len())
		}
		if _, ok := f.notifier.Pending(shot.ID); ok {
			t.Error("reminder still pending after delete")
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		f := newFixture(t)

		shot, _ := f.svc.ImportOne(ctx, testutil.PNG(t, 4, 4), "twice.png")
		if err := f.svc.DeleteScreenshot(ctx, shot.ID); err != nil {
			t.Fatalf("first DeleteScreenshot() error = %v", err)
		}
		if err := f.svc.DeleteScreenshot(ctx, shot.ID); err != nil {
			t.Fatalf("second DeleteScreenshot() error = %v", err)
		}
	})

	t.Run("keeps vault content shared with another record", func(t *testing.T) {
		f := newFixture(t)

		data := testutil.PNG(t, 4, 4)
		first, _ := f.svc.ImportOne(ctx, data, "copy1.png")
		second, _ := f.svc.ImportOne(ctx, data, "copy2.png")
		if first.Checksum != second.Checksum {
			t.Fatal("expected identical checksums for identical bytes")
		}

		if err := f.svc.DeleteScreenshot(ctx, first.ID); err != nil {
			t.Fatalf("DeleteScreenshot() error = %v", err)
		}
		if f.vault.Len() != 1 {
			t.Errorf("vault content count = %d, want 1 (still referenced)", f.vault.Len())
		}
	})
}

func TestService_UpdateScreenshot(t *testing.T) {
	t.Run("deduplicates tags preserving first occurrence", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		shot, _ := f.svc.ImportOne(ctx, testutil.PNG(t, 4, 4), "tagged.png")
		shot.Tags = []string{"vacation", "beach", "vacation"}

		if err := f.svc.UpdateScreenshot(ctx, shot); err != nil {
			t.Fatalf("UpdateScreenshot() error = %v", err)
		}

		updated := findShot(t, f.svc, shot.ID)
		counts := make(map[string]int)
		for _, tag := range updated.Tags {
			counts[tag]++
		}
		if len(updated.Tags) != 2 || counts["vacation"] != 1 || counts["beach"] != 1 {
			t.Errorf("Tags = %v, want vacation and beach exactly once", updated.Tags)
		}
	})
}

func TestService_Categories(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting a default category is rejected", func(t *testing.T) {
		f := newFixture(t)

		categories, _ := f.svc.Categories(ctx)
		err := f.svc.DeleteCategory(ctx, categories[0].ID)
		if !errors.Is(err, catalog.ErrDefaultCategory) {
			t.Fatalf("DeleteCategory() error = %v, want ErrDefaultCategory", err)
		}

		after, _ := f.svc.Categories(ctx)
		if len(after) != len(categories) {
			t.Errorf("category count = %d, want %d", len(after), len(categories))
		}
	})

	t.Run("deleting a user category reassigns its screenshots to the fallback", func(t *testing.T) {
		f := newFixture(t)

		custom, err := f.svc.CreateCategory(ctx, "Recipes", "#FFFFFF", "leaf")
		if err != nil {
			t.Fatalf("CreateCategory() error = %v", err)
		}

		shot, _ := f.svc.ImportOne(ctx, testutil.PNG(t, 4, 4), "pie.png")
		shot.CategoryID = custom.ID
		if err := f.svc.UpdateScreenshot(ctx, shot); err != nil {
			t.Fatalf("UpdateScreenshot() error = %v", err)
		}
		confidence := shot.Confidence

		if err := f.svc.DeleteCategory(ctx, custom.ID); err != nil {
			t.Fatalf("DeleteCategory() error = %v", err)
		}

		moved := findShot(t, f.svc, shot.ID)
		if got := f.categoryName(t, moved); got != catalog.FallbackCategory {
			t.Errorf("category = %q, want %q", got, catalog.FallbackCategory)
		}
		if moved.Confidence != confidence {
			t.Errorf("Confidence changed on reassignment: %v != %v", moved.Confidence, confidence)
		}
	})

	t.Run("deleting an absent category is a no-op", func(t *testing.T) {
		f := newFixture(t)
		if err := f.svc.DeleteCategory(ctx, "missing"); err != nil {
			t.Errorf("DeleteCategory() error = %v, want nil", err)
		}
	})

	t.Run("find or create matches names case-insensitively", func(t *testing.T) {
		f := newFixture(t)

		before, _ := f.svc.Categories(ctx)
		c, err := f.svc.FindOrCreateCategory(ctx, "dOcUmEnTs")
		if err != nil {
			t.Fatalf("FindOrCreateCategory() error = %v", err)
		}
		if c.Name != "Documents" {
			t.Errorf("matched name = %q, want Documents", c.Name)
		}
		after, _ := f.svc.Categories(ctx)
		if len(after) != len(before) {
			t.Error("case-insensitive match still created a category")
		}
	})
}

func TestService_Reminders(t *testing.T) {
	ctx := context.Background()

	t.Run("schedules against an existing screenshot", func(t *testing.T) {
		f := newFixture(t)

		shot, _ := f.svc.ImportOne(ctx, testutil.PNG(t, 4, 4), "later.png")
		if err := f.svc.ScheduleReminder(ctx, shot.ID, 48); err != nil {
			t.Fatalf("ScheduleReminder() error = %v", err)
		}

		hours, ok := f.notifier.Pending(shot.ID)
		if !ok || hours != 48 {
			t.Errorf("Pending() = (%d, %v), want (48, true)", hours, ok)
		}
	})

	t.Run("rejects unknown screenshot IDs", func(t *testing.T) {
		f := newFixture(t)
		if err := f.svc.ScheduleReminder(ctx, "missing", 1); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("ScheduleReminder() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("cancelling an unknown reminder is a no-op", func(t *testing.T) {
		f := newFixture(t)
		if err := f.svc.CancelReminder("missing"); err != nil {
			t.Errorf("CancelReminder() error = %v, want nil", err)
		}
	})
}

func TestService_Profile(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil before first save", func(t *testing.T) {
		f := newFixture(t)
		p, err := f.svc.Profile(ctx)
		if err != nil {
			t.Fatalf("Profile() error = %v", err)
		}
		if p != nil {
			t.Errorf("Profile() = %+v, want nil", p)
		}
	})

	t.Run("stamps creation time on first save and round-trips", func(t *testing.T) {
		f := newFixture(t)

		p := &model.Profile{Name: "Sam", Email: "sam@example.com", OnboardingDone: true}
		if err := f.svc.SaveProfile(ctx, p); err != nil {
			t.Fatalf("SaveProfile() error = %v", err)
		}
		if p.CreatedAt.IsZero() {
			t.Error("CreatedAt not stamped on first save")
		}

		loaded, err := f.svc.Profile(ctx)
		if err != nil {
			t.Fatalf("Profile() error = %v", err)
		}
		if loaded == nil || loaded.Name != "Sam" || loaded.Email != "sam@example.com" || !loaded.OnboardingDone {
			t.Errorf("Profile() = %+v, want saved values", loaded)
		}
	})
}

func TestService_Projection(t *testing.T) {
	t.Run("filter narrows the in-memory view without touching the store", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		f.classifier.SetLabels(catalog.Label{Name: "receipt", Confidence: 0.9})
		docShot, _ := f.svc.ImportOne(ctx, testutil.PNGSeeded(t, 4, 4, 1), "doc.png")

		f.classifier.SetLabels(catalog.Label{Name: "game", Confidence: 0.8})
		if _, err := f.svc.ImportOne(ctx, testutil.PNGSeeded(t, 4, 4, 2), "play.png"); err != nil {
			t.Fatalf("ImportOne() error = %v", err)
		}

		f.svc.SetFilter(catalog.Filter{CategoryID: docShot.CategoryID})
		filtered := f.svc.FilteredProjection()
		if len(filtered) != 1 || filtered[0].ID != docShot.ID {
			t.Errorf("filtered projection = %d items, want just %s", len(filtered), docShot.ID)
		}

		f.svc.SetFilter(catalog.Filter{})
		if got := len(f.svc.FilteredProjection()); got != 2 {
			t.Errorf("unfiltered projection size = %d, want 2", got)
		}
	})
}

// findShot refreshes the projection and returns the screenshot with the given ID.
func findShot(t *testing.T, svc *catalog.Service, id string) *model.Screenshot {
	t.Helper()
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	svc.SetFilter(catalog.Filter{})
	for _, s := range svc.FilteredProjection() {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("screenshot %s not found", id)
	return nil
}
