package photos

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"screenkeep/internal/catalog"
	"screenkeep/internal/config"
)

// FileSystemSource discovers screenshot candidates in a local directory,
// standing in for a device photo library. An image qualifies when its pixel
// size matches a known device screen resolution and, if a recency cutoff is
// configured, its modification time is recent enough. Uncommon resolutions
// are false negatives by design.
type FileSystemSource struct {
	dir    string
	maxAge time.Duration // 0 means no cutoff
	clock  catalog.Clock
}

// NewFileSystemSource creates a source scanning the configured directory.
func NewFileSystemSource(cfg config.PhotosConfig, clock catalog.Clock) (*FileSystemSource, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("photo source requires dir to be set")
	}
	return &FileSystemSource{
		dir:    cfg.Dir,
		maxAge: time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
		clock:  clock,
	}, nil
}

// ListAssets walks the photo directory and returns candidate screenshots.
// Files that cannot be opened or decoded are skipped, not errors.
func (s *FileSystemSource) ListAssets(ctx context.Context) ([]catalog.Asset, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading photo directory: %w", err)
	}

	var cutoff time.Time
	if s.maxAge > 0 {
		cutoff = s.clock.Now().Add(-s.maxAge)
	}

	var assets []catalog.Asset
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !isImageName(entry.Name()) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !cutoff.IsZero() && info.ModTime().Before(cutoff) {
			continue
		}

		width, height, ok := decodeDimensions(path)
		if !ok || !catalog.IsScreenResolution(width, height) {
			continue
		}

		assets = append(assets, catalog.Asset{
			Handle:    path,
			FileName:  entry.Name(),
			Width:     width,
			Height:    height,
			CreatedAt: info.ModTime(),
		})
	}

	return assets, nil
}

// LoadAsset reads the full image bytes for a handle produced by ListAssets.
func (s *FileSystemSource) LoadAsset(_ context.Context, handle string) ([]byte, error) {
	data, err := os.ReadFile(handle)
	if err != nil {
		return nil, fmt.Errorf("loading asset: %w", err)
	}
	return data, nil
}

// decodeDimensions reads just the image header for its pixel size.
func decodeDimensions(path string) (width, height int, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func isImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// Compile-time check that FileSystemSource implements the catalog.PhotoSource interface
var _ catalog.PhotoSource = (*FileSystemSource)(nil)
