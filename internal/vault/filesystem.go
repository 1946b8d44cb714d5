package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"screenkeep/internal/catalog"
)

// FileSystemVault is a filesystem-based implementation of the Vault interface.
// It stores content as files named by checksum:
//
//	<root>/
//	  content/
//	    <checksum>     (encoded image files, named by SHA-256)
type FileSystemVault struct {
	name       string
	root       string
	contentDir string
}

// NewFileSystemVault creates a new filesystem vault rooted at the given path.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	contentDir := filepath.Join(root, "content")

	if err := os.MkdirAll(contentDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}

	return &FileSystemVault{
		name:       name,
		root:       root,
		contentDir: contentDir,
	}, nil
}

// PutContent stores content identified by its checksum.
// The operation is idempotent: storing the same checksum multiple times is safe.
func (v *FileSystemVault) PutContent(checksum string, r io.Reader, size int64) error {
	destPath := filepath.Join(v.contentDir, checksum)

	// If content already exists, skip (idempotent)
	if _, err := os.Stat(destPath); err == nil {
		// Consume the reader to maintain expected behavior
		written, err := io.Copy(io.Discard, r)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		if written != size {
			return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
		}
		return nil
	}

	return v.writeFile(destPath, r, size)
}

// GetContent retrieves content by checksum and writes it to w.
func (v *FileSystemVault) GetContent(checksum string, w io.Writer) error {
	srcPath := filepath.Join(v.contentDir, checksum)

	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("content not found: %s", checksum)
		}
		return fmt.Errorf("failed to open content: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// DeleteContent removes content by checksum. Absent content is a no-op.
func (v *FileSystemVault) DeleteContent(checksum string) error {
	err := os.Remove(filepath.Join(v.contentDir, checksum))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the vault root is writable.
func (v *FileSystemVault) ValidateSetup() error {
	probe := filepath.Join(v.contentDir, ".probe")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return fmt.Errorf("vault root not writable: %w", err)
	}
	os.Remove(probe)
	return nil
}

// writeFile streams r to path via a temp file and rename, so a partial write
// never leaves a truncated content file behind.
func (v *FileSystemVault) writeFile(path string, r io.Reader, size int64) error {
	tmp, err := os.CreateTemp(v.contentDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write content: %w", err)
	}
	if written != size {
		os.Remove(tmpPath)
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize content: %w", err)
	}
	return nil
}

// Compile-time check that FileSystemVault implements the catalog.Vault interface
var _ catalog.Vault = (*FileSystemVault)(nil)
