package catalog

import "io"

// Vault provides content-addressable storage for encoded image bytes.
// Content is keyed by its SHA-256 checksum; the catalog store holds the
// checksum and all other metadata.
type Vault interface {
	// PutContent stores content identified by its checksum.
	// The operation is idempotent: storing the same checksum multiple times is safe.
	// size is the number of bytes that will be read from r.
	PutContent(checksum string, r io.Reader, size int64) error

	// GetContent retrieves content by checksum and writes it to w.
	GetContent(checksum string, w io.Writer) error

	// DeleteContent removes content by checksum. Deleting absent content
	// is a no-op.
	DeleteContent(checksum string) error

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
