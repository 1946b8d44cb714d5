package vault

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"

	"screenkeep/internal/catalog"
)

// IdentityLoader supplies decryption identities on demand, so a passphrase
// prompt only happens when content is actually read back.
type IdentityLoader func() ([]age.Identity, error)

// EncryptedVault wraps another vault and encrypts content at rest with age.
// Content keys are unchanged: the checksum of the plaintext image bytes still
// addresses the (now encrypted) stored object.
type EncryptedVault struct {
	inner      catalog.Vault
	recipient  age.Recipient
	identities IdentityLoader
}

// NewEncryptedVault wraps inner with age encryption.
// recipient encrypts on write; identities are loaded lazily for reads.
func NewEncryptedVault(inner catalog.Vault, recipient age.Recipient, identities IdentityLoader) *EncryptedVault {
	return &EncryptedVault{
		inner:      inner,
		recipient:  recipient,
		identities: identities,
	}
}

// PutContent encrypts the content and stores the ciphertext in the inner
// vault. size refers to the plaintext; the inner vault sees ciphertext size.
func (v *EncryptedVault) PutContent(checksum string, r io.Reader, size int64) error {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, v.recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}

	written, err := io.Copy(w, r)
	if err != nil {
		return fmt.Errorf("encrypting content: %w", err)
	}
	if written != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}

	return v.inner.PutContent(checksum, &buf, int64(buf.Len()))
}

// GetContent retrieves ciphertext from the inner vault and decrypts it to w.
func (v *EncryptedVault) GetContent(checksum string, w io.Writer) error {
	var buf bytes.Buffer
	if err := v.inner.GetContent(checksum, &buf); err != nil {
		return err
	}

	ids, err := v.identities()
	if err != nil {
		return fmt.Errorf("loading identities: %w", err)
	}

	r, err := age.Decrypt(&buf, ids...)
	if err != nil {
		return fmt.Errorf("decrypting content: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// DeleteContent removes the ciphertext from the inner vault.
func (v *EncryptedVault) DeleteContent(checksum string) error {
	return v.inner.DeleteContent(checksum)
}

// ValidateSetup validates the inner vault.
func (v *EncryptedVault) ValidateSetup() error {
	return v.inner.ValidateSetup()
}

// Compile-time check that EncryptedVault implements the catalog.Vault interface
var _ catalog.Vault = (*EncryptedVault)(nil)
