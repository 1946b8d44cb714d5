package vault

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
)

// GenerateKeys creates a new X25519 key pair for vault encryption.
// The recipient (public key) is stored in plaintext. The identity (private
// key) is stored plaintext with 0600 when passphrase is empty, otherwise
// encrypted with age's scrypt-based passphrase encryption.
func GenerateKeys(recipientPath, identityPath, passphrase string) error {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(recipientPath), 0700); err != nil {
		return fmt.Errorf("creating recipient directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(identityPath), 0700); err != nil {
		return fmt.Errorf("creating identity directory: %w", err)
	}

	if err := os.WriteFile(recipientPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing recipient: %w", err)
	}

	f, err := os.OpenFile(identityPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating identity file: %w", err)
	}
	defer f.Close()

	if passphrase == "" {
		if _, err := io.WriteString(f, identity.String()+"\n"); err != nil {
			return fmt.Errorf("writing identity: %w", err)
		}
		return nil
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	w, err := age.Encrypt(f, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		return fmt.Errorf("writing encrypted identity: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encrypted identity: %w", err)
	}
	return nil
}

// LoadRecipient reads the vault recipient (public key) from disk.
func LoadRecipient(path string) (age.Recipient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipient: %w", err)
	}
	recipient, err := age.ParseX25519Recipient(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing recipient: %w", err)
	}
	return recipient, nil
}

// LoadIdentities reads the vault identity (private key) from disk.
// If the file is passphrase-protected, passphrase must be non-empty.
func LoadIdentities(path, passphrase string) ([]age.Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading identity: %w", err)
	}

	// Plaintext identity files start with the bech32 "AGE-SECRET-KEY-" form.
	if strings.HasPrefix(strings.TrimSpace(string(data)), "AGE-SECRET-KEY-") {
		ids, err := age.ParseIdentities(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing identity: %w", err)
		}
		return ids, nil
	}

	if passphrase == "" {
		return nil, fmt.Errorf("identity file %s is passphrase-protected", path)
	}

	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(data), scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypting identity: %w", err)
	}
	ids, err := age.ParseIdentities(r)
	if err != nil {
		return nil, fmt.Errorf("parsing decrypted identity: %w", err)
	}
	return ids, nil
}
