package vault

import (
	"fmt"

	"filippo.io/age"

	"screenkeep/internal/catalog"
	"screenkeep/internal/config"
)

// NewVaultFromConfig creates a Vault implementation based on the vault config type.
// When cfg.Encrypted is set the result is wrapped with age encryption using
// the key paths from enc. passphrase is consulted only when the identity file
// turns out to be passphrase-protected; it may be nil.
func NewVaultFromConfig(cfg config.VaultConfig, enc config.EncryptionConfig, passphrase func() (string, error)) (catalog.Vault, error) {
	var v catalog.Vault
	var err error

	switch cfg.Type {
	case "memory":
		v = NewMemoryVault(cfg.Name)
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem vault requires root to be set")
		}
		v, err = NewFileSystemVault(cfg.Name, cfg.Root)
		if err != nil {
			return nil, err
		}
	case "s3":
		v, err = NewS3Vault(cfg)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}

	if !cfg.Encrypted {
		return v, nil
	}

	recipient, err := LoadRecipient(enc.RecipientPath)
	if err != nil {
		return nil, fmt.Errorf("loading vault recipient: %w", err)
	}

	loader := func() ([]age.Identity, error) {
		ids, err := LoadIdentities(enc.IdentityPath, "")
		if err == nil {
			return ids, nil
		}
		if passphrase == nil {
			return nil, err
		}
		pass, perr := passphrase()
		if perr != nil {
			return nil, perr
		}
		return LoadIdentities(enc.IdentityPath, pass)
	}

	return NewEncryptedVault(v, recipient, loader), nil
}
