package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for screenkeep.
type Config struct {
	BaseDir       string              `toml:"base_dir"`
	LogDir        string              `toml:"log_dir"`
	Database      DatabaseConfig      `toml:"database"`
	Vault         VaultConfig         `toml:"vault"`
	Encryption    EncryptionConfig    `toml:"encryption"`
	Classifier    ClassifierConfig    `toml:"classifier"`
	Photos        PhotosConfig        `toml:"photos"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// DatabaseConfig configures the catalog store.
// Tagged union: Type determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// VaultConfig configures the image content vault.
// Tagged union: Type determines which other fields are relevant.
type VaultConfig struct {
	Type      string `toml:"type"` // "memory", "filesystem", or "s3"
	Name      string `toml:"name"`
	Encrypted bool   `toml:"encrypted"` // wrap the vault with age encryption

	// Filesystem-specific fields (only used when Type == "filesystem")
	Root string `toml:"root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3Endpoint  string `toml:"s3_endpoint,omitempty"`   // custom endpoint, e.g. MinIO
	S3AccessKey string `toml:"s3_access_key,omitempty"` // static credentials; default chain when empty
	S3SecretKey string `toml:"s3_secret_key,omitempty"`
}

// EncryptionConfig holds paths to the age key pair protecting vault content.
type EncryptionConfig struct {
	RecipientPath string `toml:"recipient_path"`
	IdentityPath  string `toml:"identity_path"`
}

// ClassifierConfig configures the image classifier capability.
// Tagged union: Type determines which other fields are relevant.
type ClassifierConfig struct {
	Type string `toml:"type"` // "none", "static", or "http"

	// HTTP-specific fields (only used when Type == "http")
	Endpoint  string `toml:"endpoint,omitempty"`
	TimeoutMS int    `toml:"timeout_ms,omitempty"`

	// Static-specific fields (only used when Type == "static")
	LabelsPath string `toml:"labels_path,omitempty"`
}

// PhotosConfig configures the photo source the scan command imports from.
type PhotosConfig struct {
	Dir        string `toml:"dir"`
	MaxAgeDays int    `toml:"max_age_days"` // 0 means no recency cutoff
}

// NotificationsConfig configures the reminder scheduler.
type NotificationsConfig struct {
	Type string `toml:"type"` // "log" or "memory"
}

// NewConfig creates a Config with the provided base directory and defaults.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Vault: VaultConfig{
			Type: "filesystem",
			Name: "local",
			Root: filepath.Join(baseDir, "vault"),
		},
		Encryption: EncryptionConfig{
			RecipientPath: filepath.Join(baseDir, "keys", "screenkeep.pub"),
			IdentityPath:  filepath.Join(baseDir, "keys", "screenkeep.key"),
		},
		Classifier: ClassifierConfig{
			Type: "none",
		},
		Notifications: NotificationsConfig{
			Type: "log",
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
