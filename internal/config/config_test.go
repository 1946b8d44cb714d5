package config_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"screenkeep/internal/config"
)

func TestConfig_ReadWrite(t *testing.T) {
	t.Run("round-trips through TOML", func(t *testing.T) {
		cfg := config.NewConfig("/tmp/screenkeep")
		cfg.Vault.Type = "s3"
		cfg.Vault.Encrypted = true
		cfg.Vault.S3Bucket = "shots"
		cfg.Vault.S3Region = "us-east-1"
		cfg.Classifier.Type = "http"
		cfg.Classifier.Endpoint = "http://localhost:8500/classify"
		cfg.Photos.Dir = "/tmp/photos"
		cfg.Photos.MaxAgeDays = 30

		m := &config.Manager{}
		var buf bytes.Buffer
		if err := m.Write(&buf, cfg); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		got, err := m.Read(&buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		if got.BaseDir != cfg.BaseDir {
			t.Errorf("BaseDir = %q, want %q", got.BaseDir, cfg.BaseDir)
		}
		if got.Vault.Type != "s3" || !got.Vault.Encrypted || got.Vault.S3Bucket != "shots" {
			t.Errorf("Vault = %+v, want s3 settings preserved", got.Vault)
		}
		if got.Classifier.Endpoint != cfg.Classifier.Endpoint {
			t.Errorf("Classifier.Endpoint = %q, want %q", got.Classifier.Endpoint, cfg.Classifier.Endpoint)
		}
		if got.Photos.MaxAgeDays != 30 {
			t.Errorf("Photos.MaxAgeDays = %d, want 30", got.Photos.MaxAgeDays)
		}
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		m := &config.Manager{}
		if _, err := m.Read(bytes.NewReader([]byte("not [valid"))); err == nil {
			t.Error("Read() error = nil, want decode error")
		}
	})
}

func TestConfig_Defaults(t *testing.T) {
	cfg := config.NewConfig("/data/screenkeep")

	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want sqlite", cfg.Database.Type)
	}
	if cfg.Database.DataDir != filepath.Join("/data/screenkeep", "data") {
		t.Errorf("Database.DataDir = %q, want under base dir", cfg.Database.DataDir)
	}
	if cfg.Vault.Type != "filesystem" {
		t.Errorf("Vault.Type = %q, want filesystem", cfg.Vault.Type)
	}
	if cfg.Classifier.Type != "none" {
		t.Errorf("Classifier.Type = %q, want none", cfg.Classifier.Type)
	}
	if cfg.Notifications.Type != "log" {
		t.Errorf("Notifications.Type = %q, want log", cfg.Notifications.Type)
	}
}

func TestConfig_Init(t *testing.T) {
	t.Run("creates a new config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config", "screenkeep.toml")

		if err := config.Init(path, config.NewConfig("/data")); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := config.ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.BaseDir != "/data" {
			t.Errorf("BaseDir = %q, want /data", got.BaseDir)
		}
	})

	t.Run("refuses to overwrite an existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "screenkeep.toml")
		if err := config.Init(path, config.NewConfig("/data")); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := config.Init(path, config.NewConfig("/other")); err == nil {
			t.Error("second Init() error = nil, want already-exists error")
		}
	})
}
