package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 0},
		Databases: []string{"/data/estonia.db"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabases(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing databases")
	}
}

func TestValidate_EmptyDatabasePath(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Databases: []string{"/data/estonia.db", "  "},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for blank database path")
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Databases: []string{"/data/estonia.db"},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Geocoder.RadiusMeters != 100 {
		t.Errorf("expected RadiusMeters=100, got %f", cfg.Geocoder.RadiusMeters)
	}
	if cfg.Geocoder.AddressCacheSize != 1024 {
		t.Errorf("expected AddressCacheSize=1024, got %d", cfg.Geocoder.AddressCacheSize)
	}
	if cfg.Geocoder.QueryCacheSize != 512 {
		t.Errorf("expected QueryCacheSize=512, got %d", cfg.Geocoder.QueryCacheSize)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Geocoder: GeocoderConfig{RadiusMeters: 250, Language: "et", AddressCacheSize: 64, QueryCacheSize: 32},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Geocoder.RadiusMeters != 250 {
		t.Errorf("expected RadiusMeters=250, got %f", cfg.Geocoder.RadiusMeters)
	}
	if cfg.Geocoder.AddressCacheSize != 64 {
		t.Errorf("expected AddressCacheSize=64, got %d", cfg.Geocoder.AddressCacheSize)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("REVGEO_DB", "/data/estonia.db")

	in := []byte("databases:\n  - ${REVGEO_DB}\n  - ${REVGEO_DB2:-/data/latvia.db}\n")
	out := string(expandEnvVars(in))

	if out != "databases:\n  - /data/estonia.db\n  - /data/latvia.db\n" {
		t.Fatalf("unexpected expansion:\n%s", out)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := []byte("http:\n  port: 9090\ndatabases:\n  - /data/estonia.db\ngeocoder:\n  radius_m: 75\n  language: et\n")
	if err := os.WriteFile(filepath.Join(cfgDir, "test.yaml"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Geocoder.RadiusMeters != 75 || cfg.Geocoder.Language != "et" {
		t.Errorf("unexpected geocoder config: %+v", cfg.Geocoder)
	}
	// Defaults applied for unspecified fields.
	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected defaulted ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
}
