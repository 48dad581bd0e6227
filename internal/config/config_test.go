package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yml")
	content := `driver: pgx
dsn: "postgres://localhost/doctest"
jobs: 8
timeout: 30s
marker: "--[examples]"
exclude:
  - vendor
  - testdata
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		Driver:   "pgx",
		DSN:      "postgres://localhost/doctest",
		Jobs:     8,
		Timeout:  "30s",
		Marker:   "--[examples]",
		Excludes: []string{"vendor", "testdata"},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}

	d, err := cfg.TimeoutDuration()
	if err != nil {
		t.Fatalf("TimeoutDuration() error = %v", err)
	}
	if d != 30*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 30s", d)
	}
}

func TestLoad_DefaultFileAbsent(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v, want empty config for missing default file", err)
	}
	if !reflect.DeepEqual(cfg, &Config{}) {
		t.Errorf("Load() = %+v, want zero config", cfg)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("Load() expected error for a missing explicit file")
	}
}

func TestLoad_BadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yml")
	if err := os.WriteFile(path, []byte("timeout: fast\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for an unparseable timeout")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yml")
	if err := os.WriteFile(path, []byte("jobs: [not a number\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for malformed YAML")
	}
}

func TestTimeoutDuration_Empty(t *testing.T) {
	var cfg Config
	d, err := cfg.TimeoutDuration()
	if err != nil {
		t.Fatalf("TimeoutDuration() error = %v", err)
	}
	if d != 0 {
		t.Errorf("TimeoutDuration() = %v, want 0", d)
	}
}
