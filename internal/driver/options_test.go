package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"ferrite/internal/driver"
)

func TestLoadOptionsEmptyPath(t *testing.T) {
	opts, err := driver.LoadOptions("")
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts != driver.DefaultOptions() {
		t.Fatalf("opts = %+v, want defaults", opts)
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	opts, err := driver.LoadOptions(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("a missing config file is not an error: %v", err)
	}
	if opts != driver.DefaultOptions() {
		t.Fatalf("opts = %+v, want defaults", opts)
	}
}

func TestLoadOptionsParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ferrite.toml")
	text := "jobs = 4\nmax_diags = 32\ncache_app = \"\"\ntimings = true\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	opts, err := driver.LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.Jobs != 4 || opts.MaxDiags != 32 || !opts.Timings {
		t.Fatalf("opts = %+v", opts)
	}
	if opts.CacheApp != "" {
		t.Fatalf("an explicit empty cache_app must disable caching, got %q", opts.CacheApp)
	}
}

func TestLoadOptionsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("jobs = = 2"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := driver.LoadOptions(path); err == nil {
		t.Fatalf("malformed config must error")
	}
}
