package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"

	"github.com/anatolykoptev/go-burstpick/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileIsAbsent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if !strings.HasSuffix(resolved, filepath.Join(".config", "burstpick", "config.toml")) {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if diff := cmp.Diff(config.Default(), *cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProjectFileFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "burstpick.toml"), []byte("key_length = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "burstpick.toml" {
		t.Fatalf("resolved=%q exists=%v, want project file", resolved, exists)
	}
	if cfg.KeyLength != 6 {
		t.Errorf("KeyLength = %d, want 6", cfg.KeyLength)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
key_length = 5
scorable_prefixes = [" C ", "", "DSC"]
threshold = 42.5
workers = 3
resize_pixels = 2000000
strict = true
manifest = "~/burst/manifest.jsonl"

[logging]
level = "DEBUG"
format = " JSON "
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}

	want := config.Config{
		KeyLength:        5,
		ScorablePrefixes: []string{"C", "DSC"},
		Threshold:        42.5,
		DestSubdir:       "selected",
		Workers:          3,
		ResizePixels:     2000000,
		Strict:           true,
		Manifest:         filepath.Join(home, "burst", "manifest.jsonl"),
		Logging:          config.Logging{Level: "debug", Format: "json"},
	}
	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "key_lenght = 4\n")
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.KeyLength != 4 {
		t.Errorf("KeyLength = %d, want default 4", cfg.KeyLength)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{name: "zero key length", mutate: func(c *config.Config) { c.KeyLength = 0 }, wantErr: "key_length"},
		{name: "no prefixes", mutate: func(c *config.Config) { c.ScorablePrefixes = nil }, wantErr: "scorable_prefixes"},
		{name: "negative threshold", mutate: func(c *config.Config) { c.Threshold = -1 }, wantErr: "threshold"},
		{name: "too many workers", mutate: func(c *config.Config) { c.Workers = 1000 }, wantErr: "workers"},
		{name: "negative resize", mutate: func(c *config.Config) { c.ResizePixels = -5 }, wantErr: "resize_pixels"},
		{name: "escaping dest subdir", mutate: func(c *config.Config) { c.DestSubdir = "../out" }, wantErr: "dest_subdir"},
		{name: "bad log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "bad log level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestNormalizeLeavesSharedPrefixesAlone(t *testing.T) {
	t.Parallel()

	loaded := config.Default()
	loaded.ScorablePrefixes = []string{" ", "C", "DSC "}

	cfg := loaded
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if diff := cmp.Diff([]string{"C", "DSC"}, cfg.ScorablePrefixes); diff != "" {
		t.Errorf("normalized prefixes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{" ", "C", "DSC "}, loaded.ScorablePrefixes); diff != "" {
		t.Errorf("original prefixes rewritten (-want +got):\n%s", diff)
	}
}

func TestCuration(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.ScorablePrefixes = []string{"DSC"}
	cfg.Workers = 2

	lib := cfg.Curation()
	if lib.KeyLength != 4 || lib.Workers != 2 || lib.Threshold != 100 {
		t.Errorf("library config = %+v", lib)
	}
	if lib.Scorable("C001") || !lib.Scorable("DSC0") {
		t.Error("scorable predicate does not follow scorable_prefixes")
	}
	if got := cfg.DestinationFor("/photos"); got != filepath.Join("/photos", "selected") {
		t.Errorf("DestinationFor = %q", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if err := parsed.Normalize(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(config.Default(), parsed); diff != "" {
		t.Errorf("sample differs from defaults (-want +got):\n%s", diff)
	}
}
