package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"initializr/internal/store"
)

// withTempHome redirects os.UserHomeDir to a temp directory for the duration of the test.
func withTempHome(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	return tmp
}

func TestDefaultIsUnderHome(t *testing.T) {
	tmp := withTempHome(t)

	s, err := store.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	want := filepath.Join(tmp, ".initializr")
	if s.Dir != want {
		t.Errorf("Dir mismatch: got %s want %s", s.Dir, want)
	}
	// Nothing is created until the first write.
	if _, err := os.Stat(want); !os.IsNotExist(err) {
		t.Errorf("store dir should not exist yet, stat err = %v", err)
	}
}

func TestReadLastUsedMissing(t *testing.T) {
	withTempHome(t)
	s, _ := store.Default()

	got, err := s.ReadLastUsed("")
	if err != nil {
		t.Fatalf("ReadLastUsed: %v", err)
	}
	if got != "" {
		t.Errorf("want empty, got %q", got)
	}
}

func TestWriteThenReadGlobal(t *testing.T) {
	tmp := withTempHome(t)
	s, _ := store.Default()

	if err := s.WriteLastUsed("", "web,actuator"); err != nil {
		t.Fatalf("WriteLastUsed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(tmp, ".initializr", "last_used_dependencies"))
	if err != nil {
		t.Fatalf("last used file not written: %v", err)
	}
	if string(data) != "web,actuator" {
		t.Errorf("file content: got %q", data)
	}

	// Overwrite replaces, never appends.
	if err := s.WriteLastUsed("", "web"); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadLastUsed("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "web" {
		t.Errorf("ReadLastUsed: got %q want %q", got, "web")
	}
}

func TestPerVersionSlotsAreIndependent(t *testing.T) {
	s := store.Open(t.TempDir())

	if err := s.WriteLastUsed("3.2.1", "web"); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteLastUsed("3.1.7", "data-jpa"); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteLastUsed("", "security"); err != nil {
		t.Fatal(err)
	}

	for key, want := range map[string]string{"3.2.1": "web", "3.1.7": "data-jpa", "": "security"} {
		got, err := s.ReadLastUsed(key)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("slot %q: got %q want %q", key, got, want)
		}
	}
	if _, err := os.Stat(s.Path("last_used_dependencies-3.2.1")); err != nil {
		t.Errorf("per-version file missing: %v", err)
	}
}

func TestKeyIsSanitized(t *testing.T) {
	s := store.Open(t.TempDir())
	if err := s.WriteLastUsed("../escape", "web"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(s.Path("last_used_dependencies-.._escape")); err != nil {
		t.Errorf("sanitized file missing: %v", err)
	}
}

func TestWriteFileReplacesAndKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	if err := os.WriteFile(path, []byte("old content"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteFile(path, []byte("new"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWriteFileMissingDirLeavesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "pom.xml")
	if err := store.WriteFile(path, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
