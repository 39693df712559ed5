package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/teamcutter/pybox/internal/domain"
)

func newTestState(t *testing.T) *SQLiteState {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLite(filepath.Join(dir, "state.db"), filepath.Join(dir, "environments.json"))
	if err != nil {
		t.Fatalf("NewSQLite error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEnv(venvPath string) *domain.Environment {
	return &domain.Environment{
		Project:     "/home/u/proj",
		Python:      "3.7.4",
		Source:      "downloaded",
		Interpreter: "/home/u/.python-installs/python-3.7.4/bin/python3",
		VenvPath:    venvPath,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestAddAndList(t *testing.T) {
	s := newTestState(t)

	env := testEnv("/home/u/proj/3.7/lib/.venv")
	if err := s.Add(env); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	envs, err := s.List()
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	got, ok := envs[env.VenvPath]
	if !ok {
		t.Fatalf("environment not listed: %v", envs)
	}
	if got.Python != "3.7.4" || got.Source != "downloaded" || got.Project != env.Project {
		t.Errorf("listed environment = %+v", got)
	}
	if !got.CreatedAt.Equal(env.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, env.CreatedAt)
	}
}

func TestAddIsUpsert(t *testing.T) {
	s := newTestState(t)

	path := "/home/u/proj/3.6/lib/.venv"
	if err := s.Add(testEnv(path)); err != nil {
		t.Fatal(err)
	}
	updated := testEnv(path)
	updated.Python = "3.6.9"
	if err := s.Add(updated); err != nil {
		t.Fatal(err)
	}

	envs, _ := s.List()
	if len(envs) != 1 {
		t.Fatalf("got %d rows, want 1", len(envs))
	}
	if envs[path].Python != "3.6.9" {
		t.Errorf("row not replaced: %+v", envs[path])
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := newTestState(t)

	a := testEnv("/a/3.7/lib/.venv")
	b := testEnv("/b/3.7/lib/.venv")
	if err := s.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(b); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(a.VenvPath); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	envs, _ := s.List()
	if len(envs) != 1 {
		t.Fatalf("after Remove: %d rows, want 1", len(envs))
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	envs, _ = s.List()
	if len(envs) != 0 {
		t.Errorf("after Clear: %d rows, want 0", len(envs))
	}
}

func TestManifestExport(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "environments.json")
	s, err := NewSQLite(filepath.Join(dir, "state.db"), manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Add(testEnv("/p/3.7/lib/.venv")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("manifest not exported: %v", err)
	}

	var ledger domain.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		t.Fatalf("manifest not valid JSON: %v", err)
	}
	if _, ok := ledger.Environments["/p/3.7/lib/.venv"]; !ok {
		t.Errorf("manifest missing environment: %s", data)
	}
}
