// Package testutil provides common test helpers for the denv project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/denv/internal/envstore"
	"github.com/hbjs97/denv/internal/identity"
)

// TempConfigFile creates a temporary config.toml with the given content
// and returns its path. The file is automatically cleaned up.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempConfigFile: write failed: %v", err)
	}

	return path
}

// TempProject creates a temporary project directory containing a devpkg.toml
// with the given content and returns the project path.
func TempProject(t *testing.T, manifestContent string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "devpkg.toml")

	if err := os.WriteFile(path, []byte(manifestContent), 0644); err != nil {
		t.Fatalf("TempProject: write failed: %v", err)
	}

	return dir
}

// TempStore creates an envstore rooted at a fresh temporary base directory.
func TempStore(t *testing.T) *envstore.Store {
	t.Helper()

	return envstore.New(filepath.Join(t.TempDir(), "envs"))
}

// WriteExecutable creates an executable file with the given content under dir.
func WriteExecutable(t *testing.T, dir, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("WriteExecutable: mkdir failed: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("WriteExecutable: write failed: %v", err)
	}

	return path
}

// BuildReadyEnv builds a complete, ready environment record for the given
// project directory: skeleton, one dummy executable per binary name, and the
// readiness sentinel. Returns the environment id.
func BuildReadyEnv(t *testing.T, store *envstore.Store, projectDir string, binaries ...string) string {
	t.Helper()

	id := identity.Resolve(projectDir).ID()
	rec, err := store.BeginBuild(id)
	if err != nil {
		t.Fatalf("BuildReadyEnv: BeginBuild failed: %v", err)
	}
	for _, bin := range binaries {
		WriteExecutable(t, rec.BinDir(), bin, "#!/bin/sh\nexit 0\n")
	}
	if err := store.MarkReady(id); err != nil {
		t.Fatalf("BuildReadyEnv: MarkReady failed: %v", err)
	}

	return id
}
