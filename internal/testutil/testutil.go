// Package testutil provides test helpers shared by the inspector packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleManifest is a minimal sidecar body with one asset.
const SampleManifest = `ManifestFileVersion: 0
CRC: 2520207867
Hashes:
  AssetFileHash:
    serializedVersion: 2
    Hash: 1c6b4d1e2f6a0c8d9e7f3a2b1c0d9e8f
Assets:
- Assets/Prefabs/Hero.prefab
`

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteBundle writes a bundle file and its manifest sidecar under dir and
// returns the sidecar path.
func WriteBundle(t *testing.T, dir, name, payload string) string {
	t.Helper()
	WriteFile(t, dir, name, payload)
	return WriteFile(t, dir, name+".manifest", SampleManifest)
}

// RemoveFile deletes path, failing the test on error.
func RemoveFile(t *testing.T, path string) {
	t.Helper()
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove %s: %v", path, err)
	}
}
