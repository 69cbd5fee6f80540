package models

import (
	"os"
	"path/filepath"
	"testing"
)

// GetFixturePath returns the absolute path of a file under the repository's
// testdata directory. Callers must sit two levels below the root.
func GetFixturePath(t *testing.T, fixturePath string) string {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("..", "..", "testdata", fixturePath))
	if err != nil {
		t.Fatalf("Failed to get absolute path to testdata/%s: %v", fixturePath, err)
	}

	return absPath
}

// ReadFixture returns the contents of an upstream payload fixture.
func ReadFixture(t *testing.T, fixturePath string) []byte {
	t.Helper()

	b, err := os.ReadFile(GetFixturePath(t, fixturePath))
	if err != nil {
		t.Fatalf("Failed to read testdata/%s: %v", fixturePath, err)
	}
	return b
}
