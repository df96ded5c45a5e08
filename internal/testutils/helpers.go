package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupProject creates a temporary flowmap project directory and writes each
// workflow file (name -> content) under its workflows/ folder.
// It returns the absolute path to the project and fails the test immediately on error.
func SetupProject(t *testing.T, workflows map[string]string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	dir := filepath.Join(absPath, "workflows")
	require.NoError(t, os.MkdirAll(dir, 0755), "Failed to create workflows dir")

	for name, content := range workflows {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644), "Failed to write %s", name)
	}
	return absPath
}
