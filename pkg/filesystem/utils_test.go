package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectoryExists(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name     string
		filePath string
	}{
		{name: "current directory", filePath: "test.xml"},
		{name: "single directory", filePath: filepath.Join(tempDir, "output", "feed.xml")},
		{name: "nested directories", filePath: filepath.Join(tempDir, "a", "b", "c", "feed.xml")},
		{name: "path with spaces", filePath: filepath.Join(tempDir, "dir with spaces", "feed.xml")},
		{name: "path with unicode characters", filePath: filepath.Join(tempDir, "réalisations", "flux.xml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, EnsureDirectoryExists(tt.filePath))

			dir := filepath.Dir(tt.filePath)
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		})
	}
}

func TestEnsureDirectoryExists_ParentIsFile(t *testing.T) {
	tempDir := t.TempDir()
	blocker := filepath.Join(tempDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := EnsureDirectoryExists(filepath.Join(blocker, "sub", "feed.xml"))
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "output", "atelier_filz_projets_residentiel.xml")

	require.NoError(t, WriteFile(target, []byte("first")))
	require.NoError(t, WriteFile(target, []byte("second")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.True(t, FileExists(target))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestFileExists(t *testing.T) {
	tempDir := t.TempDir()
	assert.False(t, FileExists(filepath.Join(tempDir, "missing.xml")))
	assert.False(t, FileExists(tempDir))
}

func TestGetDefaultPath(t *testing.T) {
	path, err := GetDefaultPath("config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.True(t, filepath.IsAbs(path))
}
