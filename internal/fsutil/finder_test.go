package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("# "+name), 0o644))
	}
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "b.hcl", "a.hcl", "notes.txt", "sub/c.hcl")

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "sub", "c.hcl"),
	}, files)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	require.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "dir/b.hcl", "dir/a.hcl.json", "dir/skip.md", "single.hcl")
	single := filepath.Join(root, "single.hcl")
	dir := filepath.Join(root, "dir")

	files, err := CollectFiles([]string{single, dir, single}, ".hcl", ".hcl.json")
	require.NoError(t, err)
	require.Equal(t, []string{
		single,
		filepath.Join(dir, "a.hcl.json"),
		filepath.Join(dir, "b.hcl"),
	}, files)
}

func TestCollectFiles_MissingPath(t *testing.T) {
	_, err := CollectFiles([]string{filepath.Join(t.TempDir(), "nope.hcl")}, ".hcl")
	require.ErrorContains(t, err, "error accessing path")
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("0644")
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), mode)

	mode, err = ParseMode("755")
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), mode)

	mode, err = ParseMode("4755")
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755)|os.ModeSetuid, mode)

	mode, err = ParseMode("3770")
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o770)|os.ModeSetgid|os.ModeSticky, mode)

	_, err = ParseMode("rw-r--r--")
	require.ErrorContains(t, err, "must be octal")

	_, err = ParseMode("17777")
	require.ErrorContains(t, err, "out of range")
}
