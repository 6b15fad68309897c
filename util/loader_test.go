package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-iconsharp/images"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "c.jpeg", "d.ico", "e.bmp", "notes.txt", "iconsharp"} {
		touch(t, dir, name)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "output"), 0o755))
	touch(t, filepath.Join(dir, "output"), "old_improved.png")

	files, err := ListImageFiles(dir, nil)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.jpg", "b.PNG", "c.jpeg", "d.ico"}, names)

	assert.Equal(t, images.FormatJPEG, files[0].Format)
	assert.Equal(t, images.FormatPNG, files[1].Format)
	assert.Equal(t, images.FormatICO, files[3].Format)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), files[0].Path)
	assert.Equal(t, int64(1), files[0].Size)
}

func TestListImageFilesExclude(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "keep.png")
	touch(t, dir, "improve_all.png")

	files, err := ListImageFiles(dir, []string{"improve_all.png", "unrelated"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "keep.png", files[0].Name)
}

func TestListImageFilesEmptyAndMissing(t *testing.T) {
	files, err := ListImageFiles(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = ListImageFiles(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestListImageFilesFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	elsewhere := t.TempDir()
	touch(t, elsewhere, "target.png")
	require.NoError(t, os.Mkdir(filepath.Join(elsewhere, "folder.png"), 0o755))

	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "target.png"), filepath.Join(dir, "linked.png")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "folder.png"), filepath.Join(dir, "dirlink.png")))
	require.NoError(t, os.Symlink(filepath.Join(elsewhere, "missing.png"), filepath.Join(dir, "dangling.png")))

	files, err := ListImageFiles(dir, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "linked.png", files[0].Name)
	assert.Equal(t, filepath.Join(dir, "linked.png"), files[0].Path)
	assert.Equal(t, int64(1), files[0].Size)
}
