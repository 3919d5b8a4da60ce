package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"keypoint-extractor/internal/domain/entity"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestDirectoryScanner_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.Bmp", "e.gif", "notes.txt", "noext", "f.webp"} {
		touch(t, dir, name)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0o755))

	seq, err := NewDirectoryScanner().Scan(dir)
	require.NoError(t, err)

	got := slices.Sorted(seq)
	want := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.JPEG"),
		filepath.Join(dir, "c.png"),
		filepath.Join(dir, "d.Bmp"),
		filepath.Join(dir, "e.gif"),
	}
	require.Equal(t, want, got)
}

func TestDirectoryScanner_ManyEntries(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < readDirBatch*2+5; i++ {
		touch(t, dir, fmt.Sprintf("img_%03d.png", i))
	}
	seq, err := NewDirectoryScanner().Scan(dir)
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
	}
	require.Equal(t, readDirBatch*2+5, count)
}

func TestDirectoryScanner_StopsEarly(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png")
	touch(t, dir, "b.png")

	seq, err := NewDirectoryScanner().Scan(dir)
	require.NoError(t, err)
	for range seq {
		break
	}
}

func TestDirectoryScanner_MissingDirectory(t *testing.T) {
	_, err := NewDirectoryScanner().Scan(filepath.Join(t.TempDir(), "imgs"))
	require.ErrorIs(t, err, entity.ErrDirectoryNotFound)
}

func TestDirectoryScanner_FileInsteadOfDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "imgs")
	_, err := NewDirectoryScanner().Scan(filepath.Join(dir, "imgs"))
	require.ErrorIs(t, err, entity.ErrDirectoryNotFound)
}

func TestIsImageFile(t *testing.T) {
	require.True(t, IsImageFile("photo.JPG"))
	require.True(t, IsImageFile("dir/scan.bmp"))
	require.False(t, IsImageFile("archive.png.zip"))
	require.False(t, IsImageFile("README"))
}
