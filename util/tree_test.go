package util

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTree creates n empty files: groups of ten in nested numbered
// directories and the remainder at the top level.
func makeTree(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	path := dir
	for i := 0; i < n/10; i++ {
		path = filepath.Join(path, fmt.Sprintf("%d", i))
		require.NoError(t, os.Mkdir(path, 0o755))
		for w := 0; w < 10; w++ {
			require.NoError(t, os.WriteFile(filepath.Join(path, fmt.Sprintf("%d.file", w)), []byte("ab"), 0o644))
		}
	}
	for i := 0; i < n%10; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.file", i)), []byte("ab"), 0o644))
	}
	return dir
}

func TestCountTree(t *testing.T) {
	testCases := []struct {
		Name          string
		FilesToCreate int
		Limit         int
		Count         int
		Overage       bool
	}{
		{Name: "no files", FilesToCreate: 0, Limit: 1, Count: 0, Overage: false},
		{Name: "subdirs over limit 1", FilesToCreate: 15, Limit: 1, Count: 2, Overage: true},
		{Name: "limit higher than count with one subdir", FilesToCreate: 15, Limit: 16, Count: 15, Overage: false},
		{Name: "limit higher than count with many subdirs", FilesToCreate: 1000, Limit: 1001, Count: 1000, Overage: false},
		{Name: "flat over limit", FilesToCreate: 5, Limit: 1, Count: 2, Overage: true},
		{Name: "no limit", FilesToCreate: 37, Limit: 0, Count: 37, Overage: false},
	}
	for _, c := range testCases {
		t.Run(c.Name, func(t *testing.T) {
			dir := makeTree(t, c.FilesToCreate)
			stats, over, err := CountTree(dir, c.Limit)
			if err != nil {
				t.Fatalf("CountTree() error = %v", err)
			}
			if stats.Files != c.Count {
				t.Errorf("Expected Count to be %d but got %d", c.Count, stats.Files)
			}
			if stats.Bytes != int64(2*c.Count) {
				t.Errorf("Expected Bytes to be %d but got %d", 2*c.Count, stats.Bytes)
			}
			if over != c.Overage {
				t.Errorf("Expected Overage to be %v but got %v", c.Overage, over)
			}
		})
	}
	t.Run("nonexistent path", func(t *testing.T) {
		_, _, err := CountTree(filepath.Join(t.TempDir(), "nonexistent"), 100)
		if !os.IsNotExist(err) {
			t.Errorf("Expected error of type IsNotExist but got %v", err)
		}
	})
	t.Run("file instead of directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, _, err := CountTree(path, 100)
		if err != ErrExpectedDirectory {
			t.Errorf("Expected error of type %v but got %v", ErrExpectedDirectory, err)
		}
	})
}

func TestArchive_AppendTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "readings")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2024", "01"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "2024", "01", "a.json"), []byte(`{"t":1}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.txt"), []byte("top"), 0o644))

	var buf bytes.Buffer
	a, err := NewArchive(&buf)
	require.NoError(t, err)
	n, err := a.AppendTree(root)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, a.Close())

	var names []string
	for _, e := range readEntries(t, &buf) {
		names = append(names, e.hdr.Name)
	}
	assert.Equal(t, []string{
		"readings/",
		"readings/2024/",
		"readings/2024/01/",
		"readings/2024/01/a.json",
		"readings/top.txt",
	}, names)
}

func TestArchive_AppendTreeSymlinkedRoot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "sub", "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(target, "a.txt"), []byte("a"), 0o644))
	link := filepath.Join(dir, "current")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	var buf bytes.Buffer
	a, err := NewArchive(&buf)
	require.NoError(t, err)
	n, err := a.AppendTree(link)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, a.Close())

	var names []string
	for _, e := range readEntries(t, &buf) {
		names = append(names, e.hdr.Name)
	}
	assert.Equal(t, []string{
		"current/",
		"current/a.txt",
		"current/sub/",
		"current/sub/b.txt",
	}, names)
}

func TestArchive_AppendTreeErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	var buf bytes.Buffer
	a, err := NewArchive(&buf)
	require.NoError(t, err)

	_, err = a.AppendTree(file)
	assert.ErrorIs(t, err, ErrArchive)
	assert.ErrorIs(t, err, ErrExpectedDirectory)

	_, err = a.AppendTree(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, a.Close())
	_, err = a.AppendTree(t.TempDir())
	assert.ErrorIs(t, err, ErrArchiveClosed)
}
