package util

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

var ErrExpectedDirectory = errors.New("expected directory but got file")

// TreeStats is the number and combined size of the files below a directory.
type TreeStats struct {
	Files int
	Bytes int64
}

// CountTree totals every non-directory entry below path. With limit > 0 the
// walk stops as soon as more than limit files have been seen and over is
// true; the stats then cover only what was visited.
func CountTree(path string, limit int) (stats TreeStats, over bool, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		err = ErrExpectedDirectory
		return
	}
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += fi.Size()
		if limit > 0 && stats.Files > limit {
			over = true
			return fs.SkipAll
		}
		return nil
	})
	return
}

// AppendTree adds root and everything below it in lexical order. Entry
// names start with the base name of root, so a tree at /data/in is stored
// under "in/". A symlinked root is followed and stored under the link's
// name; symlinks and special files below it are skipped. It returns the
// number of regular files written.
func (a *Archive) AppendTree(root string) (int, error) {
	const stage = "append tree"
	if a.closed {
		return 0, NewError(ArchiveError, stage, ErrArchiveClosed)
	}
	info, err := os.Stat(root)
	if err != nil {
		return 0, NewError(ArchiveError, stage, err)
	}
	if !info.IsDir() {
		return 0, NewError(ArchiveError, stage, ErrExpectedDirectory)
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return 0, NewError(ArchiveError, stage, err)
	}

	prefix := filepath.Base(filepath.Clean(root))
	if prefix == "." || prefix == ".." || prefix == string(filepath.Separator) {
		prefix = ""
	}
	files := 0
	err = filepath.WalkDir(resolved, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return NewError(ArchiveError, stage, err)
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(resolved, p)
		if err != nil {
			return NewError(ArchiveError, stage, err)
		}
		name := path.Join(prefix, filepath.ToSlash(rel))
		if name == "." {
			return nil
		}
		if err := a.appendPath(stage, p, name); err != nil {
			return err
		}
		if !d.IsDir() {
			files++
		}
		return nil
	})
	return files, err
}
