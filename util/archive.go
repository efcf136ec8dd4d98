package util

import (
	"archive/tar"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TextMode is the permission set given to entries added with AppendText.
const TextMode = 0o644

// Archive appends files and text to a tar stream. It is open from
// construction until Close; every method on a closed Archive fails with an
// ArchiveError wrapping ErrArchiveClosed.
type Archive struct {
	tw     *tar.Writer
	zw     io.WriteCloser
	file   *os.File
	now    func() time.Time
	closed bool
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveConfig)

type archiveConfig struct {
	compression Compression
	now         func() time.Time
}

// WithCompression wraps the tar stream in gzip or zstd.
func WithCompression(c Compression) ArchiveOption {
	return func(cfg *archiveConfig) {
		cfg.compression = c
	}
}

// WithModTime overrides the clock used to stamp text entries.
func WithModTime(now func() time.Time) ArchiveOption {
	return func(cfg *archiveConfig) {
		cfg.now = now
	}
}

// NewArchive starts an archive written to w. The caller keeps ownership of
// w; Close flushes the archive but does not close w.
func NewArchive(w io.Writer, opts ...ArchiveOption) (*Archive, error) {
	cfg := archiveConfig{compression: CompressionNone, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	zw, err := compressWriter(w, cfg.compression)
	if err != nil {
		return nil, NewError(ArchiveError, "create", err)
	}
	return &Archive{
		tw:  tar.NewWriter(zw),
		zw:  zw,
		now: cfg.now,
	}, nil
}

// CreateArchive creates (or truncates) the file at path and starts an
// archive in it. Close also closes the file.
func CreateArchive(path string, opts ...ArchiveOption) (*Archive, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, NewError(ArchiveError, "create", err)
	}
	a, err := NewArchive(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.file = f
	return a, nil
}

// EntryName returns the name a file path is stored under: absolute paths
// lose their leading separator (and volume) so the archive stays relocatable,
// relative paths are kept as given. Separators are normalized to '/'.
func EntryName(path string) string {
	if filepath.IsAbs(path) {
		path = strings.TrimPrefix(path, filepath.VolumeName(path))
		path = strings.TrimLeft(path, `/\`)
	}
	return filepath.ToSlash(path)
}

func checkEntryName(name string) error {
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return ErrUnsafeEntryName
		}
	}
	return nil
}

// AppendFile adds the file at path. Absolute paths are stored relative to
// the root, relative paths as given.
func (a *Archive) AppendFile(path string) error {
	stage := "append path"
	if filepath.IsAbs(path) {
		stage = "append named path"
	}
	return a.appendPath(stage, path, EntryName(path))
}

// AppendFileWithName adds the file at path under an explicit entry name.
func (a *Archive) AppendFileWithName(path, name string) error {
	return a.appendPath("append named path", path, EntryName(name))
}

// AppendContentAddressed adds the file at path under a name derived from
// its SHA-256 digest (see ContentAddressedName) and returns that name.
func (a *Archive) AppendContentAddressed(path string) (string, error) {
	if a.closed {
		return "", NewError(ArchiveError, "append named path", ErrArchiveClosed)
	}
	hash, err := GetFileHash(path)
	if err != nil {
		return "", NewError(ArchiveError, "append named path", err)
	}
	name := ContentAddressedName(hash) + filepath.Ext(path)
	return name, a.appendPath("append named path", path, name)
}

// AppendText adds text as a regular file entry named filename, with mode
// TextMode and the current time as its modification time. The name is
// normalized like a file path (see EntryName).
func (a *Archive) AppendText(filename, text string) error {
	const stage = "append text"
	if a.closed {
		return NewError(ArchiveError, stage, ErrArchiveClosed)
	}
	name := EntryName(filename)
	if err := checkEntryName(name); err != nil {
		return NewError(ArchiveError, stage, err)
	}
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Size:     int64(len(text)),
		Mode:     TextMode,
		ModTime:  a.now(),
		Format:   tar.FormatGNU,
	}
	if err := a.tw.WriteHeader(hdr); err != nil {
		return NewError(ArchiveError, stage, err)
	}
	if _, err := io.WriteString(a.tw, text); err != nil {
		return NewError(ArchiveError, stage, err)
	}
	return nil
}

func (a *Archive) appendPath(stage, path, name string) error {
	if a.closed {
		return NewError(ArchiveError, stage, ErrArchiveClosed)
	}
	if err := checkEntryName(name); err != nil {
		return NewError(ArchiveError, stage, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return NewError(ArchiveError, stage, err)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return NewError(ArchiveError, stage, err)
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name = strings.TrimSuffix(name, "/") + "/"
		if err := a.tw.WriteHeader(hdr); err != nil {
			return NewError(ArchiveError, stage, err)
		}
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return NewError(ArchiveError, stage, err)
	}
	defer f.Close()
	if err := a.tw.WriteHeader(hdr); err != nil {
		return NewError(ArchiveError, stage, err)
	}
	if _, err := io.Copy(a.tw, f); err != nil {
		return NewError(ArchiveError, stage, err)
	}
	return nil
}

// Close writes the tar trailer, flushes the compressor and, for archives
// made by CreateArchive, closes the file. The Archive cannot be used
// afterwards.
func (a *Archive) Close() error {
	const stage = "finalize"
	if a.closed {
		return NewError(ArchiveError, stage, ErrArchiveClosed)
	}
	a.closed = true
	err := errors.Join(a.tw.Close(), a.zw.Close())
	if a.file != nil {
		err = errors.Join(err, a.file.Close())
	}
	if err != nil {
		return NewError(ArchiveError, stage, err)
	}
	return nil
}

// ArchiveReader iterates the entries of a tar stream, transparently
// decompressing gzip and zstd input.
type ArchiveReader struct {
	tr          *tar.Reader
	release     func()
	compression Compression
}

// OpenArchive prepares r for reading. Call Close to release decoder state.
func OpenArchive(r io.Reader) (*ArchiveReader, error) {
	plain, c, release, err := decompressReader(r)
	if err != nil {
		return nil, NewError(ArchiveError, "open", err)
	}
	return &ArchiveReader{tr: tar.NewReader(plain), release: release, compression: c}, nil
}

// Compression reports the compression detected on the stream.
func (ar *ArchiveReader) Compression() Compression {
	return ar.compression
}

// Walk calls fn for every entry in order. The reader passed to fn yields
// the entry's content and is only valid during the call.
func (ar *ArchiveReader) Walk(fn func(hdr *tar.Header, r io.Reader) error) error {
	for {
		hdr, err := ar.tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return NewError(ArchiveError, "read", err)
		}
		if err := fn(hdr, ar.tr); err != nil {
			return err
		}
	}
}

// Close releases decompressor resources. It does not close the source.
func (ar *ArchiveReader) Close() error {
	if ar.release != nil {
		ar.release()
		ar.release = nil
	}
	return nil
}
