package util

import (
	"archive/tar"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/dendrascience/toolbelt/version"
)

type (
	ManifestEntry struct {
		Digest   string    `json:"digest"`   // lowercase hex digest of the entry content
		Mode     int64     `json:"mode"`     // permission bits from the tar header
		Modified time.Time `json:"modified"` // modification time from the tar header
		Name     string    `json:"name"`     // entry name inside the archive
		Size     int64     `json:"size"`     // size of the entry in bytes
	}
	Manifest struct {
		algorithm Algorithm
		entries   []ManifestEntry
		sorted    bool
	}
)

// NewManifest returns an empty manifest whose digests use alg.
func NewManifest(alg Algorithm) *Manifest {
	return &Manifest{algorithm: alg}
}

// Algorithm reports which hash the entry digests were computed with.
func (m *Manifest) Algorithm() Algorithm {
	return m.algorithm
}

func (m *Manifest) UnmarshalJSON(data []byte) error {
	var aux struct {
		Algorithm string          `json:"algorithm"`
		Entries   []ManifestEntry `json:"entries"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	alg, err := ParseAlgorithm(aux.Algorithm)
	if err != nil {
		return err
	}
	m.algorithm = alg
	m.entries = aux.Entries
	m.sorted = false
	return nil
}

func (m *Manifest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Algorithm string          `json:"algorithm"`
		Entries   []ManifestEntry `json:"entries"`
	}{
		Algorithm: m.algorithm.String(),
		Entries:   m.entries,
	})
}

func (m *Manifest) Iterate(yield func(ManifestEntry) bool) {
	for _, entry := range m.entries {
		if !yield(entry) {
			return
		}
	}
}

func (m *Manifest) Add(e ManifestEntry) {
	m.sorted = false
	m.entries = append(m.entries, e)
}

// Get returns the entry at index, or the zero entry when out of range.
func (m *Manifest) Get(index int) ManifestEntry {
	if index < 0 || index >= len(m.entries) {
		return ManifestEntry{}
	}
	return m.entries[index]
}

// Lookup finds the first entry with the given name.
func (m *Manifest) Lookup(name string) (ManifestEntry, bool) {
	i := slices.IndexFunc(m.entries, func(e ManifestEntry) bool { return e.Name == name })
	if i < 0 {
		return ManifestEntry{}, false
	}
	return m.entries[i], true
}

func (m *Manifest) Len() int {
	return len(m.entries)
}

func (m *Manifest) Swap(i, j int) {
	m.entries[i], m.entries[j] = m.entries[j], m.entries[i]
}

func (m *Manifest) Less(i, j int) bool {
	return m.entries[i].Modified.Before(m.entries[j].Modified)
}

// Sort orders entries by modification time, keeping archive order for ties.
func (m *Manifest) Sort() {
	sort.Stable(m)
	m.sorted = true
}

// OldestModified returns the earliest modification time, or the zero time
// for an empty manifest.
func (m *Manifest) OldestModified() time.Time {
	if m.Len() == 0 {
		return time.Time{}
	}
	if !m.sorted {
		m.Sort()
	}
	return m.Get(0).Modified
}

// Does the opposite of OldestModified
func (m *Manifest) NewestModified() time.Time {
	if m.Len() == 0 {
		return time.Time{}
	}
	if !m.sorted {
		m.Sort()
	}
	return m.Get(m.Len() - 1).Modified
}

// TotalSize sums the entry sizes.
func (m *Manifest) TotalSize() int64 {
	var total int64
	for e := range m.Iterate {
		total += e.Size
	}
	return total
}

// UniqueContentCount returns the number of distinct digests in the manifest.
func (m *Manifest) UniqueContentCount() int {
	digests := make(map[string]bool)
	for e := range m.Iterate {
		digests[e.Digest] = true
	}
	return len(digests)
}

type Summary struct {
	Algorithm          string    `json:"algorithm"`
	Compression        string    `json:"compression"`
	EntryCount         int       `json:"entry_count"`
	HumanSize          string    `json:"human_size"`
	NewestModified     time.Time `json:"newest_modified"`
	OldestModified     time.Time `json:"oldest_modified"`
	ToolbeltVersion    string    `json:"toolbelt_version"`
	TotalSize          int64     `json:"total_size"`
	UniqueContentCount int       `json:"unique_content_count"`
}

// Summarize derives archive-level statistics from the manifest.
func (m *Manifest) Summarize(c Compression) Summary {
	total := m.TotalSize()
	return Summary{
		Algorithm:          m.algorithm.String(),
		Compression:        c.String(),
		EntryCount:         m.Len(),
		HumanSize:          BytesAsHumanReadable(total),
		NewestModified:     m.NewestModified(),
		OldestModified:     m.OldestModified(),
		ToolbeltVersion:    version.GetVersion(),
		TotalSize:          total,
		UniqueContentCount: m.UniqueContentCount(),
	}
}

// ReadManifest walks the archive in r and records every regular file entry
// together with its digest. The detected compression is returned alongside.
func ReadManifest(r io.Reader, alg Algorithm) (*Manifest, Compression, error) {
	ar, err := OpenArchive(r)
	if err != nil {
		return nil, CompressionNone, err
	}
	defer ar.Close()

	m := NewManifest(alg)
	err = ar.Walk(func(hdr *tar.Header, content io.Reader) error {
		if hdr.Typeflag != tar.TypeReg {
			return nil
		}
		sum, err := HashReader(content, alg)
		if err != nil {
			return err
		}
		m.Add(ManifestEntry{
			Digest:   sum,
			Mode:     hdr.Mode,
			Modified: hdr.ModTime,
			Name:     hdr.Name,
			Size:     hdr.Size,
		})
		return nil
	})
	if err != nil {
		return nil, ar.Compression(), err
	}
	return m, ar.Compression(), nil
}

// ReadManifestFile is ReadManifest over the archive stored at path.
func ReadManifestFile(path string, alg Algorithm) (*Manifest, Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, CompressionNone, err
	}
	defer f.Close()
	return ReadManifest(f, alg)
}

// Mismatch describes one disagreement between an expected and an actual manifest.
type Mismatch struct {
	Name     string
	Expected string
	Actual   string
}

func (mm Mismatch) String() string {
	switch {
	case mm.Actual == "":
		return fmt.Sprintf("%s: missing from archive", mm.Name)
	case mm.Expected == "":
		return fmt.Sprintf("%s: not listed in manifest", mm.Name)
	default:
		return fmt.Sprintf("%s: digest %s, expected %s", mm.Name, mm.Actual, mm.Expected)
	}
}

// Compare reports every entry whose digest differs between want and m, plus
// entries present on only one side. Expected digests may be plain hex or
// OCI "algorithm:hex" strings.
func (m *Manifest) Compare(want *Manifest) []Mismatch {
	var out []Mismatch
	seen := make(map[string]bool)
	for e := range want.Iterate {
		seen[e.Name] = true
		got, ok := m.Lookup(e.Name)
		if !ok {
			out = append(out, Mismatch{Name: e.Name, Expected: e.Digest})
			continue
		}
		if encodedDigest(e.Digest) != got.Digest {
			out = append(out, Mismatch{Name: e.Name, Expected: e.Digest, Actual: got.Digest})
		}
	}
	for e := range m.Iterate {
		if !seen[e.Name] {
			out = append(out, Mismatch{Name: e.Name, Actual: e.Digest})
		}
	}
	return out
}

// encodedDigest strips a valid OCI algorithm prefix, leaving the hex part.
func encodedDigest(s string) string {
	if d, err := digest.Parse(s); err == nil {
		return d.Encoded()
	}
	return s
}

// WriteJSONFile writes any value as JSON to the specified file path.
// It creates the file and encodes the value using the standard JSON encoder.
// A failure to close the file is reported like an encoding failure.
func WriteJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return errors.Join(enc.Encode(v), f.Close())
}

// ReadJSONFile decodes the JSON document at path into v.
func ReadJSONFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}
