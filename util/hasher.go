package util

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/taigrr/colorhash"
	"github.com/zeebo/blake3"
)

// ChunkSize is the read size used when streaming a source into a digest.
const ChunkSize = 1024

// Algorithm selects the hash function used by the digest helpers.
type Algorithm int

const (
	MD5 Algorithm = iota
	SHA1
	SHA256
	SHA384
	SHA512
	BLAKE3
)

// Algorithms lists every supported algorithm in declaration order.
var Algorithms = []Algorithm{MD5, SHA1, SHA256, SHA384, SHA512, BLAKE3}

func (a Algorithm) String() string {
	switch a {
	case MD5:
		return "md5"
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	case SHA384:
		return "sha384"
	case SHA512:
		return "sha512"
	case BLAKE3:
		return "blake3"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a name such as "sha256", "SHA-256" or "md5" to its
// Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "")
	for _, a := range Algorithms {
		if a.String() == normalized {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// New returns a fresh streaming hash for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, a)
	}
}

// Size returns the digest length in bytes, or 0 for an unknown algorithm.
func (a Algorithm) Size() int {
	h, err := a.New()
	if err != nil {
		return 0
	}
	return h.Size()
}

// Digest is the finalized output of a hash function.
type Digest struct {
	Algorithm Algorithm
	Sum       []byte
}

// Hex renders the digest as lowercase hexadecimal.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.Sum)
}

// HexUpper renders the digest as uppercase hexadecimal.
func (d Digest) HexUpper() string {
	return strings.ToUpper(d.Hex())
}

// OCI renders the digest in the "algorithm:hex" form used by OCI content
// descriptors. Only algorithms go-digest knows about can be rendered.
func (d Digest) OCI() (digest.Digest, error) {
	alg := digest.Algorithm(d.Algorithm.String())
	if !alg.Available() {
		return "", fmt.Errorf("%w: %s has no OCI digest form", ErrUnknownAlgorithm, d.Algorithm)
	}
	return digest.NewDigestFromBytes(alg, d.Sum), nil
}

func (d Digest) String() string {
	return d.Algorithm.String() + ":" + d.Hex()
}

// Sum streams r into the selected hash in ChunkSize reads until EOF.
// A read failure is reported as a HashingError and no partial digest is
// returned.
func Sum(r io.Reader, alg Algorithm) (Digest, error) {
	h, err := alg.New()
	if err != nil {
		return Digest{}, NewError(HashingError, err.Error(), err)
	}
	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return Digest{}, NewError(HashingError, err.Error(), err)
	}
	return Digest{Algorithm: alg, Sum: h.Sum(nil)}, nil
}

// SumBytes hashes an in-memory buffer in a single write.
func SumBytes[T ~string | ~[]byte](v T, alg Algorithm) (Digest, error) {
	h, err := alg.New()
	if err != nil {
		return Digest{}, NewError(HashingError, err.Error(), err)
	}
	h.Write([]byte(v))
	return Digest{Algorithm: alg, Sum: h.Sum(nil)}, nil
}

// HashReader returns the lowercase hex digest of everything left in r.
// Works for open files, generic streams and archive entries alike; the
// read cursor is left at EOF.
func HashReader(r io.Reader, alg Algorithm) (string, error) {
	d, err := Sum(r, alg)
	if err != nil {
		return "", err
	}
	return d.Hex(), nil
}

// HashBytes returns the lowercase hex digest of a string or byte slice.
func HashBytes[T ~string | ~[]byte](v T, alg Algorithm) (string, error) {
	d, err := SumBytes(v, alg)
	if err != nil {
		return "", err
	}
	return d.Hex(), nil
}

// HashUint64 returns the lowercase hex digest of the 8-byte big-endian
// encoding of n.
func HashUint64(n uint64, alg Algorithm) (string, error) {
	return HashBytes(binary.BigEndian.AppendUint64(nil, n), alg)
}

func MD5Sum(r io.Reader) (string, error)    { return HashReader(r, MD5) }
func SHA1Sum(r io.Reader) (string, error)   { return HashReader(r, SHA1) }
func SHA256Sum(r io.Reader) (string, error) { return HashReader(r, SHA256) }
func SHA384Sum(r io.Reader) (string, error) { return HashReader(r, SHA384) }
func SHA512Sum(r io.Reader) (string, error) { return HashReader(r, SHA512) }

// GetHash calculates the SHA-256 hash of data from an io.Reader.
// It returns the hash as a hexadecimal string.
func GetHash(r io.Reader) (string, error) {
	return SHA256Sum(r)
}

// Hashes a file and returns the hash as a hex string suitable for use in a filepath
func GetFileHash(path string) (hash string, err error) {
	return HashFile(path, SHA256)
}

// SumFile digests the file at path. Every failure, including a missing
// file or a directory, is a HashingError.
func SumFile(path string, alg Algorithm) (Digest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Digest{}, NewError(HashingError, err.Error(), err)
	}
	if info.IsDir() {
		return Digest{}, NewError(HashingError, path, ErrExpectedFile)
	}
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, NewError(HashingError, err.Error(), err)
	}
	defer file.Close()
	return Sum(file, alg)
}

// HashFile opens the file at path and returns its lowercase hex digest.
func HashFile(path string, alg Algorithm) (string, error) {
	d, err := SumFile(path, alg)
	if err != nil {
		return "", err
	}
	return d.Hex(), nil
}

// RenameHashedFile renames a file to its content hash with the original extension.
// It calculates the digest of the file content and renames the file accordingly.
func RenameHashedFile(path string, alg Algorithm) (string, error) {
	hash, err := HashFile(path, alg)
	if err != nil {
		return "", err
	}

	fullName := filepath.Join(filepath.Dir(path), hash+filepath.Ext(path))
	return fullName, os.Rename(path, fullName)
}

// HashFromHashPath extracts the original hash from a hash-based name.
// It expects a name in the format "bucket-subbucket-hash[.ext]" and returns the hash portion.
func HashFromHashPath(path string) (string, error) {
	parts := strings.Split(filepath.Base(path), "-")
	if len(parts) != 3 {
		return "", ErrInvalidHashPath
	}
	return strings.TrimSuffix(parts[2], filepath.Ext(parts[2])), nil
}

// HashPathFromHash generates a content-addressed entry name from a hash.
// The result is in the format "bucket-subbucket-hash" (e.g., "742-00000-abc123...").
//
// The bucket (first component) is derived from a color hash mod 1000, giving 1000 buckets.
// The subbucket (second component) uses a secondary hash for further distribution when needed.
func HashPathFromHash(hash string) string {
	return HashPathFromHashWithSubbucket(hash, 0)
}

// ContentAddressedName is the name AppendContentAddressed stores a file
// under: HashPathFromHash with the subbucket taken from the tail of the hash.
func ContentAddressedName(hash string) string {
	return HashPathFromHashWithSubbucket(hash, GetSubbucketFromHash(hash))
}

// HashPathFromHashWithSubbucket generates a hash path with a specific subbucket.
func HashPathFromHashWithSubbucket(hash string, subbucket int) string {
	hInt := colorhash.HashString(hash)
	bucket := hInt % 1000
	return fmt.Sprintf("%d-%05d-%s", bucket, subbucket, hash)
}

// GetSubbucketFromHash returns a secondary subbucket index based on the hash.
// Returns a value from 0-99999.
func GetSubbucketFromHash(hash string) int {
	// Use the last 5 characters of the hash as the secondary bucket
	if len(hash) < 5 {
		return 0
	}
	var subbucket int
	for i := len(hash) - 5; i < len(hash); i++ {
		subbucket = subbucket*16 + hexCharToInt(hash[i])
	}
	return subbucket % 100000
}

// hexCharToInt converts a hex character to its integer value.
func hexCharToInt(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c - 'a' + 10)
	case c >= 'A' && c <= 'F':
		return int(c - 'A' + 10)
	default:
		return 0
	}
}
