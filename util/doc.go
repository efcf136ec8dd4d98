// Package util provides the toolbelt helpers: small adapters over the
// standard crypto, encoding and archive packages and a few ecosystem
// libraries.
//
// Key Components:
//
// Digests:
//   - MD5, SHA-1, SHA-256, SHA-384, SHA-512 and BLAKE3 over readers, open
//     files, tar entries, strings, byte slices and uint64 values
//   - Lowercase, uppercase and OCI ("sha256:...") renderings
//   - Content-addressed entry names ("bucket-subbucket-hash")
//
// Archives:
//   - Archive appends files and text to a tar stream, optionally gzip or
//     zstd compressed, and is unusable after Close
//   - AppendTree adds whole directories; CountTree sizes them first
//   - ArchiveReader and ReadManifest read archives back and digest entries
//   - Manifest summarizes and verifies archive contents
//
// Encoding and formatting:
//   - Base64 and hex encoding, hex decoding
//   - Metric human-readable byte counts
//
// Miscellaneous:
//   - Toggle, OptionString, ShellExpand, TrimNewlineEnd
//   - ToIOResult and OptionToIOResult for a single error shape
//
// Failures from digests, archives and hex decoding are *Error values whose
// Kind can be checked with errors.Is against ErrHashing, ErrArchive and
// ErrParseInt. Nothing in this package logs, retries or runs concurrently.
package util
