// Package main provides the toolbelt command-line interface.
//
// toolbelt bundles small data-handling helpers behind one binary: file and
// string digests, tar archive creation and verification, base64 and hex
// conversion, and human-readable sizes.
//
// The main binary supports multiple subcommands:
//   - hash: Digest files, stdin or a string with md5, sha1, sha2 or blake3
//   - archive: Create, list and verify (optionally compressed) tar archives
//   - encode, decode: Convert between text, base64 and hex
//   - size, count, expand: Size formatting, file counting and tilde expansion
package main
