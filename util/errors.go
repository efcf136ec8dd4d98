// Package util provides utility functions for toolbelt.
package util

import "errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Error kinds. An *Error matches the sentinel of its Kind.
	ErrParseInt = errors.New("ParseIntError")
	ErrHashing  = errors.New("HashingError")
	ErrArchive  = errors.New("ArchiveError")

	// File and directory errors
	ErrExpectedFile = errors.New("expected file, got directory")

	// Hash errors
	ErrInvalidHashPath  = errors.New("invalid hash path format")
	ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

	// Archive errors
	ErrArchiveClosed      = errors.New("archive already finalized")
	ErrUnknownCompression = errors.New("unknown compression")
	ErrUnsafeEntryName    = errors.New("entry name escapes the archive root")

	// ErrNone is the cause reported when an absent optional value is
	// normalized into an error.
	ErrNone = errors.New(None)
)

// Kind identifies which family of operation failed.
type Kind int

const (
	ParseIntError Kind = iota
	HashingError
	ArchiveError
)

func (k Kind) String() string {
	switch k {
	case ParseIntError:
		return "ParseIntError"
	case HashingError:
		return "HashingError"
	case ArchiveError:
		return "ArchiveError"
	default:
		return "UnknownError"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case ParseIntError:
		return ErrParseInt
	case HashingError:
		return ErrHashing
	case ArchiveError:
		return ErrArchive
	default:
		return nil
	}
}

// Error is the typed error returned by the digest, archive and decoding
// helpers. Details names the failing stage or carries the upstream message.
type Error struct {
	Kind    Kind
	Details string
	Err     error
}

// NewError returns an *Error of the given kind wrapping err.
func NewError(kind Kind, details string, err error) *Error {
	return &Error{Kind: kind, Details: details, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil && e.Details != e.Err.Error() {
		return e.Kind.String() + ": " + e.Details + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Details
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}
