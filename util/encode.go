package util

import (
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
)

// ToBase64 encodes v with the standard, padded base64 alphabet.
func ToBase64[T ~string | ~[]byte](v T) string {
	return base64.StdEncoding.EncodeToString([]byte(v))
}

// ToBase64Strings encodes every element of ss.
func ToBase64Strings(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = ToBase64(s)
	}
	return out
}

// FromBase64 decodes standard, padded base64.
func FromBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// ToHex encodes v as lowercase hexadecimal.
func ToHex[T ~string | ~[]byte](v T) string {
	return hex.EncodeToString([]byte(v))
}

// ToHexUpper encodes v as uppercase hexadecimal.
func ToHexUpper[T ~string | ~[]byte](v T) string {
	return strings.ToUpper(ToHex(v))
}

// HexToBytes decodes s two characters at a time. A trailing unpaired
// character is ignored. Any pair that is not valid base-16 yields a
// ParseIntError and no bytes.
func HexToBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		b, err := strconv.ParseUint(s[i:i+2], 16, 8)
		if err != nil {
			return nil, NewError(ParseIntError, err.Error(), err)
		}
		out = append(out, byte(b))
	}
	return out, nil
}
