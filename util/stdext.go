package util

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	// None is what OptionString renders for an absent value.
	None = "None"

	tilde      = "~"
	envVarHome = "HOME"
)

// Toggle flips *b in place.
func Toggle(b *bool) {
	*b = !*b
}

// OptionString renders the value behind v, or None when v is nil.
func OptionString[T any](v *T) string {
	if v == nil {
		return None
	}
	return fmt.Sprint(*v)
}

// ToStringOption converts the value behind v to its string form while
// keeping absence: a nil v stays nil.
func ToStringOption[T any](v *T) *string {
	if v == nil {
		return nil
	}
	s := fmt.Sprint(*v)
	return &s
}

// ToStrings converts a slice of string-kinded values to []string.
func ToStrings[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

// ShellExpand replaces every "~" in s with $HOME. When HOME is unset or
// not valid UTF-8, s is returned unchanged. An empty HOME still expands.
func ShellExpand(s string) string {
	if !strings.Contains(s, tilde) {
		return s
	}
	home, ok := os.LookupEnv(envVarHome)
	if !ok || !utf8.ValidString(home) {
		return s
	}
	return strings.ReplaceAll(s, tilde, home)
}

// TrimNewlineEnd removes any run of trailing '\r' and '\n' characters.
func TrimNewlineEnd(s string) string {
	return strings.TrimRight(s, "\r\n")
}
