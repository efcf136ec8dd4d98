package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion_PrefersLdflags(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", GetVersion())

	Version = "dev"
	assert.NotEmpty(t, GetVersion())
}

func TestGetFullVersion(t *testing.T) {
	origV, origC, origD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = origV, origC, origD })

	Version, Commit, Date = "v0.4.0", "0123456789abcdef", "2024-05-01"
	assert.Equal(t, "v0.4.0 (0123456, built 2024-05-01)", GetFullVersion())

	Commit = "short"
	assert.Equal(t, "v0.4.0", GetFullVersion())
}

func TestPrintVersion(t *testing.T) {
	origV, origC, origD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = origV, origC, origD })
	Version, Commit, Date = "v0.4.0", "0123456789abcdef", "2024-05-01"

	var buf bytes.Buffer
	PrintVersion(&buf, "toolbelt")
	out := buf.String()
	assert.Contains(t, out, "toolbelt version v0.4.0 (0123456, built 2024-05-01)")
	assert.Contains(t, out, "Package: toolbelt")
	assert.Contains(t, out, "Commit: 0123456789abcdef")
	assert.Contains(t, out, "Go: go")
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"full", Info{Version: "v1.0.0", Commit: "abcdef0123", Date: "2024-01-02"}, "v1.0.0 (abcdef0, built 2024-01-02)"},
		{"no date", Info{Version: "v1.0.0", Commit: "abcdef0123", Date: unknown}, "v1.0.0 (abcdef0)"},
		{"unknown commit", Info{Version: "v1.0.0", Commit: unknown, Date: "2024-01-02"}, "v1.0.0"},
		{"seven char commit", Info{Version: "v1.0.0", Commit: "abcdef0", Date: "2024-01-02"}, "v1.0.0"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("%s: Info.String() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestGetInfo_LinkedValuesWin(t *testing.T) {
	origC, origD := Commit, Date
	t.Cleanup(func() { Commit, Date = origC, origD })
	Commit, Date = "feedface00", "2025-02-03"

	info := GetInfo()
	assert.Equal(t, "feedface00", info.Commit)
	assert.Equal(t, "2025-02-03", info.Date)
	assert.Equal(t, Package, info.Package)
	assert.NotEmpty(t, info.GoVersion)
}
