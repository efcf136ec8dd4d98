package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dendrascience/toolbelt/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

// isolate keeps user config files and TOOLBELT_* variables out of a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"TOOLBELT_CONFIG", "TOOLBELT_ALGORITHM", "TOOLBELT_COMPRESSION", "TOOLBELT_LOG_LEVEL", "TOOLBELT_LOG_FORMAT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--log-format", "none"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHashCmd(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	file := writeFile(t, filepath.Join(dir, "hello.txt"), "hello world")

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "text", args: []string{"hash", "--text", "hello world"}, want: helloWorldSHA256 + "\n"},
		{name: "md5 text", args: []string{"hash", "-a", "md5", "--text", "hello"}, want: "5d41402abc4b2a76b9719d911017c592\n"},
		{name: "upper", args: []string{"hash", "--upper", "--text", "hello world"}, want: strings.ToUpper(helloWorldSHA256) + "\n"},
		{name: "oci", args: []string{"hash", "--oci", "--text", "hello world"}, want: "sha256:" + helloWorldSHA256 + "\n"},
		{name: "stdin", stdin: "hello world", args: []string{"hash"}, want: helloWorldSHA256 + "  -\n"},
		{name: "dash is stdin", stdin: "hello world", args: []string{"hash", "-"}, want: helloWorldSHA256 + "  -\n"},
		{name: "file", args: []string{"hash", file}, want: helloWorldSHA256 + "  " + file + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashCmd_Errors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := execute(t, "", "hash", dir)
	assert.ErrorIs(t, err, util.ErrExpectedFile)
	assert.ErrorIs(t, err, util.ErrHashing)

	_, err = execute(t, "", "hash", filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, util.ErrHashing)

	_, err = execute(t, "", "hash", "-a", "crc32", "--text", "x")
	assert.ErrorIs(t, err, util.ErrUnknownAlgorithm)

	_, err = execute(t, "", "hash", "--oci", "-a", "blake3", "--text", "x")
	assert.ErrorIs(t, err, util.ErrUnknownAlgorithm)

	_, err = execute(t, "", "hash", "--text", "x", "file.txt")
	assert.Error(t, err)
}

func TestHashCmd_Rename(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	file := writeFile(t, filepath.Join(dir, "greeting.json"), "hello world")

	out, err := execute(t, "", "hash", "--rename", file)
	require.NoError(t, err)

	renamed := filepath.Join(dir, helloWorldSHA256+".json")
	assert.Equal(t, file+" -> "+renamed+"\n", out)
	assert.FileExists(t, renamed)
	assert.NoFileExists(t, file)
}

func TestConfigPrecedence(t *testing.T) {
	home := isolate(t)

	t.Run("environment", func(t *testing.T) {
		t.Setenv("TOOLBELT_ALGORITHM", "md5")
		out, err := execute(t, "", "hash", "--text", "hello")
		require.NoError(t, err)
		assert.Equal(t, "5d41402abc4b2a76b9719d911017c592\n", out)
	})

	t.Run("config file", func(t *testing.T) {
		cfgFile := writeFile(t, filepath.Join(home, "custom.yaml"), "algorithm: sha1\n")
		t.Setenv("TOOLBELT_CONFIG", cfgFile)
		out, err := execute(t, "", "hash", "--text", "hello")
		require.NoError(t, err)
		assert.Equal(t, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d\n", out)

		// an explicit flag wins over the file
		out, err = execute(t, "", "hash", "-a", "md5", "--text", "hello")
		require.NoError(t, err)
		assert.Equal(t, "5d41402abc4b2a76b9719d911017c592\n", out)
	})

	t.Run("home config directory", func(t *testing.T) {
		writeFile(t, filepath.Join(home, ".toolbelt", "toolbelt.yaml"), "algorithm: md5\n")
		out, err := execute(t, "", "hash", "--text", "hello")
		require.NoError(t, err)
		assert.Equal(t, "5d41402abc4b2a76b9719d911017c592\n", out)
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Setenv("TOOLBELT_CONFIG", filepath.Join(home, "absent.yaml"))
		_, err := execute(t, "", "hash", "--text", "hello")
		assert.Error(t, err)
	})
}

func TestRootCmd_InvalidLogSettings(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "--log-level", "loud", "expand", "x")
	assert.Error(t, err)
	_, err = execute(t, "", "--log-format", "xml", "expand", "x")
	assert.Error(t, err)
}

func TestArchiveCmd_CreateListVerify(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join("data", "a.json"), `{"key": "value"}`)
	writeFile(t, filepath.Join("data", "b.txt"), "hello world")

	archive := filepath.Join(dir, "out.tar.gz")
	_, err := execute(t, "", "archive", "create", archive,
		"--compression", "gzip",
		"--text", "notes/readme.txt=hello world",
		filepath.Join("data", "a.json"), filepath.Join("data", "b.txt"))
	require.NoError(t, err)

	manifest := filepath.Join(dir, "manifest.json")
	out, err := execute(t, "", "archive", "list", archive, "--output", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "notes/readme.txt")
	assert.Contains(t, out, "data/a.json")
	assert.Contains(t, out, helloWorldSHA256)
	assert.Contains(t, out, "3 entries (2 unique)")
	assert.Contains(t, out, "gzip")
	assert.FileExists(t, manifest)

	out, err = execute(t, "", "archive", "list", "--json", archive)
	require.NoError(t, err)
	assert.Contains(t, out, `"entry_count": 3`)
	assert.Contains(t, out, `"algorithm": "sha256"`)

	out, err = execute(t, "", "archive", "verify", archive, "--manifest", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "Mismatches: 0")

	// same names, different content
	changed := filepath.Join(dir, "changed.tar.zst")
	_, err = execute(t, "", "archive", "create", changed,
		"-c", "zstd",
		"--text", "notes/readme.txt=goodbye",
		filepath.Join("data", "a.json"))
	require.NoError(t, err)

	out, err = execute(t, "", "archive", "verify", changed, "--manifest", manifest)
	assert.ErrorIs(t, err, ErrVerifyFailed)
	assert.Contains(t, out, "notes/readme.txt: digest")
	assert.Contains(t, out, "data/b.txt: missing from archive")
	assert.Contains(t, out, "Mismatches: 2")
}

func TestArchiveCmd_ContentAddressed(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "reading.json"), "hello world")
	archive := filepath.Join(dir, "ca.tar")

	_, err := execute(t, "", "archive", "create", "--content-addressed", archive, src)
	require.NoError(t, err)

	out, err := execute(t, "", "archive", "list", archive)
	require.NoError(t, err)
	assert.Contains(t, out, util.ContentAddressedName(helloWorldSHA256)+".json")
}

func TestArchiveCmd_Recursive(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tree", "x", "one.txt"), "1")
	writeFile(t, filepath.Join(dir, "tree", "two.txt"), "2")
	archive := filepath.Join(dir, "tree.tar.zst")

	_, err := execute(t, "", "archive", "create", "-r", "-c", "zstd", archive, filepath.Join(dir, "tree"))
	require.NoError(t, err)

	out, err := execute(t, "", "archive", "list", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "tree/x/one.txt")
	assert.Contains(t, out, "tree/two.txt")
	assert.Contains(t, out, "2 entries (2 unique)")
	assert.Contains(t, out, "zstd")
}

func TestArchiveCmd_Errors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	archive := filepath.Join(dir, "bad.tar")

	_, err := execute(t, "", "archive", "create", archive, "--text", "no-separator")
	assert.Error(t, err)

	_, err = execute(t, "", "archive", "create", archive, filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, util.ErrArchive)

	_, err = execute(t, "", "archive", "create", archive, "--compression", "lz4")
	assert.ErrorIs(t, err, util.ErrUnknownCompression)

	_, err = execute(t, "", "archive", "verify", archive)
	assert.Error(t, err, "--manifest is required")
}

func TestEncodeDecodeCmd(t *testing.T) {
	isolate(t)
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{name: "base64", args: []string{"encode", "Teststring"}, want: "VGVzdHN0cmluZw==\n"},
		{name: "base64 stdin", stdin: "Teststring\n", args: []string{"encode"}, want: "VGVzdHN0cmluZw==\n"},
		{name: "several", args: []string{"encode", "a", "bc"}, want: "YQ==\nYmM=\n"},
		{name: "hex", args: []string{"encode", "--hex", "hi"}, want: "6869\n"},
		{name: "hex upper", args: []string{"encode", "-x", "-u", "\xab"}, want: "AB\n"},
		{name: "decode base64", args: []string{"decode", "VGVzdHN0cmluZw=="}, want: "Teststring\n"},
		{name: "decode hex", args: []string{"decode", "--hex", "6869"}, want: "hi\n"},
		{name: "decode odd hex", args: []string{"decode", "-x", "68696"}, want: "hi\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := execute(t, "", "decode", "--hex", "zz")
	assert.ErrorIs(t, err, util.ErrParseInt)
	_, err = execute(t, "", "decode", "!!!")
	assert.Error(t, err)
}

func TestSizeCmd(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "size", "0", "1000", "2498566", "1.5GB")
	require.NoError(t, err)
	assert.Equal(t, "0.00B\n1.00KB\n2.50MB\n1.50GB\n", out)

	out, err = execute(t, "", "size", "--iec", "1024")
	require.NoError(t, err)
	assert.Equal(t, "1.0 KiB\n", out)

	_, err = execute(t, "", "size", "lots")
	assert.Error(t, err)
}

func TestCountCmd(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), strings.Repeat("x", 600))
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), strings.Repeat("y", 400))
	writeFile(t, filepath.Join(dir, "sub", "deeper", "c.txt"), strings.Repeat("z", 500))

	out, err := execute(t, "", "count", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Total files: 3\n")
	assert.Contains(t, out, "Total size: 1.50KB\n")

	out, err = execute(t, "", "count", "--limit", "2", dir)
	require.NoError(t, err)
	assert.Equal(t, "More than 2 files\n", out)

	_, err = execute(t, "", "count", filepath.Join(dir, "nope"))
	assert.Error(t, err)
}

func TestExpandCmd(t *testing.T) {
	isolate(t)
	t.Setenv("HOME", "/home/tester")
	out, err := execute(t, "", "expand", "~/data", "/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/data\n/abs/path\n", out)
}

func TestSeedCmd(t *testing.T) {
	isolate(t)
	first := filepath.Join(t.TempDir(), "fixtures")
	second := filepath.Join(t.TempDir(), "fixtures")

	out, err := execute(t, "", "seed", "-o", first, "-c", "25", "--seed", "7", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully created 25 files")

	_, err = execute(t, "", "seed", "-o", second, "-c", "25", "--seed", "7")
	require.NoError(t, err)

	list := func(root string) []string {
		var names []string
		require.NoError(t, filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel, err := filepath.Rel(root, path)
			names = append(names, rel)
			return err
		}))
		return names
	}
	a, b := list(first), list(second)
	assert.Len(t, a, 25)
	assert.Equal(t, a, b, "same seed gives the same layout")

	_, err = execute(t, "", "seed", "-c", "1")
	assert.Error(t, err, "--output is required")
}

func TestVersionCmd(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "toolbelt version")

	out, err = execute(t, "", "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"package":"toolbelt"`)
}
