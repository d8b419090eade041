package archive

import (
	"archive/tar"
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

// tarFile is one member of a test tarball.
type tarFile struct {
	name string
	body string
	dir  bool
}

// buildTarGzip creates a gzip compressed tarball whose entries carry an old timestamp.
func buildTarGzip(t *testing.T, files ...tarFile) []byte {
	t.Helper()

	var (
		buf      bytes.Buffer
		gz       = gzip.NewWriter(&buf)
		tw       = tar.NewWriter(gz)
		longAgo  = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
		typeflag byte
	)

	for _, f := range files {
		typeflag = tar.TypeReg
		mode := int64(0o644)

		if f.dir {
			typeflag = tar.TypeDir
			mode = 0o755
		}

		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     f.name,
			Typeflag: typeflag,
			Mode:     mode,
			Size:     int64(len(f.body)),
			ModTime:  longAgo,
		}))

		if !f.dir {
			_, err := tw.Write([]byte(f.body))
			require.NoError(t, err)
		}
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	return buf.Bytes()
}

// TestDetect checks format detection by magic bytes.
func TestDetect(t *testing.T) {
	t.Parallel()

	require.Equal(t, FormatTarGzip, Detect(buildTarGzip(t)))
	require.Equal(t, FormatSevenZip, Detect([]byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c, 0, 4}))
	require.Equal(t, FormatUnknown, Detect([]byte("PK\x03\x04")))
	require.Equal(t, FormatUnknown, Detect(nil))
}

// TestApply_StripsPrefixAndResetsTimestamps verifies prefix filtering and fresh timestamps.
func TestApply_StripsPrefixAndResetsTimestamps(t *testing.T) {
	t.Parallel()

	data := buildTarGzip(t,
		tarFile{name: "package/package.json", body: `{"name": "llc"}`},
		tarFile{name: "package/LimbusCompany_Data/Lang/LLC_zh-CN/", dir: true},
		tarFile{name: "package/LimbusCompany_Data/Lang/LLC_zh-CN/Info/version.json", body: `{"version": 101}`},
		tarFile{name: "package/LimbusCompany_Data/Lang/LLC_zh-CN/BattleAnnouncerDlg/text.json", body: `{}`},
		tarFile{name: "package/README.md", body: "readme"},
	)

	dest := t.TempDir()

	written, err := NewApplier().Apply(context.Background(), data, dest, StripPrefix("package/LimbusCompany_Data/Lang/LLC_zh-CN"))
	require.NoError(t, err)
	require.Equal(t, 2, written)

	contents, err := os.ReadFile(filepath.Join(dest, "Info", "version.json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"version": 101}`, string(contents))

	requireFresh(t, filepath.Join(dest, "BattleAnnouncerDlg", "text.json"))

	_, err = os.Stat(filepath.Join(dest, "package.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(dest, "README.md"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestApply_SevenZip extracts a stored 7z archive holding a directory, a file
// below the localization prefix and a file outside it.
func TestApply_SevenZip(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(filepath.Join("testdata", "localization.7z"))
	require.NoError(t, err)
	require.Equal(t, FormatSevenZip, Detect(data))

	dest := t.TempDir()

	written, err := NewApplier().Apply(context.Background(), data, dest, StripPrefix("LimbusCompany_Data/Lang/LLC_zh-CN"))
	require.NoError(t, err)
	require.Equal(t, 1, written)

	dir, err := os.Stat(filepath.Join(dest, "Story", "Empty"))
	require.NoError(t, err)
	require.True(t, dir.IsDir())

	target := filepath.Join(dest, "Info", "version.json")

	contents, err := os.ReadFile(target)
	require.NoError(t, err)
	require.JSONEq(t, `{"version": 101}`, string(contents))

	info, err := os.Stat(target)
	require.NoError(t, err)
	require.True(t, info.Mode().IsRegular())
	require.Equal(t, fs.FileMode(0o600), info.Mode().Perm()&0o600)

	// The archive stamps its entries with 2001.
	requireFresh(t, target)

	_, err = os.Stat(filepath.Join(dest, "Readme.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestApply_SevenZipMember picks a single 7z entry by base name.
func TestApply_SevenZipMember(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(filepath.Join("testdata", "localization.7z"))
	require.NoError(t, err)

	dest := t.TempDir()

	written, err := NewApplier().Apply(context.Background(), data, dest, Member("Readme.txt", "Font/Context/ChineseFont.ttf"))
	require.NoError(t, err)
	require.Equal(t, 1, written)

	contents, err := os.ReadFile(filepath.Join(dest, "Font", "Context", "ChineseFont.ttf"))
	require.NoError(t, err)
	require.Equal(t, "outside the prefix", string(contents))
}

// TestApply_Member extracts one file to a fixed location.
func TestApply_Member(t *testing.T) {
	t.Parallel()

	data := buildTarGzip(t,
		tarFile{name: "SarasaGothicSC-Regular.ttf", body: "regular"},
		tarFile{name: "SarasaGothicSC-Bold.ttf", body: "bold"},
	)

	dest := t.TempDir()

	written, err := NewApplier().Apply(context.Background(), data, dest, Member("SarasaGothicSC-Bold.ttf", "Font/Context/ChineseFont.ttf"))
	require.NoError(t, err)
	require.Equal(t, 1, written)

	contents, err := os.ReadFile(filepath.Join(dest, "Font", "Context", "ChineseFont.ttf"))
	require.NoError(t, err)
	require.Equal(t, "bold", string(contents))
}

// TestApply_RejectsTraversal ensures entries cannot escape the destination.
func TestApply_RejectsTraversal(t *testing.T) {
	t.Parallel()

	data := buildTarGzip(t, tarFile{name: "../evil.txt", body: "evil"})
	root := t.TempDir()
	dest := filepath.Join(root, "dest")

	_, err := NewApplier().Apply(context.Background(), data, dest, StripPrefix(""))
	require.ErrorIs(t, err, errPathTraversal)

	_, err = os.Stat(filepath.Join(root, "evil.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestApply_MalformedArchives verifies broken and unknown payloads are errors.
func TestApply_MalformedArchives(t *testing.T) {
	t.Parallel()

	applier := NewApplier()
	dest := t.TempDir()

	_, err := applier.Apply(context.Background(), []byte("plain text"), dest, StripPrefix(""))
	require.ErrorIs(t, err, errUnknownFormat)

	broken7z := append([]byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}, bytes.Repeat([]byte{0xff}, 64)...)
	_, err = applier.Apply(context.Background(), broken7z, dest, StripPrefix(""))
	require.Error(t, err)

	truncated := buildTarGzip(t, tarFile{name: "a.txt", body: "payload payload payload"})
	_, err = applier.Apply(context.Background(), truncated[:len(truncated)/2], dest, StripPrefix(""))
	require.Error(t, err)
}

// requireFresh checks that path was accessed and modified within the last seconds.
func requireFresh(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), info.ModTime(), 5*time.Second)

	if accessed, ok := accessTime(info); ok {
		require.WithinDuration(t, time.Now(), accessed, 5*time.Second)
	}
}

// TestStripPrefix covers the mapping rules.
func TestStripPrefix(t *testing.T) {
	t.Parallel()

	mapper := StripPrefix("./LimbusCompany_Data/Lang/LLC_zh-CN/")

	got, ok := mapper(normalizeName(`LimbusCompany_Data\Lang\LLC_zh-CN\Font\Context\ChineseFont.ttf`))
	require.True(t, ok)
	require.Equal(t, "Font/Context/ChineseFont.ttf", got)

	_, ok = mapper(normalizeName("LimbusCompany_Data/Lang/LLC_zh-CN"))
	require.False(t, ok)

	_, ok = mapper(normalizeName("LimbusCompany_Data/Lang/LLC_zh-CNX/file"))
	require.False(t, ok)
}
