package gateways

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/ochairo/cauldron/internal/domain/entities"
)

type tarEntry struct {
	name     string
	mode     int64
	contents string
}

func writeTar(t *testing.T, w io.Writer, entries []tarEntry) {
	t.Helper()
	tw := tar.NewWriter(w)
	for _, e := range entries {
		hdr := &tar.Header{
			Name: e.name,
			Mode: e.mode,
			Size: int64(len(e.contents)),
		}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(e.contents))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
}

func writeTarFile(t *testing.T, path string, entries []tarEntry) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	writeTar(t, f, entries)
}

func writeTarXzFile(t *testing.T, path string, entries []tarEntry) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	xzWriter, err := xz.NewWriter(f)
	require.NoError(t, err)
	writeTar(t, xzWriter, entries)
	require.NoError(t, xzWriter.Close())
}

var fixtureEntries = []tarEntry{
	{name: "usr/bin/tool", mode: 0o755, contents: "#!/bin/sh\n"},
	{name: "usr/bin/su", mode: 0o4755, contents: "elf"},
	{name: "usr/share/doc/readme", mode: 0o644, contents: "docs"},
	{name: ".BUILDINFO", mode: 0o644, contents: "builddate = 0"},
	{name: ".INSTALL", mode: 0o644, contents: "post_install() { true; }"},
}

func TestTarWalker_PlainTar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo-1.0-1-x86_64.pkg.tar")
	writeTarFile(t, path, fixtureEntries)

	report, err := NewTarWalker().Walk(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"usr/bin/tool", "usr/bin/su", "usr/share/doc/readme"}, report.AllFiles)
	assert.Equal(t, []string{"usr/bin/tool", "usr/bin/su"}, report.ExecutableFiles)
	assert.Equal(t, []string{"usr/bin/su"}, report.PrivilegedFiles)
	assert.Equal(t, "post_install() { true; }", report.InstallScript)
}

func TestTarWalker_XzCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo-1.0-1-x86_64.pkg.tar.xz")
	writeTarXzFile(t, path, fixtureEntries)

	report, err := NewTarWalker().Walk(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"usr/bin/su"}, report.PrivilegedFiles)
	assert.True(t, report.HasInstallScript())
}

func TestTarWalker_UnsupportedSuffix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foo-1.0-1-x86_64.pkg.tar.zst")
	require.NoError(t, os.WriteFile(path, []byte("whatever"), 0o644))

	report, err := NewTarWalker().Walk(path)

	var formatErr *entities.UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Nil(t, report)
}

func TestTarWalker_MissingFile(t *testing.T) {
	_, err := NewTarWalker().Walk(filepath.Join(t.TempDir(), "absent.tar"))

	assert.ErrorContains(t, err, "failed to open archive")
}

func TestTarWalker_CorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.tar")
	require.NoError(t, os.WriteFile(path, []byte("this is not a tar file at all"), 0o644))

	_, err := NewTarWalker().Walk(path)

	assert.Error(t, err)
}
