package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/zxp-packager/internal/version"
)

// TestRun_WrongArgumentCount prints usage to stdout, exits 1 and creates nothing.
func TestRun_WrongArgumentCount(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "ext")
	require.NoError(t, os.MkdirAll(src, 0o755))

	cases := [][]string{
		{},
		{src},
		{src, filepath.Join(dir, "a.zxp"), filepath.Join(dir, "b.zxp")},
	}

	for _, args := range cases {
		var stdout, stderr bytes.Buffer

		code := run(args, &stdout, &stderr)
		require.Equal(t, 1, code, args)
		require.Contains(t, stdout.String(), usageLine)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// TestRun_UnknownFlag is treated as a usage error.
func TestRun_UnknownFlag(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code := run([]string{"--bogus", "a", "b"}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stdout.String(), usageLine)
}

// TestRun_Help prints usage to stdout but still exits 1.
func TestRun_Help(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{"-h"}, {"--help"}, {"help"}} {
		var stdout, stderr bytes.Buffer

		code := run(args, &stdout, &stderr)
		require.Equal(t, 1, code, args)
		require.Contains(t, stdout.String(), "zxp-packager <extension_folder> <output.zxp>", args)
	}
}

// TestRun_MissingSource exits 1 with an error naming the folder and no archive.
func TestRun_MissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "ghost")
	out := filepath.Join(dir, "ghost.zxp")

	var stdout, stderr bytes.Buffer

	code := run([]string{missing, out}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "'"+missing+"' not found")
	require.NotContains(t, stdout.String(), usageLine)
	require.NoFileExists(t, out)
}

// TestRun_Success packages a folder and prints one line per file plus the summary.
func TestRun_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "myext")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "CSIXS"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "index.html"), []byte("<html/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "CSIXS", "manifest.xml"), []byte("<m/>"), 0o644))

	out := filepath.Join(dir, "myext.zxp")

	var stdout, stderr bytes.Buffer

	code := run([]string{"--log-level", "error", src, out}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	require.Contains(t, stdout.String(), "Added: myext/index.html\n")
	require.Contains(t, stdout.String(), "Added: myext/CSIXS/manifest.xml\n")
	require.Contains(t, stdout.String(), "ZXP package created: "+out+"\n")
	require.FileExists(t, out)
}

// TestRun_Version prints build metadata.
func TestRun_Version(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	code := run([]string{"version"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), version.Full())
}
