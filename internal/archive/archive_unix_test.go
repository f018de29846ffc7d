//go:build unix

package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// TestBuild_SkipsFIFO leaves named pipes out of the archive without blocking on them.
func TestBuild_SkipsFIFO(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "ext")
	writeTree(t, src, map[string]string{"index.html": "x"})
	require.NoError(t, unix.Mkfifo(filepath.Join(src, "pipe"), 0o644))

	out := filepath.Join(dir, "out.zxp")
	done := make(chan error, 1)

	go func() {
		_, err := Build(context.Background(), src, out)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("build blocked on a named pipe")
	}

	require.Equal(t, map[string]string{"ext/index.html": "x"}, readArchive(t, out))
}

// TestBuild_KeepsDestinationMode carries the permissions of a replaced archive over.
func TestBuild_KeepsDestinationMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "ext")
	writeTree(t, src, map[string]string{"a.txt": "a"})

	out := filepath.Join(dir, "out.zxp")
	require.NoError(t, os.WriteFile(out, []byte("old"), 0o600))
	require.NoError(t, os.Chmod(out, 0o640))

	_, err := Build(context.Background(), src, out)
	require.NoError(t, err)

	info, err := os.Stat(out)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

// TestBuild_NewDestinationHonoursUmask gives a fresh archive the same mode a plain create would.
func TestBuild_NewDestinationHonoursUmask(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "ext")
	writeTree(t, src, map[string]string{"a.txt": "a"})

	reference, err := os.Create(filepath.Join(dir, "reference"))
	require.NoError(t, err)
	require.NoError(t, reference.Close())

	want, err := os.Stat(reference.Name())
	require.NoError(t, err)

	out := filepath.Join(dir, "out.zxp")

	_, err = Build(context.Background(), src, out)
	require.NoError(t, err)

	got, err := os.Stat(out)
	require.NoError(t, err)
	require.Equal(t, want.Mode().Perm(), got.Mode().Perm())
}
