package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oshokin/zxp-packager/internal/logger"
)

var (
	// ErrSourceNotFound is returned when the source folder does not exist.
	ErrSourceNotFound = errors.New("source folder not found")
	// ErrNotDirectory is returned when the source path is not a directory.
	ErrNotDirectory = errors.New("source is not a directory")
)

// Entry describes one file stored in the archive.
type Entry struct {
	// Name is the archive-relative path, always slash-separated.
	Name string
	// Size is the number of content bytes.
	Size uint64
	// CompressedSize is the number of bytes after deflate.
	CompressedSize uint64
}

// Result summarizes a finished archive.
type Result struct {
	// Path is the absolute location of the archive.
	Path string
	// Entries are listed in the order they were written.
	Entries []Entry
}

// Size returns the total uncompressed size of all entries.
func (r *Result) Size() uint64 {
	var total uint64
	for _, e := range r.Entries {
		total += e.Size
	}

	return total
}

// CompressedSize returns the total compressed size of all entries.
func (r *Result) CompressedSize() uint64 {
	var total uint64
	for _, e := range r.Entries {
		total += e.CompressedSize
	}

	return total
}

// Option configures Build.
type Option func(*builder)

// WithProgress registers fn to be called with each entry name right after the entry is written.
func WithProgress(fn func(name string)) Option {
	return func(b *builder) {
		b.progress = fn
	}
}

// WithFollowSymlinks controls whether links to regular files are archived.
// Links are followed by default.
func WithFollowSymlinks(follow bool) Option {
	return func(b *builder) {
		b.followSymlinks = follow
	}
}

// builder holds the state of a single Build call.
type builder struct {
	// root is the absolute, cleaned source folder.
	root string
	// parent is the directory entry names are relative to.
	parent string
	// output is the absolute destination path.
	output string
	// followSymlinks enables archiving of links to regular files.
	followSymlinks bool
	// progress is called after every written entry.
	progress func(name string)

	// skip holds files that must never be archived: the archive being written
	// and the destination it will replace.
	skip []os.FileInfo
	// headers collects entry headers; sizes are final only after the writer is closed.
	headers []*zip.FileHeader
}

// Build packs every regular file under sourceDir into a deflate-compressed
// archive at outputPath, replacing any existing file there.
func Build(ctx context.Context, sourceDir, outputPath string, opts ...Option) (*Result, error) {
	root, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolve source folder: %w", err)
	}

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", sourceDir, ErrSourceNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("stat source folder: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", sourceDir, ErrNotDirectory)
	}

	output, err := filepath.Abs(outputPath)
	if err != nil {
		return nil, fmt.Errorf("resolve archive path: %w", err)
	}

	b := &builder{
		root: root,
		// Names are relative to filepath.Dir(root), so they start with the folder name.
		parent:         filepath.Dir(root),
		output:         output,
		followSymlinks: true,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b.build(ctx)
}

// build writes the archive to a temporary file and renames it over the destination.
func (b *builder) build(ctx context.Context) (*Result, error) {
	tmp, err := createTemp(b.output)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}

	tmpName := tmp.Name()

	logger.DebugKV(ctx, "Writing temporary archive", "path", tmpName)

	if err = b.write(ctx, tmp); err != nil {
		_ = os.Remove(tmpName)

		return nil, err
	}

	if err = os.Rename(tmpName, b.output); err != nil {
		_ = os.Remove(tmpName)

		return nil, fmt.Errorf("replace archive: %w", err)
	}

	result := &Result{
		Path:    b.output,
		Entries: make([]Entry, 0, len(b.headers)),
	}

	for _, h := range b.headers {
		result.Entries = append(result.Entries, Entry{
			Name:           h.Name,
			Size:           h.UncompressedSize64,
			CompressedSize: h.CompressedSize64,
		})
	}

	return result, nil
}

// write fills f with the archive and closes it. Both the zip writer and
// the file are closed on every path.
func (b *builder) write(ctx context.Context, f *os.File) error {
	if info, err := f.Stat(); err == nil {
		b.skip = append(b.skip, info)
	}

	if info, err := os.Stat(b.output); err == nil {
		b.skip = append(b.skip, info)
	}

	zw := newWriter(f)

	walkErr := fs.WalkDir(os.DirFS(b.root), ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", filepath.Join(b.root, filepath.FromSlash(name)), err)
		}

		if err = ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		return b.visit(ctx, zw, name, d)
	})

	closeErr := zw.Close()
	fileErr := f.Close()

	switch {
	case walkErr != nil:
		return walkErr
	case closeErr != nil:
		return fmt.Errorf("finalize archive: %w", closeErr)
	case fileErr != nil:
		return fmt.Errorf("close archive: %w", fileErr)
	}

	return nil
}

// visit decides how a non-directory entry is handled and adds it when it holds regular content.
func (b *builder) visit(ctx context.Context, zw *zip.Writer, name string, d fs.DirEntry) error {
	fsPath := filepath.Join(b.root, filepath.FromSlash(name))

	var (
		info fs.FileInfo
		err  error
	)

	switch mode := d.Type(); {
	case mode.IsRegular():
		info, err = d.Info()
		if err != nil {
			return fmt.Errorf("stat source file: %w", err)
		}
	case mode&fs.ModeSymlink != 0:
		if !b.followSymlinks {
			logger.DebugKV(ctx, "Skipping symlink", "path", fsPath)

			return nil
		}

		info, err = os.Stat(fsPath)
		if err != nil {
			logger.WarnKV(ctx, "Skipping unresolvable symlink", "path", fsPath, "error", err)

			return nil
		}

		if info.IsDir() {
			logger.DebugKV(ctx, "Skipping symlink to directory", "path", fsPath)

			return nil
		}

		if !info.Mode().IsRegular() {
			logger.WarnKV(ctx, "Skipping symlink to special file", "path", fsPath, "mode", info.Mode().String())

			return nil
		}
	default:
		logger.WarnKV(ctx, "Skipping special file", "path", fsPath, "mode", mode.String())

		return nil
	}

	if b.isSkipped(info) {
		logger.DebugKV(ctx, "Skipping archive file inside source folder", "path", fsPath)

		return nil
	}

	entryName, err := archiveName(b.parent, fsPath)
	if err != nil {
		return err
	}

	if err = b.add(zw, entryName, fsPath, info); err != nil {
		return err
	}

	if b.progress != nil {
		b.progress(entryName)
	}

	return nil
}

// add copies the file at fsPath into the archive under entryName.
func (b *builder) add(zw *zip.Writer, entryName, fsPath string, info fs.FileInfo) error {
	src, err := os.Open(fsPath)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}

	defer func() {
		_ = src.Close()
	}()

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("build header for %s: %w", fsPath, err)
	}

	header.Name = entryName
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", entryName, err)
	}

	if _, err = io.Copy(w, src); err != nil {
		return fmt.Errorf("write entry %s: %w", entryName, err)
	}

	b.headers = append(b.headers, header)

	return nil
}

// archiveName returns fsPath relative to parent as a slash-separated entry name.
func archiveName(parent, fsPath string) (string, error) {
	rel, err := filepath.Rel(parent, fsPath)
	if err != nil {
		return "", fmt.Errorf("name entry for %s: %w", fsPath, err)
	}

	return filepath.ToSlash(rel), nil
}

// isSkipped reports whether info is the archive being produced or the file it replaces.
func (b *builder) isSkipped(info fs.FileInfo) bool {
	for _, s := range b.skip {
		if os.SameFile(s, info) {
			return true
		}
	}

	return false
}
