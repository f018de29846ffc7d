package archive

import (
	"archive/zip"
	"io"

	"github.com/klauspost/compress/flate"
)

// newWriter returns a zip writer whose Deflate method is backed by
// klauspost/compress at the default level.
func newWriter(w io.Writer) *zip.Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	return zw
}
