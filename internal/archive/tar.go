package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// walkTarGzip feeds every member of a gzip compressed tarball to visit.
func walkTarGzip(data []byte, visit func(entry) error) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}

	defer func() {
		_ = gz.Close()
	}()

	reader := tar.NewReader(gz)

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		e := entry{
			name: header.Name,
			mode: header.FileInfo().Mode(),
			open: func() (io.ReadCloser, error) {
				return io.NopCloser(reader), nil
			},
		}

		if err = visit(e); err != nil {
			return err
		}
	}
}
