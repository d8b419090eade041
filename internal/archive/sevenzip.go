package archive

import (
	"bytes"
	"fmt"

	"github.com/bodgit/sevenzip"
)

// walkSevenZip feeds every member of a 7z archive to visit, in archive order.
func walkSevenZip(data []byte, visit func(entry) error) error {
	reader, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open 7z archive: %w", err)
	}

	for _, file := range reader.File {
		e := entry{
			name: file.Name,
			mode: file.FileInfo().Mode(),
			open: file.Open,
		}

		if err = visit(e); err != nil {
			return err
		}
	}

	return nil
}
