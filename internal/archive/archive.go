package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oshokin/llc-launcher/internal/logger"
)

// Format is an archive container format.
type Format int

const (
	// FormatUnknown is returned for payloads that are not a supported archive.
	FormatUnknown Format = iota
	// FormatTarGzip is a gzip compressed tarball, as published on npm.
	FormatTarGzip
	// FormatSevenZip is a 7z archive, as published by the vendor.
	FormatSevenZip
)

const (
	// defaultFileMode is used when the archive carries no permissions.
	defaultFileMode fs.FileMode = 0o644
	// dirMode is used for every directory created by the applier.
	dirMode fs.FileMode = 0o755
)

var (
	gzipMagic     = []byte{0x1f, 0x8b}
	sevenZipMagic = []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}

	errUnknownFormat = errors.New("unsupported archive format")
	errPathTraversal = errors.New("archive entry escapes the destination")
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTarGzip:
		return "tar.gz"
	case FormatSevenZip:
		return "7z"
	default:
		return "unknown"
	}
}

// Detect identifies the archive format from its magic bytes.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, sevenZipMagic):
		return FormatSevenZip
	case bytes.HasPrefix(data, gzipMagic):
		return FormatTarGzip
	default:
		return FormatUnknown
	}
}

// entry is one archive member handed to the applier by a format reader.
type entry struct {
	name string
	mode fs.FileMode
	open func() (io.ReadCloser, error)
}

// Applier extracts verified archives into the installation tree.
type Applier struct {
	now func() time.Time
}

// NewApplier creates an applier that stamps extracted files with the current time.
func NewApplier() *Applier {
	return &Applier{now: time.Now}
}

// Apply extracts every entry accepted by mapper into dest and returns the
// number of files written. Written files get their access and modification
// times set to now. Any failing entry aborts the extraction.
func (a *Applier) Apply(ctx context.Context, data []byte, dest string, mapper Mapper) (int, error) {
	format := Detect(data)

	var (
		written int
		visit   = func(e entry) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			ok, err := a.extract(dest, mapper, e)
			if ok {
				written++
			}

			return err
		}
		err error
	)

	switch format {
	case FormatTarGzip:
		err = walkTarGzip(data, visit)
	case FormatSevenZip:
		err = walkSevenZip(data, visit)
	default:
		return 0, errUnknownFormat
	}

	if err != nil {
		return written, fmt.Errorf("extract %s archive into %s: %w", format, dest, err)
	}

	logger.DebugKV(ctx, "Archive applied", "format", format.String(), "destination", dest, "files", written)

	return written, nil
}

// extract writes one entry and reports whether a file was written.
func (a *Applier) extract(dest string, mapper Mapper, e entry) (bool, error) {
	relative, ok := mapper(normalizeName(e.name))
	if !ok || relative == "" {
		return false, nil
	}

	target, err := resolveTarget(dest, relative)
	if err != nil {
		return false, err
	}

	switch {
	case e.mode.IsDir():
		return false, os.MkdirAll(target, dirMode)
	case e.mode.IsRegular():
		return true, a.writeFile(target, e)
	default:
		// Links and devices are never part of a localization archive.
		return false, nil
	}
}

// writeFile copies the entry body to target and resets its timestamps.
func (a *Applier) writeFile(target string, e entry) error {
	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return err
	}

	body, err := e.open()
	if err != nil {
		return fmt.Errorf("open %s: %w", e.name, err)
	}

	defer func() {
		_ = body.Close()
	}()

	perm := e.mode.Perm() | 0o600
	if e.mode.Perm() == 0 {
		perm = defaultFileMode
	}

	file, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}

	if _, err = io.Copy(file, body); err != nil {
		_ = file.Close()

		return fmt.Errorf("write %s: %w", target, err)
	}

	if err = file.Close(); err != nil {
		return err
	}

	now := a.now()

	return os.Chtimes(target, now, now)
}

// resolveTarget joins relative onto dest and refuses paths leaving dest.
func resolveTarget(dest, relative string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(relative))

	rel, err := filepath.Rel(dest, target)
	if err != nil {
		return "", err
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%s: %w", relative, errPathTraversal)
	}

	return target, nil
}
