package updater

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/llc-launcher/internal/integrity"
	"github.com/oshokin/llc-launcher/internal/logger"
)

// replaceExecutable atomically swaps target for data, checking the written
// bytes against their SHA-256. go-update removes the previous binary itself.
func replaceExecutable(ctx context.Context, target string, data []byte) error {
	logger.InfoKV(ctx, "Replacing executable", "path", target, "bytes", len(data))

	// go-update renames the current target away first, so it has to exist.
	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		placeholder, createErr := os.Create(target) //nolint:gosec // Path is built by the launcher.
		if createErr != nil {
			return fmt.Errorf("create %s: %w", target, createErr)
		}

		if createErr = placeholder.Close(); createErr != nil {
			return createErr
		}
	}

	checksum := integrity.Sum(data)

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: DefaultFileMode,
		Checksum:   checksum[:],
		Hash:       DefaultChecksumFunction,
	}

	if err := goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}

	return nil
}
