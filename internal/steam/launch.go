package steam

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/oshokin/llc-launcher/internal/logger"
)

// ErrUnsupportedOS indicates the game cannot be started on this platform.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// GameURL is the steam:// URL that starts appID.
func GameURL(appID uint32) string {
	return fmt.Sprintf("steam://rungameid/%d", appID)
}

// Launch asks the Steam client in root to start appID. The command is
// started asynchronously; Steam takes over the rest.
func Launch(ctx context.Context, root string, appID uint32) error {
	url := GameURL(appID)
	osName := strings.ToLower(runtime.GOOS)

	var cmd *exec.Cmd

	switch {
	case strings.Contains(osName, "linux"):
		script, err := client(root)
		if err != nil {
			return err
		}

		cmd = exec.Command("sh", script, url) //nolint:gosec,noctx // Must outlive the launcher.
	case strings.Contains(osName, "windows"):
		executable, err := client(root)
		if err != nil {
			return err
		}

		cmd = exec.Command(executable, url) //nolint:gosec,noctx // Must outlive the launcher.
	case strings.Contains(osName, "darwin"):
		cmd = exec.Command("open", url) //nolint:noctx // Must outlive the launcher.
	default:
		return fmt.Errorf("%s: %w", runtime.GOOS, ErrUnsupportedOS)
	}

	logger.InfoKV(ctx, "Starting game through Steam", "url", url)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start steam: %w", err)
	}

	return cmd.Process.Release()
}

// client returns the Steam client executable inside root.
func client(root string) (string, error) {
	path := filepath.Join(root, steamExecutable)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("steam client: %w", err)
	}

	return path, nil
}
