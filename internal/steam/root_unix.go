//go:build !windows

package steam

import (
	"fmt"
	"os"
	"path/filepath"
)

// steamExecutable is started with the game URL.
const steamExecutable = "steam.sh"

//nolint:gochecknoglobals // Known install locations relative to HOME.
var rootCandidates = []string{
	".steam/steam",
	".local/share/Steam",
	".var/app/com.valvesoftware.Steam/.steam/steam",
}

// Root returns the first Steam installation found in the home directory.
func Root() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRootNotFound, err)
	}

	return rootIn(home)
}

// rootIn probes the candidates below home.
func rootIn(home string) (string, error) {
	for _, candidate := range rootCandidates {
		path := filepath.Join(home, filepath.FromSlash(candidate))
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrRootNotFound
}
