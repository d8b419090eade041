//go:build windows

package steam

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// steamExecutable is started with the game URL.
const steamExecutable = "steam.exe"

// Root reads the Steam installation directory from the current user's registry.
func Root() (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Software\Valve\Steam`, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRootNotFound, err)
	}
	defer key.Close()

	path, _, err := key.GetStringValue("SteamPath")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRootNotFound, err)
	}

	return path, nil
}
