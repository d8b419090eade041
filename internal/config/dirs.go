package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories of the launcher.
const AppName = "llc-launcher"

// Dirs are the per-user directories used by the launcher.
type Dirs struct {
	// Config holds config.yaml.
	Config string
	// Cache holds the self-update copy of the launcher.
	Cache string
	// Data holds logs.
	Data string
}

// ResolveDirs returns the launcher directories below the user's OS
// directories. configOverride replaces Config when not empty.
func ResolveDirs(configOverride string) (*Dirs, error) {
	configRoot, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}

	cacheRoot, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolve cache directory: %w", err)
	}

	dirs := &Dirs{
		Config: filepath.Join(configRoot, AppName),
		Cache:  filepath.Join(cacheRoot, AppName),
		Data:   filepath.Join(dataRoot(configRoot), AppName),
	}

	if configOverride != "" {
		dirs.Config = configOverride
	}

	return dirs, nil
}

// Logs is the directory of the rolling log file.
func (d *Dirs) Logs() string {
	return filepath.Join(d.Data, "logs")
}

// dataRoot follows XDG on Linux and falls back to the config root elsewhere,
// which is where Windows and macOS keep application data too.
func dataRoot(configRoot string) string {
	if dir := os.Getenv("XDG_DATA_HOME"); filepath.IsAbs(dir) {
		return dir
	}

	if runtime.GOOS == "linux" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "share")
		}
	}

	return configRoot
}
