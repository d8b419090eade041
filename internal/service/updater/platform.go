package updater

import (
	"crypto"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	// EnvLauncherPath carries the launcher location to the tool copy.
	EnvLauncherPath = "LLC_LAUNCHER_PATH"
	// EnvLauncherPID carries the launcher process id to the tool copy.
	EnvLauncherPID = "LLC_LAUNCHER_PID"

	// DefaultFileMode is applied to replaced executables.
	DefaultFileMode os.FileMode = 0o755

	// DefaultChecksumFunction verifies replaced executables.
	DefaultChecksumFunction crypto.Hash = crypto.SHA256

	// DefaultHandoffDelay is waited before the launcher binary is replaced.
	DefaultHandoffDelay = time.Second

	// DefaultParentWait bounds the wait for the launcher process to exit.
	DefaultParentWait = 30 * time.Second

	// baseExecutable is the launcher binary name; platform helpers append the extension.
	baseExecutable = "llc-launcher"

	// parentPollInterval is the delay between process table scans.
	parentPollInterval = 200 * time.Millisecond
)

// ExecutableName returns the launcher binary name for this platform.
func ExecutableName() string {
	return baseExecutable + getExecutableExtension()
}

// PlatformPackage returns the npm package carrying the launcher for this
// platform, named the way npm names platforms.
func PlatformPackage(base string) string {
	platform := runtime.GOOS
	if platform == "windows" {
		platform = "win32"
	}

	return base + "-" + platform
}

// IsTool reports whether selfPath is the copy that lives in cacheDir.
func IsTool(selfPath, cacheDir string) bool {
	rel, err := filepath.Rel(canonical(cacheDir), canonical(selfPath))
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != "."
}

// getExecutableExtension returns ".exe" on Windows and "" elsewhere.
func getExecutableExtension() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return ".exe"
	}

	return ""
}

// canonical resolves symlinks when possible.
func canonical(path string) string {
	path = filepath.Clean(path)

	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}

	return path
}
