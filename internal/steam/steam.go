package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/andygrunwald/vdf"
)

// LimbusCompanyAppID is the Steam application id of Limbus Company.
const LimbusCompanyAppID = 1973530

var (
	// ErrRootNotFound is returned when no Steam installation is found.
	ErrRootNotFound = errors.New("steam installation root not found")
	// ErrAppNotFound is returned when no library contains the application.
	ErrAppNotFound = errors.New("steam app not found")
	// errUnexpectedLayout is returned for VDF documents missing expected sections.
	errUnexpectedLayout = errors.New("unexpected vdf layout")
)

// FindGamePath returns the installation directory of appID using the
// libraries listed in the Steam root.
func FindGamePath(root string, appID uint32) (string, error) {
	libraries, err := readVDF(filepath.Join(root, "steamapps", "libraryfolders.vdf"))
	if err != nil {
		return "", err
	}

	library, err := libraryWithApp(libraries, appID)
	if err != nil {
		return "", err
	}

	steamApps := filepath.Join(library, "steamapps")

	manifest, err := readVDF(filepath.Join(steamApps, fmt.Sprintf("appmanifest_%d.acf", appID)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %d", ErrAppNotFound, appID)
		}

		return "", err
	}

	state, ok := manifest["AppState"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: no AppState in manifest", errUnexpectedLayout)
	}

	installDir, ok := state["installdir"].(string)
	if !ok || installDir == "" {
		return "", fmt.Errorf("%w: no installdir in manifest", errUnexpectedLayout)
	}

	gamePath := filepath.Join(steamApps, "common", installDir)
	if _, err = os.Stat(gamePath); err != nil {
		return "", fmt.Errorf("%w: %d: %w", ErrAppNotFound, appID, err)
	}

	return gamePath, nil
}

// libraryWithApp returns the path of the first library listing appID.
func libraryWithApp(document map[string]any, appID uint32) (string, error) {
	folders, ok := document["libraryfolders"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: no libraryfolders section", errUnexpectedLayout)
	}

	key := strconv.FormatUint(uint64(appID), 10)

	// Folders are keyed "0", "1", ... in library order.
	for i := range len(folders) {
		folder, ok := folders[strconv.Itoa(i)].(map[string]any)
		if !ok {
			continue
		}

		apps, _ := folder["apps"].(map[string]any)
		if _, found := apps[key]; !found {
			continue
		}

		if path, ok := folder["path"].(string); ok && path != "" {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %d", ErrAppNotFound, appID)
}

// readVDF parses a text VDF file.
func readVDF(path string) (map[string]any, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	document, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	return document, nil
}
