package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// LegacyLauncherFilename is the TOML launcher settings file of older releases.
	LegacyLauncherFilename = "config.toml"
	// LegacyLLCFilename is the TOML endpoint settings file of older releases.
	LegacyLLCFilename = "llc_config.toml"
)

// legacyLauncher mirrors config.toml.
type legacyLauncher struct {
	LogLevel string `toml:"log_level"`
}

// legacyNode is one named endpoint of the oldest llc_config.toml layout.
type legacyNode struct {
	Name     string `toml:"name"`
	Endpoint string `toml:"endpoint"`
}

// legacyLLC mirrors llc_config.toml, including the node tables of the oldest releases.
type legacyLLC struct {
	NPMRegistries []string     `toml:"npm-registries"`
	DownloadNodes []legacyNode `toml:"download-node"`
	APINodes      []legacyNode `toml:"api-node"`
	GitHub        *struct {
		Repo  string `toml:"repo"`
		Owner string `toml:"owner"`
		API   string `toml:"api"`
	} `toml:"github"`
}

// importLegacy copies values found in legacy TOML files of dir into cfg.
// Missing files are ignored.
func importLegacy(dir string, cfg *Config) error {
	var launcher legacyLauncher

	found, err := decodeLegacy(filepath.Join(dir, LegacyLauncherFilename), &launcher)
	if err != nil {
		return err
	}

	if found && launcher.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(launcher.LogLevel)
	}

	var llc legacyLLC

	found, err = decodeLegacy(filepath.Join(dir, LegacyLLCFilename), &llc)
	if err != nil || !found {
		return err
	}

	if len(llc.NPMRegistries) > 0 {
		cfg.NPMRegistries = llc.NPMRegistries
	}

	if nodes := endpoints(llc.DownloadNodes); len(nodes) > 0 {
		cfg.DownloadNodes = nodes
	}

	if nodes := endpoints(llc.APINodes); len(nodes) > 0 {
		cfg.APINodes = nodes
	}

	if llc.GitHub != nil {
		if llc.GitHub.API != "" {
			cfg.GitHub.API = llc.GitHub.API
		}

		if llc.GitHub.Owner != "" {
			cfg.GitHub.Owner = llc.GitHub.Owner
		}

		if llc.GitHub.Repo != "" {
			cfg.GitHub.Repo = llc.GitHub.Repo
		}
	}

	return nil
}

// decodeLegacy decodes path into v and reports whether the file exists.
func decodeLegacy(path string, v any) (bool, error) {
	_, err := toml.DecodeFile(path, v)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("import legacy settings %s: %w", filepath.Base(path), err)
}

// endpoints drops node names.
func endpoints(nodes []legacyNode) []string {
	result := make([]string, 0, len(nodes))

	for _, node := range nodes {
		if node.Endpoint != "" {
			result = append(result, node.Endpoint)
		}
	}

	return result
}
