package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Channel selects where the localization is resolved and downloaded from.
type Channel string

const (
	// ChannelVendor uses the GitHub and vendor APIs with the vendor download mirrors.
	ChannelVendor Channel = "vendor"
	// ChannelRegistry uses the npm registries.
	ChannelRegistry Channel = "registry"
)

// Config holds everything the launcher reads from config.yaml.
type Config struct {
	// LogLevel is the minimal console log level.
	LogLevel string `yaml:"log_level"`
	// Language selects the message catalog, "zh-Hans" or "en".
	Language string `yaml:"language"`
	// Channel selects the release channel.
	Channel Channel `yaml:"channel"`
	// Package is the npm package carrying the localization.
	Package string `yaml:"package"`
	// LauncherPackage is the npm package carrying launcher releases.
	LauncherPackage string `yaml:"launcher_package"`
	// NPMRegistries lists registry base URLs raced against each other.
	NPMRegistries []string `yaml:"npm_registries"`
	// APINodes lists vendor API base URLs.
	APINodes []string `yaml:"api_nodes"`
	// DownloadNodes lists vendor download URL templates containing "{{ file_name }}".
	DownloadNodes []string `yaml:"download_nodes"`
	// GitHub configures the releases API backend.
	GitHub GitHub `yaml:"github"`
	// FontSources lists mirrors of the font archive used by the registry channel.
	FontSources []string `yaml:"font_sources"`
	// RequestTimeout bounds each metadata request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// DownloadTimeout bounds each archive download attempt.
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	// SelfUpdate enables the launcher self-update handoff.
	SelfUpdate bool `yaml:"self_update"`
	// LogFile configures the rolling log file.
	LogFile LogFile `yaml:"log_file"`
}

// GitHub points at a repository whose latest release tag is a version.
type GitHub struct {
	API   string `yaml:"api"`
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`
}

// LogFile holds lumberjack rotation settings.
type LogFile struct {
	// MaxSize is the size in megabytes that triggers rotation.
	MaxSize int `yaml:"max_size"`
	// MaxBackups is the number of rotated files kept.
	MaxBackups int `yaml:"max_backups"`
	// MaxAge is the number of days rotated files are kept.
	MaxAge int `yaml:"max_age"`
}

const (
	// DefaultConfigFilename is the configuration file name inside the config directory.
	DefaultConfigFilename = "config.yaml"

	// DefaultRequestTimeout is the default duration for metadata requests.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultDownloadTimeout is the default duration for one archive download.
	DefaultDownloadTimeout = 10 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// DefaultDirPermissions is used when creating the config directory.
	DefaultDirPermissions = 0o755

	// FileNamePlaceholder is replaced with the archive name in download node templates.
	FileNamePlaceholder = "{{ file_name }}"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownChannel is returned for a channel other than vendor or registry.
	errUnknownChannel = errors.New("unknown channel")
	// errEmptyList is returned when a channel has no endpoints to use.
	errEmptyList = errors.New("list must not be empty")
	// errInvalidURL is returned for endpoints that are not absolute http(s) URLs.
	errInvalidURL = errors.New("invalid URL")
	// errMissingPlaceholder is returned for download templates without a file name placeholder.
	errMissingPlaceholder = errors.New("download node has no " + FileNamePlaceholder + " placeholder")
	// errPackageRequired is returned when the registry channel has no package name.
	errPackageRequired = errors.New("package must be provided")
)

// Default returns the configuration written on first start.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		Language:        "zh-Hans",
		Channel:         ChannelVendor,
		Package:         "@lightsing/llc-zh-cn",
		LauncherPackage: "@lightsing/llc-launcher",
		NPMRegistries: []string{
			"https://registry.npmmirror.com",
			"https://registry.npmjs.org",
		},
		APINodes: []string{
			"https://cdn-api.zeroasso.top/",
			"https://api.zeroasso.top/",
		},
		DownloadNodes: []string{
			"https://cdn-download.zeroasso.top/files/" + FileNamePlaceholder,
			"https://api.zeroasso.top/v2/download/files?file_name=" + FileNamePlaceholder,
			"https://download.zeroasso.top/files/" + FileNamePlaceholder,
		},
		GitHub: GitHub{
			API:   "https://api.github.com/",
			Owner: "LocalizeLimbusCompany",
			Repo:  "LocalizeLimbusCompany",
		},
		FontSources: []string{
			"https://mirror.nju.edu.cn/github-release/be5invis/Sarasa-Gothic/Sarasa%20Gothic%2C%20Version%201.0.35/SarasaGothicSC-TTF-1.0.35.7z",
			"https://mirrors.tuna.tsinghua.edu.cn/github-release/be5invis/Sarasa%20Gothic%2C%20Version%201.0.35/SarasaGothicSC-TTF-1.0.35.7z",
			"https://github.com/be5invis/Sarasa-Gothic/releases/download/v1.0.35/SarasaGothicSC-TTF-1.0.35.7z",
		},
		RequestTimeout:  DefaultRequestTimeout,
		DownloadTimeout: DefaultDownloadTimeout,
		SelfUpdate:      true,
		LogFile: LogFile{
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrCreate loads config.yaml from dir. When the file does not exist the
// defaults, merged with any legacy TOML files found in dir, are written first.
func LoadOrCreate(dir string) (*Config, error) {
	path := filepath.Join(dir, DefaultConfigFilename)

	_, err := os.Stat(path)
	if err == nil {
		return Load(path)
	}

	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	cfg := Default()
	if err = importLegacy(dir, cfg); err != nil {
		return nil, err
	}

	if err = Save(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the channel and its endpoints and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if _, err := zap.ParseAtomicLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = DefaultDownloadTimeout
	}

	if cfg.Channel == "" {
		cfg.Channel = ChannelVendor
	}

	if err := validateURLs("npm_registries", cfg.NPMRegistries); err != nil {
		return err
	}

	switch cfg.Channel {
	case ChannelVendor:
		return validateVendor(cfg)
	case ChannelRegistry:
		if cfg.Package == "" {
			return errPackageRequired
		}

		return validateURLs("font_sources", cfg.FontSources)
	default:
		return fmt.Errorf("%w: %q", errUnknownChannel, cfg.Channel)
	}
}

// validateVendor checks the endpoints used by the vendor channel.
func validateVendor(cfg *Config) error {
	if err := validateURLs("api_nodes", cfg.APINodes); err != nil {
		return err
	}

	templates := make([]string, 0, len(cfg.DownloadNodes))

	for _, node := range cfg.DownloadNodes {
		if !strings.Contains(node, FileNamePlaceholder) {
			return fmt.Errorf("%w: %s", errMissingPlaceholder, node)
		}

		templates = append(templates, strings.ReplaceAll(node, FileNamePlaceholder, "file"))
	}

	if err := validateURLs("download_nodes", templates); err != nil {
		return err
	}

	return validateURLs("github.api", []string{cfg.GitHub.API})
}

// validateURLs requires a non-empty list of absolute http(s) URLs.
func validateURLs(field string, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%s: %w", field, errEmptyList)
	}

	for _, value := range values {
		u, err := url.ParseRequestURI(value)
		if err != nil {
			return fmt.Errorf("%s: %w: %w", field, errInvalidURL, err)
		}

		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s: %w: %s", field, errInvalidURL, value)
		}
	}

	return nil
}
