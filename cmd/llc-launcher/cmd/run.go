package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/llc-launcher/internal/config"
	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/i18n"
	"github.com/oshokin/llc-launcher/internal/logger"
	"github.com/oshokin/llc-launcher/internal/registry"
	"github.com/oshokin/llc-launcher/internal/service/common"
	"github.com/oshokin/llc-launcher/internal/service/launcher"
	"github.com/oshokin/llc-launcher/internal/service/updater"
	"github.com/oshokin/llc-launcher/internal/steam"
)

// logFilename is the active rolling log file.
const logFilename = "llc-launcher.log"

var errInvalidLogLevel = errors.New("invalid log level")

// run wires configuration, logging and the self-update handoff around the launcher service.
func run(ctx context.Context, updateOnly bool) error {
	dirs, err := config.ResolveDirs(configDir)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrCreate(dirs.Config)
	if err != nil {
		return i18n.New("").Wrap(err, i18n.LoadConfig, dirs.Config)
	}

	closeLog, err := setupLogging(ctx, dirs, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	l := i18n.New(cfg.Language)

	selfPath, err := executablePath()
	if err != nil {
		return l.Wrap(err, i18n.StartupFailed)
	}

	isTool := updater.IsTool(selfPath, dirs.Cache)
	logger.InfoKV(ctx, "Launcher started", "path", selfPath, "tool", isTool, "config", dirs.Config)

	if !isTool && !updateOnly && cfg.SelfUpdate && !skipSelfUpdate {
		if handoff(ctx, cfg, dirs, selfPath) {
			return nil
		}
	}

	var copyBack *updater.CompleteOptions

	if isTool {
		if copyBack, err = updater.CompleteOptionsFromEnv(selfPath); err != nil {
			return l.Wrap(err, i18n.DirectToolLaunch)
		}
	}

	_, err = launcher.Run(ctx, &launcher.Options{
		Config:     cfg,
		Game:       launcher.SteamGame{AppID: steam.LimbusCompanyAppID},
		Localizer:  l,
		SkipLaunch: updateOnly,
		CopyBack:   copyBack,
	})
	if err != nil {
		logger.ErrorKV(ctx, "Launcher failed", "error", err, "logs", dirs.Logs())

		return err
	}

	return nil
}

// setupLogging applies the log level and adds the rolling log file. A log
// file that cannot be opened only costs the file output.
func setupLogging(ctx context.Context, dirs *config.Dirs, cfg *config.Config) (func(), error) {
	levelName := cfg.LogLevel
	if logLevel != "" {
		levelName = logLevel
	}

	level, ok := logger.ParseLogLevel(levelName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errInvalidLogLevel, levelName)
	}

	logger.SetLevel(level)

	fileLogger, closeFile, err := logger.NewWithFile(logger.DefaultLevel(), logger.FileOptions{
		Directory:  dirs.Logs(),
		Filename:   logFilename,
		MaxSize:    cfg.LogFile.MaxSize,
		MaxBackups: cfg.LogFile.MaxBackups,
		MaxAge:     cfg.LogFile.MaxAge,
	})
	if err != nil {
		logger.WarnKV(ctx, "Cannot open the log file, logging to the console only", "error", err)

		return func() {}, nil
	}

	logger.SetLogger(fileLogger)

	return func() {
		_ = fileLogger.Sync()
		_ = closeFile()
	}, nil
}

// handoff starts the tool copy and reports whether it took over.
func handoff(ctx context.Context, cfg *config.Config, dirs *config.Dirs, selfPath string) bool {
	registries, err := fetch.ParseSourceSet(cfg.NPMRegistries...)
	if err != nil {
		logger.WarnKV(ctx, "Self-update is misconfigured, continuing without it", "error", err)

		return false
	}

	fetcher := fetch.NewClient(
		fetch.WithUserAgent(common.UserAgent()),
		fetch.WithAttemptTimeout(cfg.RequestTimeout),
	)

	_, err = updater.Handoff(ctx, &updater.HandoffOptions{
		SelfPath:   selfPath,
		CacheDir:   dirs.Cache,
		Package:    updater.PlatformPackage(cfg.LauncherPackage),
		Releases:   registry.NewClient(fetcher, registries),
		Downloader: fetcher.With(fetch.WithAttemptTimeout(cfg.DownloadTimeout)),
		Args:       os.Args[1:],
	})
	if err != nil {
		logger.WarnKV(ctx, "Self-update handoff failed, continuing with the current build", "error", err)

		return false
	}

	return true
}

// executablePath returns the running binary with symlinks resolved.
func executablePath() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(path)
}
