package launcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oshokin/llc-launcher/internal/archive"
	"github.com/oshokin/llc-launcher/internal/config"
	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/i18n"
	"github.com/oshokin/llc-launcher/internal/logger"
	"github.com/oshokin/llc-launcher/internal/repository/marker"
	"github.com/oshokin/llc-launcher/internal/service/common"
	"github.com/oshokin/llc-launcher/internal/service/installer"
	"github.com/oshokin/llc-launcher/internal/service/updater"
)

// ContentRelative is the localization directory inside the game directory.
const ContentRelative = "LimbusCompany_Data/Lang/LLC_zh-CN"

var (
	errConfigRequired = errors.New("configuration must be provided")
	errGameRequired   = errors.New("game must be provided")
)

// Options are inputs accepted by the launcher entry point.
type Options struct {
	// Config selects the channel and its endpoints.
	Config *config.Config
	// Game locates and starts the game.
	Game Game
	// Notifier receives user-facing messages; defaults to an asynchronous log notifier.
	Notifier common.Notifier
	// Localizer renders user-facing messages; defaults to Config.Language.
	Localizer *i18n.Localizer
	// SkipLaunch only installs or updates the localization.
	SkipLaunch bool
	// CopyBack, when set, replaces the launcher binary after the game started.
	CopyBack *updater.CompleteOptions
}

// runner holds the state of one launcher run.
type runner struct {
	opts    *Options
	fetcher *fetch.Client
	closers []func()
}

// ContentDir returns the localization directory of a game installation.
func ContentDir(gameDir string) string {
	return filepath.Join(gameDir, filepath.FromSlash(ContentRelative))
}

// Run installs or updates the localization and starts the game. A failed
// update is reported and the game starts with whatever is installed; only a
// missing game or a failing launch are fatal. With SkipLaunch the installer
// error is returned instead.
func Run(ctx context.Context, opts *Options) (*installer.Result, error) {
	ctx = logger.WithKV(logger.WithName(ctx, "launcher"), "run_id", uuid.NewString())

	r, err := newRunner(opts)
	if err != nil {
		return nil, err
	}
	defer r.close()

	l := r.opts.Localizer

	gameDir, err := r.opts.Game.Locate(ctx)
	if err != nil {
		return nil, l.Wrap(err, i18n.GameNotFound)
	}

	logger.InfoKV(ctx, "Game found", "path", gameDir)

	result, installErr := r.install(ctx, ContentDir(gameDir))
	if installErr != nil {
		if r.opts.SkipLaunch {
			return result, installErr
		}

		logger.WarnKV(ctx, "Starting the game without updating the localization", "error", installErr)
		r.opts.Notifier.Notify(ctx, l.T(i18n.LauncherErrorName), l.T(i18n.UpdateFailedWarn, installErr.Error()))
	}

	if r.opts.SkipLaunch {
		return result, nil
	}

	if err = r.opts.Game.Launch(ctx); err != nil {
		return result, l.Wrap(err, i18n.LaunchGame)
	}

	logger.Info(ctx, "Game started")

	if r.opts.CopyBack != nil {
		if err = updater.Complete(ctx, r.opts.CopyBack); err != nil {
			return result, l.Wrap(err, i18n.SelfUpdate)
		}
	}

	return result, nil
}

// newRunner validates opts and fills defaults.
func newRunner(opts *Options) (*runner, error) {
	switch {
	case opts == nil || opts.Config == nil:
		return nil, errConfigRequired
	case opts.Game == nil:
		return nil, errGameRequired
	}

	r := &runner{}
	normalized := *opts

	if normalized.Localizer == nil {
		normalized.Localizer = i18n.New(normalized.Config.Language)
	}

	if normalized.Notifier == nil {
		async := common.NewAsyncNotifier(common.LogNotifier{}, 0)
		normalized.Notifier = async
		r.closers = append(r.closers, async.Close)
	}

	r.opts = &normalized
	r.fetcher = fetch.NewClient(
		fetch.WithUserAgent(common.UserAgent()),
		fetch.WithAttemptTimeout(normalized.Config.RequestTimeout),
	)

	return r, nil
}

// install runs the installer over contentDir with the configured channel.
func (r *runner) install(ctx context.Context, contentDir string) (*installer.Result, error) {
	ch, err := newChannel(r.opts.Config, r.fetcher)
	if err != nil {
		return nil, fmt.Errorf("configure %s channel: %w", r.opts.Config.Channel, err)
	}

	return installer.Run(ctx, &installer.Options{
		ContentDir: contentDir,
		Resolver:   ch.resolver,
		Locator:    ch.locator,
		Downloader: r.fetcher.With(fetch.WithAttemptTimeout(r.opts.Config.DownloadTimeout)),
		Applier:    archive.NewApplier(),
		Markers:    marker.NewFileRepository(marker.PathIn(contentDir)),
		Notifier:   r.opts.Notifier,
		Localizer:  r.opts.Localizer,
	})
}

// close releases resources created by newRunner.
func (r *runner) close() {
	for _, closer := range r.closers {
		closer()
	}
}
