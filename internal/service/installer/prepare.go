package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/oshokin/llc-launcher/internal/archive"
	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/i18n"
	"github.com/oshokin/llc-launcher/internal/logger"
)

// fetchAndPrepare downloads the content, checks or downloads the font and
// stages the cleanup at the same time. Nothing on disk changes here, so a
// failure leaves the previous installation intact. A failing activity does
// not cancel the others.
func (r *runner) fetchAndPrepare(ctx context.Context) error {
	var group errgroup.Group

	group.Go(func() error {
		return r.fetchContent(ctx)
	})
	group.Go(func() error {
		return r.prepareFont(ctx)
	})
	group.Go(func() error {
		return r.planCleanup(ctx)
	})

	l := r.opts.Localizer
	r.opts.Notifier.Notify(ctx, l.T(i18n.UpdatingTitle), l.T(i18n.UpdatingTo, r.plan.Version.String()))

	return group.Wait()
}

// fetchContent downloads and verifies the content archive.
func (r *runner) fetchContent(ctx context.Context) error {
	artifact := r.plan.Content

	data, endpoint, err := r.opts.Downloader.FetchBytes(ctx, artifact.Sources, artifact.Expected)
	if err != nil {
		return r.downloadError(err, i18n.DownloadContent)
	}

	logger.InfoKV(ctx, "Content downloaded", "archive", artifact.Name, "endpoint", endpoint, "bytes", len(data))
	r.content = data

	return nil
}

// prepareFont downloads the font archive unless a valid font is installed.
func (r *runner) prepareFont(ctx context.Context) error {
	font := r.plan.Font
	if font == nil {
		return nil
	}

	if r.fontInstalled(ctx) {
		logger.InfoKV(ctx, "Font is already installed and valid", "path", font.Path)
		return nil
	}

	data, endpoint, err := r.opts.Downloader.FetchBytes(ctx, font.Archive.Sources, font.Archive.Expected)
	if err != nil {
		return r.downloadError(err, i18n.InstallFont)
	}

	logger.InfoKV(ctx, "Font downloaded", "archive", font.Archive.Name, "endpoint", endpoint, "bytes", len(data))
	r.font = data

	return nil
}

// fontInstalled reports whether the font exists and, when a verifier is
// known, matches it.
func (r *runner) fontInstalled(ctx context.Context) bool {
	font := r.plan.Font
	path := r.fontPath()

	if font.Installed == nil {
		_, err := os.Stat(path)

		return err == nil
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.WarnKV(ctx, "Cannot read installed font", "path", path, "error", err)
		}

		return false
	}

	if err = font.Installed.Verify(contents); err != nil {
		logger.InfoKV(ctx, "Installed font differs from the published one, reinstalling", "error", err)

		return false
	}

	return true
}

// planCleanup lists the entries cleanup will remove. Only files and
// directories are staged; anything else is reported and left alone.
func (r *runner) planCleanup(ctx context.Context) error {
	entries, err := os.ReadDir(r.opts.ContentDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return r.opts.Localizer.Wrap(err, i18n.CleanupInstalled, r.opts.ContentDir)
	}

	removals := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.Name() == r.opts.PreservedDir {
			continue
		}

		path := filepath.Join(r.opts.ContentDir, entry.Name())

		if entry.IsDir() || entry.Type().IsRegular() {
			removals = append(removals, path)
			continue
		}

		logger.WarnKV(ctx, "Suspicious entry left in place", "path", path, "type", entry.Type().String())
	}

	r.removals = removals

	return nil
}

// cleanup deletes the staged entries.
func (r *runner) cleanup(ctx context.Context) error {
	for _, path := range r.removals {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}

	logger.InfoKV(ctx, "Previous content removed", "entries", len(r.removals))

	return nil
}

// verifyFont extracts a freshly downloaded font and confirms it is in place.
func (r *runner) verifyFont(ctx context.Context) error {
	font := r.plan.Font
	if font == nil || r.font == nil {
		return nil
	}

	mapper := archive.StripPrefix(font.Archive.StripPrefix)
	if font.Member != "" {
		mapper = archive.Member(font.Member, font.Path)
	}

	if _, err := r.opts.Applier.Apply(ctx, r.font, r.opts.ContentDir, mapper); err != nil {
		return err
	}

	if _, err := os.Stat(r.fontPath()); err != nil {
		return fmt.Errorf("%s: %w", font.Path, errFontMissing)
	}

	logger.InfoKV(ctx, "Font installed", "path", font.Path)

	return nil
}

// fontPath is the absolute font location.
func (r *runner) fontPath() string {
	return filepath.Join(r.opts.ContentDir, filepath.FromSlash(r.plan.Font.Path))
}

// downloadError localizes a download failure and adds a hint for corrupt payloads.
func (r *runner) downloadError(err error, key i18n.Key) error {
	l := r.opts.Localizer

	if fetch.IsOfType(err, fetch.IntegrityError) {
		err = l.Wrap(err, i18n.IntegrityHint)
	}

	return l.Wrap(err, key)
}
