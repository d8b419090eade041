package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/llc-launcher/internal/archive"
	"github.com/oshokin/llc-launcher/internal/domain/release"
	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/i18n"
	"github.com/oshokin/llc-launcher/internal/integrity"
	"github.com/oshokin/llc-launcher/internal/logger"
	"github.com/oshokin/llc-launcher/internal/repository/marker"
	"github.com/oshokin/llc-launcher/internal/service/common"
)

// DefaultPreservedDir is the content subdirectory that cleanup never touches.
const DefaultPreservedDir = "Font"

var (
	errContentDirRequired = errors.New("content directory must be provided")
	errDependencyMissing  = errors.New("installer dependency is not set")
	errNothingExtracted   = errors.New("archive contains no content files")
	errFontMissing        = errors.New("font is missing after extraction")
)

// Resolver reports the latest release.
type Resolver interface {
	Resolve(ctx context.Context) (*release.Descriptor, error)
}

// Locator turns a descriptor into downloadable artifacts.
type Locator interface {
	Locate(ctx context.Context, descriptor *release.Descriptor) (*release.Plan, error)
}

// Downloader fetches verified bytes from mirrored sources.
type Downloader interface {
	FetchBytes(ctx context.Context, set fetch.SourceSet, verifier integrity.Verifier) ([]byte, fetch.Endpoint, error)
}

// Applier extracts an archive into a directory.
type Applier interface {
	Apply(ctx context.Context, data []byte, dest string, mapper archive.Mapper) (int, error)
}

// Options are inputs accepted by the installer entry point.
type Options struct {
	// ContentDir is the installed localization directory.
	ContentDir string
	// PreservedDir is the subdirectory of ContentDir kept by cleanup.
	PreservedDir string
	// Resolver determines the latest release.
	Resolver Resolver
	// Locator finds the archives of a release.
	Locator Locator
	// Downloader fetches archives.
	Downloader Downloader
	// Applier extracts archives.
	Applier Applier
	// Markers persists the installed version.
	Markers marker.Repository
	// Notifier receives user-facing status messages; defaults to the log.
	Notifier common.Notifier
	// Localizer renders user-facing messages; defaults to Chinese.
	Localizer *i18n.Localizer
	// Observer, when set, is called on every state transition.
	Observer func(State)
}

// Result summarizes a run.
type Result struct {
	// State is the terminal state reached.
	State State
	// Installed is the version found before the run.
	Installed release.Version
	// Latest is the version reported by the resolver.
	Latest release.Version
	// Family is the backend that reported Latest.
	Family release.Family
}

// runner holds the mutable state of one installation run.
type runner struct {
	opts   *Options
	result *Result

	plan     *release.Plan // Archives of the release being installed.
	content  []byte        // Verified content archive.
	font     []byte        // Verified font archive, nil when the installed font is kept.
	removals []string      // Entries of ContentDir deleted by cleanup.
}

// Run brings the content directory to the latest release. It never rolls back:
// when a step fails the marker is left untouched so the next run retries.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "installer")

	r, err := newRunner(opts)
	if err != nil {
		return &Result{State: StateFailed}, err
	}

	if err = r.run(ctx); err != nil {
		r.enter(ctx, StateFailed)
		logger.ErrorKV(ctx, "Installation failed", "error", err)

		return r.result, r.opts.Localizer.Wrap(err, i18n.InstallFailed)
	}

	return r.result, nil
}

// newRunner validates opts and fills defaults.
func newRunner(opts *Options) (*runner, error) {
	if opts == nil || opts.ContentDir == "" {
		return nil, errContentDirRequired
	}

	switch {
	case opts.Resolver == nil:
		return nil, fmt.Errorf("%w: resolver", errDependencyMissing)
	case opts.Locator == nil:
		return nil, fmt.Errorf("%w: locator", errDependencyMissing)
	case opts.Downloader == nil:
		return nil, fmt.Errorf("%w: downloader", errDependencyMissing)
	case opts.Applier == nil:
		return nil, fmt.Errorf("%w: applier", errDependencyMissing)
	case opts.Markers == nil:
		return nil, fmt.Errorf("%w: markers", errDependencyMissing)
	}

	normalized := *opts
	if normalized.PreservedDir == "" {
		normalized.PreservedDir = DefaultPreservedDir
	}

	if normalized.Notifier == nil {
		normalized.Notifier = common.LogNotifier{}
	}

	if normalized.Localizer == nil {
		normalized.Localizer = i18n.New("")
	}

	return &runner{
		opts:   &normalized,
		result: &Result{State: StateStart},
	}, nil
}

// run walks the state machine until a terminal state.
func (r *runner) run(ctx context.Context) error {
	l := r.opts.Localizer

	r.enter(ctx, StateStart)

	langDir := filepath.Dir(r.opts.ContentDir)
	if err := os.MkdirAll(langDir, 0o755); err != nil {
		return l.Wrap(err, i18n.CreateLangDir, langDir)
	}

	r.enter(ctx, StateReadInstalled)
	r.readInstalled(ctx)

	r.enter(ctx, StateResolveLatest)

	latest, err := r.opts.Resolver.Resolve(ctx)
	if err != nil {
		return l.Wrap(err, i18n.ResolveLatest)
	}

	r.result.Latest = latest.Version
	r.result.Family = latest.Family

	if r.result.Installed.AtLeast(latest.Version) {
		logger.InfoKV(ctx, "Localization is up to date",
			"installed", r.result.Installed,
			"latest", latest.Version,
			"family", latest.Family)
		r.enter(ctx, StateUpToDate)

		return nil
	}

	r.enter(ctx, StateStaleDetected)
	logger.InfoKV(ctx, "Localization update required",
		"installed", r.result.Installed,
		"latest", latest.Version,
		"family", latest.Family)

	r.enter(ctx, StateFetchAndPrepare)

	if r.plan, err = r.opts.Locator.Locate(ctx, latest); err != nil {
		return l.Wrap(err, i18n.LocateContent)
	}

	if err = r.fetchAndPrepare(ctx); err != nil {
		return err
	}

	r.enter(ctx, StateCleanup)

	if err = r.cleanup(ctx); err != nil {
		return l.Wrap(err, i18n.CleanupInstalled, r.opts.ContentDir)
	}

	r.enter(ctx, StateApplyContent)

	if err = r.applyContent(ctx); err != nil {
		return l.Wrap(err, i18n.ApplyContent, r.opts.ContentDir)
	}

	r.enter(ctx, StateVerifyAuxiliaryAssets)

	if err = r.verifyFont(ctx); err != nil {
		return l.Wrap(err, i18n.InstallFont)
	}

	r.enter(ctx, StateWriteInstalledMarker)

	if err = r.opts.Markers.Save(ctx, r.plan.Version); err != nil {
		return l.Wrap(err, i18n.WriteMarker, r.opts.ContentDir)
	}

	r.enter(ctx, StateDone)
	logger.InfoKV(ctx, "Localization installed", "version", r.plan.Version)

	return nil
}

// enter records a transition.
func (r *runner) enter(ctx context.Context, state State) {
	r.result.State = state
	logger.DebugKV(ctx, "Installer state changed", "state", state.String())

	if r.opts.Observer != nil {
		r.opts.Observer(state)
	}
}

// readInstalled loads the marker; every failure means "not installed".
func (r *runner) readInstalled(ctx context.Context) {
	installed, err := r.opts.Markers.Load(ctx)

	switch {
	case err == nil:
		r.result.Installed = installed
		logger.InfoKV(ctx, "Installed version detected", "version", installed)
	case errors.Is(err, marker.ErrNotFound):
		logger.Info(ctx, "No installed version found, installing from scratch")
	default:
		logger.WarnKV(ctx, "Install marker is unreadable, treating as not installed", "error", err)
	}
}

// applyContent extracts the content archive into the content directory.
func (r *runner) applyContent(ctx context.Context) error {
	written, err := r.opts.Applier.Apply(ctx, r.content, r.opts.ContentDir, archive.StripPrefix(r.plan.Content.StripPrefix))
	if err != nil {
		return err
	}

	if written == 0 {
		return fmt.Errorf("%s: %w", r.plan.Content.Name, errNothingExtracted)
	}

	logger.InfoKV(ctx, "Content extracted", "archive", r.plan.Content.Name, "files", written)

	return nil
}
