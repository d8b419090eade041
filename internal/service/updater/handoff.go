package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/oshokin/llc-launcher/internal/archive"
	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/integrity"
	"github.com/oshokin/llc-launcher/internal/logger"
	"github.com/oshokin/llc-launcher/internal/registry"
	"github.com/oshokin/llc-launcher/internal/version"
)

var (
	errSelfPathRequired = errors.New("launcher path must be provided")
	errCacheDirRequired = errors.New("cache directory must be provided")
	errRegistryMissing  = errors.New("registry client is not set")
	errExecutableAbsent = errors.New("launcher package contains no executable")
)

// Releases reports published launcher versions.
type Releases interface {
	Latest(ctx context.Context, pkg string) (*registry.Manifest, error)
	TarballSources(m *registry.Manifest) (fetch.SourceSet, error)
}

// Downloader fetches verified bytes from mirrored sources.
type Downloader interface {
	FetchBytes(ctx context.Context, set fetch.SourceSet, verifier integrity.Verifier) ([]byte, fetch.Endpoint, error)
}

// Starter starts the tool copy and returns without waiting for it.
type Starter func(path string, args, env []string) error

// HandoffOptions are inputs accepted by Handoff.
type HandoffOptions struct {
	// SelfPath is the running launcher binary.
	SelfPath string
	// CacheDir receives the tool copy.
	CacheDir string
	// Package is the npm package carrying launcher releases for this platform.
	Package string
	// Releases reads the launcher package metadata.
	Releases Releases
	// Downloader fetches the launcher tarball.
	Downloader Downloader
	// Args are passed to the tool copy.
	Args []string
	// Start runs the tool copy; defaults to a detached process.
	Start Starter
}

// handoff holds the state of one handoff.
type handoff struct {
	opts     *HandoffOptions
	toolPath string
}

// Handoff prepares the tool copy in the cache directory and starts it. The
// copy is the newest published launcher, or this binary when nothing newer
// is available or the registry cannot be reached. The caller exits after a
// successful handoff.
func Handoff(ctx context.Context, opts *HandoffOptions) (string, error) {
	ctx = logger.WithName(ctx, "self-update")

	h, err := newHandoff(opts)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(h.opts.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache directory: %w", err)
	}

	if err = h.prepareTool(ctx); err != nil {
		return "", err
	}

	env := append(os.Environ(),
		EnvLauncherPath+"="+h.opts.SelfPath,
		EnvLauncherPID+"="+strconv.Itoa(os.Getpid()))

	logger.InfoKV(ctx, "Starting tool copy", "path", h.toolPath)

	if err = h.opts.Start(h.toolPath, h.opts.Args, env); err != nil {
		return "", fmt.Errorf("start %s: %w", h.toolPath, err)
	}

	return h.toolPath, nil
}

// newHandoff validates opts and fills defaults.
func newHandoff(opts *HandoffOptions) (*handoff, error) {
	switch {
	case opts == nil || opts.SelfPath == "":
		return nil, errSelfPathRequired
	case opts.CacheDir == "":
		return nil, errCacheDirRequired
	case opts.Releases == nil || opts.Downloader == nil:
		return nil, errRegistryMissing
	}

	normalized := *opts
	if normalized.Start == nil {
		normalized.Start = startDetached
	}

	return &handoff{
		opts:     &normalized,
		toolPath: filepath.Join(normalized.CacheDir, ExecutableName()),
	}, nil
}

// prepareTool writes the tool copy.
func (h *handoff) prepareTool(ctx context.Context) error {
	manifest, err := h.opts.Releases.Latest(ctx, h.opts.Package)
	if err != nil {
		logger.WarnKV(ctx, "Cannot check launcher releases, keeping the current build", "error", err)

		return h.copySelf(ctx)
	}

	if !version.OlderThan(manifest.Version) {
		logger.InfoKV(ctx, "Launcher is up to date", "current", version.Short(), "latest", manifest.Version)

		return h.copySelf(ctx)
	}

	logger.InfoKV(ctx, "Newer launcher published", "current", version.Short(), "latest", manifest.Version)

	if err = h.downloadTool(ctx, manifest); err != nil {
		logger.WarnKV(ctx, "Cannot download the newer launcher, keeping the current build", "error", err)

		return h.copySelf(ctx)
	}

	return nil
}

// downloadTool extracts the launcher executable of manifest into the cache directory.
func (h *handoff) downloadTool(ctx context.Context, manifest *registry.Manifest) error {
	sources, err := h.opts.Releases.TarballSources(manifest)
	if err != nil {
		return err
	}

	verifier, err := manifest.Verifier()
	if err != nil {
		return err
	}

	tarball, _, err := h.opts.Downloader.FetchBytes(ctx, sources, verifier)
	if err != nil {
		return err
	}

	staging, err := os.MkdirTemp(h.opts.CacheDir, "download-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)

	written, err := archive.NewApplier().Apply(ctx, tarball, staging, archive.Member(ExecutableName(), ExecutableName()))
	if err != nil {
		return err
	}

	if written == 0 {
		return fmt.Errorf("%s@%s: %w", manifest.Name, manifest.Version, errExecutableAbsent)
	}

	data, err := os.ReadFile(filepath.Join(staging, ExecutableName()))
	if err != nil {
		return err
	}

	return replaceExecutable(ctx, h.toolPath, data)
}

// copySelf copies the running binary into the cache directory.
func (h *handoff) copySelf(ctx context.Context) error {
	data, err := os.ReadFile(filepath.Clean(h.opts.SelfPath))
	if err != nil {
		return fmt.Errorf("read launcher executable: %w", err)
	}

	return replaceExecutable(ctx, h.toolPath, data)
}

// startDetached starts path without tying it to the launcher's lifetime.
func startDetached(path string, args, env []string) error {
	cmd := exec.Command(path, args...) //nolint:gosec,noctx // Must outlive the launcher.
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return err
	}

	return cmd.Process.Release()
}
