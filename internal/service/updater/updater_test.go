package updater

import (
	"archive/tar"
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/registry"
)

// stubReleases serves a fixed manifest.
type stubReleases struct {
	manifest *registry.Manifest
	sources  fetch.SourceSet
	err      error
}

func (s stubReleases) Latest(context.Context, string) (*registry.Manifest, error) {
	return s.manifest, s.err
}

func (s stubReleases) TarballSources(*registry.Manifest) (fetch.SourceSet, error) {
	return s.sources, nil
}

// startRecorder captures the tool start.
type startRecorder struct {
	path string
	args []string
	env  []string
}

func (r *startRecorder) start(path string, args, env []string) error {
	r.path, r.args, r.env = path, args, env

	return nil
}

// fakeProcess is a running process as reported by go-ps.
type fakeProcess struct{ pid int }

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return ExecutableName() }

var _ ps.Process = fakeProcess{}

func writeExecutable(t *testing.T, dir, contents string) string {
	t.Helper()

	path := filepath.Join(dir, ExecutableName())
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o755))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

// launcherTarball packs the executable the way the launcher package ships it.
func launcherTarball(t *testing.T, contents string) ([]byte, string) {
	t.Helper()

	var buf bytes.Buffer

	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "package/" + ExecutableName(),
		Typeflag: tar.TypeReg,
		Mode:     0o755,
		Size:     int64(len(contents)),
	}))

	_, err := tw.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	sum := sha512.Sum512(buf.Bytes())

	return buf.Bytes(), "sha512-" + base64.StdEncoding.EncodeToString(sum[:])
}

// TestPlatformHelpers checks naming and tool detection.
func TestPlatformHelpers(t *testing.T) {
	t.Parallel()

	require.True(t, strings.HasPrefix(ExecutableName(), "llc-launcher"))
	require.True(t, strings.HasPrefix(PlatformPackage("@lightsing/llc-launcher"), "@lightsing/llc-launcher-"))

	cache := t.TempDir()
	require.True(t, IsTool(filepath.Join(cache, ExecutableName()), cache))
	require.False(t, IsTool(filepath.Join(t.TempDir(), ExecutableName()), cache))
	require.False(t, IsTool(cache, cache))
}

// TestHandoff_CopiesSelfWhenUpToDate verifies the running build becomes the tool copy.
func TestHandoff_CopiesSelfWhenUpToDate(t *testing.T) {
	t.Parallel()

	self := writeExecutable(t, t.TempDir(), "current build")
	cache := filepath.Join(t.TempDir(), "cache")
	recorder := new(startRecorder)

	toolPath, err := Handoff(context.Background(), &HandoffOptions{
		SelfPath:   self,
		CacheDir:   cache,
		Releases:   stubReleases{manifest: &registry.Manifest{Name: "launcher", Version: "0.0.1"}},
		Downloader: fetch.NewClient(),
		Args:       []string{"--log-level", "debug"},
		Start:      recorder.start,
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cache, ExecutableName()), toolPath)
	require.Equal(t, "current build", readFile(t, toolPath))

	require.Equal(t, toolPath, recorder.path)
	require.Equal(t, []string{"--log-level", "debug"}, recorder.args)
	require.Contains(t, recorder.env, EnvLauncherPath+"="+self)
}

// TestHandoff_DownloadsNewerRelease verifies a newer published build replaces the tool copy.
func TestHandoff_DownloadsNewerRelease(t *testing.T) {
	t.Parallel()

	tarball, sri := launcherTarball(t, "next build")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(tarball)
	}))
	t.Cleanup(srv.Close)

	sources, err := fetch.ParseSourceSet(srv.URL + "/launcher.tgz")
	require.NoError(t, err)

	self := writeExecutable(t, t.TempDir(), "current build")
	cache := t.TempDir()
	writeExecutable(t, cache, "stale tool")

	toolPath, err := Handoff(context.Background(), &HandoffOptions{
		SelfPath: self,
		CacheDir: cache,
		Releases: stubReleases{
			manifest: &registry.Manifest{
				Name:    "launcher",
				Version: "999.0.0",
				Dist:    registry.Dist{Integrity: sri, Tarball: srv.URL + "/launcher.tgz"},
			},
			sources: sources,
		},
		Downloader: fetch.NewClient(),
		Start:      new(startRecorder).start,
	})
	require.NoError(t, err)
	require.Equal(t, "next build", readFile(t, toolPath))

	entries, err := os.ReadDir(cache)
	require.NoError(t, err)

	for _, entry := range entries {
		require.False(t, strings.HasPrefix(entry.Name(), "download-"), "staging directory left behind")
	}
}

// TestHandoff_RegistryUnavailable ensures the launcher still hands off when releases cannot be read.
func TestHandoff_RegistryUnavailable(t *testing.T) {
	t.Parallel()

	self := writeExecutable(t, t.TempDir(), "current build")
	recorder := new(startRecorder)

	toolPath, err := Handoff(context.Background(), &HandoffOptions{
		SelfPath:   self,
		CacheDir:   t.TempDir(),
		Releases:   stubReleases{err: errors.New("offline")},
		Downloader: fetch.NewClient(),
		Start:      recorder.start,
	})
	require.NoError(t, err)
	require.Equal(t, "current build", readFile(t, toolPath))
	require.Equal(t, toolPath, recorder.path)
}

// TestHandoff_Validation rejects incomplete options.
func TestHandoff_Validation(t *testing.T) {
	t.Parallel()

	_, err := Handoff(context.Background(), nil)
	require.ErrorIs(t, err, errSelfPathRequired)

	_, err = Handoff(context.Background(), &HandoffOptions{SelfPath: "x"})
	require.ErrorIs(t, err, errCacheDirRequired)

	_, err = Handoff(context.Background(), &HandoffOptions{SelfPath: "x", CacheDir: "y"})
	require.ErrorIs(t, err, errRegistryMissing)
}

// TestComplete_WaitsForLauncherExit verifies the launcher is replaced only after it exits.
func TestComplete_WaitsForLauncherExit(t *testing.T) {
	t.Parallel()

	launcher := writeExecutable(t, t.TempDir(), "old launcher")
	tool := writeExecutable(t, t.TempDir(), "new launcher")

	var lookups atomic.Int32

	err := Complete(context.Background(), &CompleteOptions{
		SelfPath:     tool,
		LauncherPath: launcher,
		ParentPID:    4242,
		Delay:        time.Millisecond,
		FindProcess: func(pid int) (ps.Process, error) {
			if lookups.Add(1) < 3 {
				require.Equal(t, "old launcher", readFile(t, launcher))

				return fakeProcess{pid: pid}, nil
			}

			return nil, nil
		},
	})
	require.NoError(t, err)
	require.Equal(t, int32(3), lookups.Load())
	require.Equal(t, "new launcher", readFile(t, launcher))
}

// TestComplete_LauncherNeverExits gives up after the wait limit.
func TestComplete_LauncherNeverExits(t *testing.T) {
	t.Parallel()

	launcher := writeExecutable(t, t.TempDir(), "old launcher")
	tool := writeExecutable(t, t.TempDir(), "new launcher")

	err := Complete(context.Background(), &CompleteOptions{
		SelfPath:     tool,
		LauncherPath: launcher,
		ParentPID:    4242,
		Delay:        time.Millisecond,
		ParentWait:   50 * time.Millisecond,
		FindProcess: func(pid int) (ps.Process, error) {
			return fakeProcess{pid: pid}, nil
		},
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, "old launcher", readFile(t, launcher))
}

// TestComplete_RequiresLauncherPath reports a tool started by hand.
func TestComplete_RequiresLauncherPath(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Complete(context.Background(), &CompleteOptions{SelfPath: "x"}), ErrDirectToolLaunch)
}

// TestCompleteOptionsFromEnv reads the handed over environment.
func TestCompleteOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvLauncherPath, "")

	_, err := CompleteOptionsFromEnv("/cache/llc-launcher")
	require.ErrorIs(t, err, ErrDirectToolLaunch)

	t.Setenv(EnvLauncherPath, "/games/llc-launcher")
	t.Setenv(EnvLauncherPID, "321")

	opts, err := CompleteOptionsFromEnv("/cache/llc-launcher")
	require.NoError(t, err)
	require.Equal(t, "/games/llc-launcher", opts.LauncherPath)
	require.Equal(t, 321, opts.ParentPID)

	t.Setenv(EnvLauncherPID, "abc")

	_, err = CompleteOptionsFromEnv("/cache/llc-launcher")
	require.Error(t, err)
}
