package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/llc-launcher/internal/domain/release"
	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/integrity"
	"github.com/oshokin/llc-launcher/internal/registry"
)

// stubBackend answers after a delay.
type stubBackend struct {
	family  release.Family
	delay   time.Duration
	version release.Version
	err     error
}

func (s *stubBackend) Family() release.Family {
	return s.family
}

func (s *stubBackend) Latest(ctx context.Context) (*release.Descriptor, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if s.err != nil {
		return nil, s.err
	}

	return &release.Descriptor{Version: s.version}, nil
}

// TestResolver_FirstSuccessWins verifies the faster family answers and the family is recorded.
func TestResolver_FirstSuccessWins(t *testing.T) {
	t.Parallel()

	r, err := New(
		&stubBackend{family: release.FamilyGitHub, delay: time.Second, version: release.NumberVersion(1)},
		&stubBackend{family: release.FamilyVendor, delay: 5 * time.Millisecond, version: release.NumberVersion(2)},
	)
	require.NoError(t, err)

	started := time.Now()
	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, release.FamilyVendor, got.Family)
	require.Equal(t, "2", got.Version.String())
	require.Less(t, time.Since(started), 500*time.Millisecond)
}

// TestResolver_FailureWaitsForOtherFamily checks that an early failure falls back to the slower family.
func TestResolver_FailureWaitsForOtherFamily(t *testing.T) {
	t.Parallel()

	r, err := New(
		&stubBackend{family: release.FamilyGitHub, err: errors.New("rate limited")},
		&stubBackend{family: release.FamilyVendor, delay: 30 * time.Millisecond, version: release.NumberVersion(7)},
	)
	require.NoError(t, err)

	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, release.FamilyVendor, got.Family)
}

// TestResolver_AllFail verifies every family's error is preserved.
func TestResolver_AllFail(t *testing.T) {
	t.Parallel()

	githubErr := errors.New("github down")
	vendorErr := errors.New("vendor down")

	r, err := New(
		&stubBackend{family: release.FamilyGitHub, err: githubErr},
		&stubBackend{family: release.FamilyVendor, delay: 10 * time.Millisecond, err: vendorErr},
	)
	require.NoError(t, err)

	_, err = r.Resolve(context.Background())
	require.ErrorIs(t, err, githubErr)
	require.ErrorIs(t, err, vendorErr)

	_, err = New()
	require.ErrorIs(t, err, errNoBackends)
}

// TestBackends_HTTP exercises the GitHub, vendor and registry backends against fake servers.
func TestBackends_HTTP(t *testing.T) {
	t.Parallel()

	mainDigest := integrity.Sum([]byte("main"))
	fontDigest := integrity.Sum([]byte("font"))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/LocalizeLimbusCompany/LocalizeLimbusCompany/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != GitHubAccept {
			w.WriteHeader(http.StatusNotAcceptable)
			return
		}

		_, _ = w.Write([]byte(`{"tag_name": "2025081601", "name": "release"}`))
	})
	mux.HandleFunc("/v2/resource/get_version", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"version": 2025081601}`))
	})
	mux.HandleFunc("/v2/hash/get_hash", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"main_hash": "` + mainDigest.String() + `", "font_hash": "` + fontDigest.String() + `"}`))
	})
	mux.HandleFunc("/pkg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"dist-tags": {"latest": "1.0.0"}, "versions": {"1.0.0": {
			"name": "pkg", "version": "1.0.0", "githubTag": 2025081601,
			"dist": {"integrity": "sha512-z4PhNX7vuL3xVChQ1m2AB9Yg5AULVxXcg/SpIdNs6c5H0NE8XYXysP+DGNKHfuwvY7kxvUdBeoGlODJ6+SfaPg==",
			         "tarball": "https://registry.example/pkg/-/pkg-1.0.0.tgz"}}}}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	nodes, err := fetch.ParseSourceSet(srv.URL)
	require.NoError(t, err)

	client := fetch.NewClient()

	github, err := NewGitHub(client, nodes, "LocalizeLimbusCompany", "LocalizeLimbusCompany").Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, release.FamilyGitHub, github.Family)
	require.Equal(t, "2025081601", github.Version.String())

	vendor := NewVendor(client, nodes)

	fromVendor, err := vendor.Latest(context.Background())
	require.NoError(t, err)
	require.True(t, fromVendor.Version.AtLeast(github.Version))
	require.True(t, github.Version.AtLeast(fromVendor.Version))

	locator := NewVendorLocator(vendor, []string{
		"https://cdn-download.example/files/{{ file_name }}",
		"https://api.example/v2/download/files?file_name={{ file_name }}",
		"https://download.example/files",
	}, "LimbusCompany_Data/Lang/LLC_zh-CN", "Font/Context/ChineseFont.ttf")

	plan, err := locator.Locate(context.Background(), fromVendor)
	require.NoError(t, err)
	require.Equal(t, "LimbusLocalize_2025081601.7z", plan.Content.Name)
	require.Equal(t, mainDigest, plan.Content.Expected)
	require.Equal(t, fontDigest, plan.Font.Archive.Expected)

	endpoints := plan.Content.Sources.Endpoints()
	require.Len(t, endpoints, 3)
	require.Equal(t, "https://cdn-download.example/files/LimbusLocalize_2025081601.7z", endpoints[0].String())
	require.Equal(t, "https://api.example/v2/download/files?file_name=LimbusLocalize_2025081601.7z", endpoints[1].String())
	require.Equal(t, "https://download.example/files/LimbusLocalize_2025081601.7z", endpoints[2].String())

	_, err = locator.Locate(context.Background(), &release.Descriptor{Version: release.ParseVersion("1.2.3")})
	require.ErrorIs(t, err, errNotCounter)

	backend := NewRegistry(registry.NewClient(client, nodes), "pkg", "package/LimbusCompany_Data/Lang/LLC_zh-CN")

	fromRegistry, err := backend.Latest(context.Background())
	require.NoError(t, err)
	require.Equal(t, release.FamilyRegistry, fromRegistry.Family)
	require.Equal(t, "2025081601", fromRegistry.Version.String())
	require.NotNil(t, fromRegistry.Content)
	require.True(t, strings.HasPrefix(fromRegistry.Content.StripPrefix, "package/"))

	descriptorPlan, err := NewDescriptorLocator(nil).Locate(context.Background(), fromRegistry)
	require.NoError(t, err)
	require.Nil(t, descriptorPlan.Font)
	require.Equal(t, 2, descriptorPlan.Content.Sources.Len())

	_, err = NewDescriptorLocator(nil).Locate(context.Background(), github)
	require.ErrorIs(t, err, errNoContent)
}
