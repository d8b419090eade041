package launcher

import (
	"github.com/oshokin/llc-launcher/internal/config"
	"github.com/oshokin/llc-launcher/internal/domain/release"
	"github.com/oshokin/llc-launcher/internal/fetch"
	"github.com/oshokin/llc-launcher/internal/registry"
	"github.com/oshokin/llc-launcher/internal/resolver"
)

const (
	// FontPath is the font location relative to the content directory.
	FontPath = "Font/Context/ChineseFont.ttf"

	// registryStripPrefix is the content directory inside the npm tarball.
	registryStripPrefix = "package/" + ContentRelative

	// sarasaArchive names the font archive of the registry channel in logs.
	sarasaArchive = "SarasaGothicSC-TTF.7z"
	// sarasaMember is the font extracted from sarasaArchive.
	sarasaMember = "SarasaGothicSC-Bold.ttf"
)

// channel is the resolver and locator pair of one release channel.
type channel struct {
	resolver *resolver.Resolver
	locator  resolver.Locator
}

// newChannel wires the backends selected by cfg.Channel.
func newChannel(cfg *config.Config, fetcher *fetch.Client) (*channel, error) {
	if cfg.Channel == config.ChannelRegistry {
		return newRegistryChannel(cfg, fetcher)
	}

	return newVendorChannel(cfg, fetcher)
}

// newVendorChannel races the GitHub releases API against the vendor API and
// downloads vendor archives from the download nodes.
func newVendorChannel(cfg *config.Config, fetcher *fetch.Client) (*channel, error) {
	apis, err := fetch.ParseSourceSet(cfg.GitHub.API)
	if err != nil {
		return nil, err
	}

	nodes, err := fetch.ParseSourceSet(cfg.APINodes...)
	if err != nil {
		return nil, err
	}

	vendor := resolver.NewVendor(fetcher, nodes)

	res, err := resolver.New(
		resolver.NewGitHub(fetcher, apis, cfg.GitHub.Owner, cfg.GitHub.Repo),
		vendor,
	)
	if err != nil {
		return nil, err
	}

	return &channel{
		resolver: res,
		locator:  resolver.NewVendorLocator(vendor, cfg.DownloadNodes, ContentRelative, FontPath),
	}, nil
}

// newRegistryChannel reads the npm package and installs the Sarasa Gothic font.
func newRegistryChannel(cfg *config.Config, fetcher *fetch.Client) (*channel, error) {
	registries, err := fetch.ParseSourceSet(cfg.NPMRegistries...)
	if err != nil {
		return nil, err
	}

	fontSources, err := fetch.ParseSourceSet(cfg.FontSources...)
	if err != nil {
		return nil, err
	}

	client := registry.NewClient(fetcher, registries)

	res, err := resolver.New(resolver.NewRegistry(client, cfg.Package, registryStripPrefix))
	if err != nil {
		return nil, err
	}

	font := &release.FontAsset{
		Archive: release.Artifact{
			Name:    sarasaArchive,
			Sources: fontSources,
		},
		Member: sarasaMember,
		Path:   FontPath,
	}

	return &channel{
		resolver: res,
		locator:  resolver.NewDescriptorLocator(font),
	}, nil
}
