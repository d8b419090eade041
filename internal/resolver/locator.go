package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/llc-launcher/internal/domain/release"
	"github.com/oshokin/llc-launcher/internal/fetch"
)

// FileNamePlaceholder is replaced with the archive name in download node templates.
const FileNamePlaceholder = "{{ file_name }}"

const (
	// vendorFontArchive is the vendor font archive name.
	vendorFontArchive = "LLCCN-Font.7z"
	// vendorContentArchive is the vendor content archive name pattern.
	vendorContentArchive = "LimbusLocalize_%d.7z"
)

var (
	errNotCounter = errors.New("vendor archives are named by counter versions")
	errNoContent  = errors.New("descriptor does not locate any content")
)

// Locator turns a resolved descriptor into an installation plan.
type Locator interface {
	Locate(ctx context.Context, descriptor *release.Descriptor) (*release.Plan, error)
}

// ExpandTemplate substitutes fileName into a download node template.
// Templates without the placeholder get the name appended as a path element.
func ExpandTemplate(template, fileName string) (fetch.Endpoint, error) {
	if strings.Contains(template, FileNamePlaceholder) {
		return fetch.ParseEndpoint(strings.ReplaceAll(template, FileNamePlaceholder, fileName))
	}

	endpoint, err := fetch.ParseEndpoint(template)
	if err != nil {
		return fetch.Endpoint{}, err
	}

	return endpoint.Join(fileName), nil
}

// VendorLocator places vendor archives on the download nodes and protects
// them with the digests of the hash endpoint.
type VendorLocator struct {
	vendor      *Vendor
	templates   []string
	stripPrefix string
	fontPath    string
}

// NewVendorLocator creates a locator. stripPrefix is the content directory
// inside the archives and fontPath the font file relative to it.
func NewVendorLocator(vendor *Vendor, templates []string, stripPrefix, fontPath string) *VendorLocator {
	return &VendorLocator{
		vendor:      vendor,
		templates:   append([]string(nil), templates...),
		stripPrefix: stripPrefix,
		fontPath:    fontPath,
	}
}

// Locate implements Locator.
func (l *VendorLocator) Locate(ctx context.Context, descriptor *release.Descriptor) (*release.Plan, error) {
	counter, ok := descriptor.Version.Number()
	if !ok {
		return nil, fmt.Errorf("%s version %s: %w", descriptor.Family, descriptor.Version, errNotCounter)
	}

	hashes, err := l.vendor.Hashes(ctx)
	if err != nil {
		return nil, err
	}

	contentName := fmt.Sprintf(vendorContentArchive, counter)

	contentSources, err := l.sources(contentName)
	if err != nil {
		return nil, err
	}

	fontSources, err := l.sources(vendorFontArchive)
	if err != nil {
		return nil, err
	}

	return &release.Plan{
		Version: descriptor.Version,
		Content: release.Artifact{
			Name:        contentName,
			Sources:     contentSources,
			Expected:    hashes.Main,
			StripPrefix: l.stripPrefix,
		},
		Font: &release.FontAsset{
			Archive: release.Artifact{
				Name:        vendorFontArchive,
				Sources:     fontSources,
				Expected:    hashes.Font,
				StripPrefix: l.stripPrefix,
			},
			Path:      l.fontPath,
			Installed: hashes.Font,
		},
	}, nil
}

// sources expands every template for fileName.
func (l *VendorLocator) sources(fileName string) (fetch.SourceSet, error) {
	endpoints := make([]fetch.Endpoint, 0, len(l.templates))

	for _, template := range l.templates {
		endpoint, err := ExpandTemplate(template, fileName)
		if err != nil {
			return fetch.SourceSet{}, err
		}

		endpoints = append(endpoints, endpoint)
	}

	return fetch.NewSourceSet(endpoints...)
}

// DescriptorLocator uses the content carried by the descriptor itself and
// adds a fixed font asset.
type DescriptorLocator struct {
	font *release.FontAsset
}

// NewDescriptorLocator creates a locator; font may be nil.
func NewDescriptorLocator(font *release.FontAsset) *DescriptorLocator {
	return &DescriptorLocator{font: font}
}

// Locate implements Locator.
func (l *DescriptorLocator) Locate(_ context.Context, descriptor *release.Descriptor) (*release.Plan, error) {
	if descriptor.Content == nil {
		return nil, fmt.Errorf("%s: %w", descriptor.Family, errNoContent)
	}

	return &release.Plan{
		Version: descriptor.Version,
		Content: *descriptor.Content,
		Font:    l.font,
	}, nil
}
