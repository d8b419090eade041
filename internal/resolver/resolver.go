package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/llc-launcher/internal/domain/release"
	"github.com/oshokin/llc-launcher/internal/logger"
)

var errNoBackends = errors.New("resolver needs at least one backend")

// Backend is one family of release information, e.g. the GitHub releases API.
type Backend interface {
	// Family names the backend in logs and descriptors.
	Family() release.Family
	// Latest reports the newest release known to the backend.
	Latest(ctx context.Context) (*release.Descriptor, error)
}

// Resolver races backend families and keeps the first usable answer.
type Resolver struct {
	backends []Backend
}

// New creates a resolver over backends.
func New(backends ...Backend) (*Resolver, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}

	return &Resolver{backends: append([]Backend(nil), backends...)}, nil
}

// answer is the outcome of one backend.
type answer struct {
	family     release.Family
	descriptor *release.Descriptor
	err        error
}

// Resolve asks every backend at once. The first success wins and the others
// are cancelled; a failure only means waiting for the remaining backends.
// When all of them fail the joined error lists every family.
func (r *Resolver) Resolve(ctx context.Context) (*release.Descriptor, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	answers := make(chan answer, len(r.backends))

	for _, backend := range r.backends {
		go func() {
			descriptor, err := backend.Latest(ctx)
			if err == nil && descriptor == nil {
				err = fmt.Errorf("%s: empty answer", backend.Family())
			}

			answers <- answer{family: backend.Family(), descriptor: descriptor, err: err}
		}()
	}

	errs := make([]error, 0, len(r.backends))

	for range r.backends {
		a := <-answers
		if a.err == nil {
			if a.descriptor.Family == "" {
				a.descriptor.Family = a.family
			}

			logger.InfoKV(ctx, "Latest version resolved",
				"family", a.family,
				"version", a.descriptor.Version)

			return a.descriptor, nil
		}

		logger.WarnKV(ctx, "Backend could not resolve the latest version",
			"family", a.family,
			"error", a.err)

		errs = append(errs, fmt.Errorf("%s: %w", a.family, a.err))
	}

	return nil, errors.Join(errs...)
}
