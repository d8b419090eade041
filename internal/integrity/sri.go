package integrity

import (
	"bytes"
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	// Register the hash functions referenced by integrity strings.
	_ "crypto/sha1" //nolint:gosec // npm still publishes sha1 integrity for old packages.
	_ "crypto/sha256"
	_ "crypto/sha512"
)

var (
	errEmptyIntegrity       = errors.New("integrity string is empty")
	errUnsupportedIntegrity = errors.New("integrity string has no supported algorithm")
)

// sriAlgorithm describes one hash function usable in an integrity string.
type sriAlgorithm struct {
	name     string
	hash     crypto.Hash
	strength int
}

//nolint:gochecknoglobals // Lookup table of supported algorithms.
var sriAlgorithms = map[string]sriAlgorithm{
	"sha1":   {name: "sha1", hash: crypto.SHA1, strength: 1},
	"sha256": {name: "sha256", hash: crypto.SHA256, strength: 2},
	"sha384": {name: "sha384", hash: crypto.SHA384, strength: 3},
	"sha512": {name: "sha512", hash: crypto.SHA512, strength: 4},
}

// SRI is a parsed subresource integrity string such as the one npm publishes
// in dist.integrity. Only the strongest algorithm present is checked.
type SRI struct {
	algorithm sriAlgorithm
	digest    []byte
	raw       string
}

// ParseSRI parses a whitespace separated list of "<alg>-<base64>[?opts]" tokens.
// Tokens with unknown algorithms or broken base64 are ignored as long as one
// usable token remains.
func ParseSRI(s string) (*SRI, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return nil, errEmptyIntegrity
	}

	var best *SRI

	for _, token := range tokens {
		name, encoded, found := strings.Cut(token, "-")
		if !found {
			continue
		}

		algorithm, ok := sriAlgorithms[strings.ToLower(name)]
		if !ok {
			continue
		}

		// Options after "?" are reserved by the format and carry no digest data.
		encoded, _, _ = strings.Cut(encoded, "?")

		digest, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(digest) != algorithm.hash.Size() {
			continue
		}

		if best == nil || algorithm.strength > best.algorithm.strength {
			best = &SRI{
				algorithm: algorithm,
				digest:    digest,
				raw:       token,
			}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: %q", errUnsupportedIntegrity, s)
	}

	return best, nil
}

// Algorithm returns the name of the algorithm that will be checked.
func (s *SRI) Algorithm() string {
	return s.algorithm.name
}

// String returns the selected token.
func (s *SRI) String() string {
	return s.raw
}

// Verify implements Verifier.
func (s *SRI) Verify(data []byte) error {
	hasher := s.algorithm.hash.New()
	_, _ = hasher.Write(data)

	actual := hasher.Sum(nil)
	if bytes.Equal(actual, s.digest) {
		return nil
	}

	return &MismatchError{
		Algorithm: s.algorithm.name,
		Expected:  base64.StdEncoding.EncodeToString(s.digest),
		Actual:    base64.StdEncoding.EncodeToString(actual),
	}
}
