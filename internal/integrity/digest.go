package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DigestSize is the length of a SHA-256 digest in bytes.
const DigestSize = sha256.Size

// digestAlgorithm is reported in mismatch errors produced by Digest.
const digestAlgorithm = "sha256"

var errInvalidDigestLength = errors.New("invalid digest length")

// Digest is a SHA-256 content digest.
type Digest [DigestSize]byte

// Sum computes the digest of data.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// SumFile computes the digest of the file at path.
func SumFile(path string) (Digest, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Digest{}, fmt.Errorf("read %s: %w", path, err)
	}

	return Sum(contents), nil
}

// ParseHex decodes a hex encoded SHA-256 digest.
func ParseHex(s string) (Digest, error) {
	var d Digest

	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return d, fmt.Errorf("decode hex digest: %w", err)
	}

	if len(raw) != DigestSize {
		return d, fmt.Errorf("%w: got %d bytes, want %d", errInvalidDigestLength, len(raw), DigestSize)
	}

	copy(d[:], raw)

	return d, nil
}

// String returns the lowercase hex form of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest is unset.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Verify implements Verifier.
func (d Digest) Verify(data []byte) error {
	actual := Sum(data)
	if actual == d {
		return nil
	}

	return &MismatchError{
		Algorithm: digestAlgorithm,
		Expected:  d.String(),
		Actual:    actual.String(),
	}
}

// UnmarshalText decodes a hex digest, so Digest can be used directly in JSON payloads.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
