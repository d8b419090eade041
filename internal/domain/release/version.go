package release

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Kind tells how a Version is represented.
type Kind int

const (
	// KindNone is the zero Version: nothing installed or nothing reported.
	KindNone Kind = iota
	// KindNumber is a monotonically increasing counter, as published by the vendor API.
	KindNumber
	// KindSemver is a semantic version, as published by npm.
	KindSemver
	// KindTag is any other opaque release tag.
	KindTag
)

// Version identifies one release of the localization content.
type Version struct {
	kind   Kind
	number uint64
	semver *semver.Version
	raw    string
}

// NumberVersion returns a counter version.
func NumberVersion(n uint64) Version {
	return Version{
		kind:   KindNumber,
		number: n,
		raw:    strconv.FormatUint(n, 10),
	}
}

// ParseVersion classifies s as a counter, a semantic version or a plain tag.
// An empty string yields the zero Version.
func ParseVersion(s string) Version {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}
	}

	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NumberVersion(n)
	}

	if v, err := semver.NewVersion(s); err == nil {
		return Version{
			kind:   KindSemver,
			semver: v,
			raw:    s,
		}
	}

	return Version{
		kind: KindTag,
		raw:  s,
	}
}

// Kind returns the representation of v.
func (v Version) Kind() Kind {
	return v.kind
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool {
	return v.kind == KindNone
}

// Number returns the counter value when v is a counter.
func (v Version) Number() (uint64, bool) {
	return v.number, v.kind == KindNumber
}

// String returns the version as it was published.
func (v Version) String() string {
	return v.raw
}

// Compare orders v against other. The boolean is false when the two versions
// use different representations or are distinct tags, in which case no order
// exists.
func (v Version) Compare(other Version) (int, bool) {
	if v.kind != other.kind {
		return 0, false
	}

	switch v.kind {
	case KindNone:
		return 0, true
	case KindNumber:
		return cmp.Compare(v.number, other.number), true
	case KindSemver:
		return v.semver.Compare(other.semver), true
	case KindTag:
		if v.raw == other.raw {
			return 0, true
		}

		return 0, false
	default:
		return 0, false
	}
}

// AtLeast reports whether v is known to be the same as or newer than other.
func (v Version) AtLeast(other Version) bool {
	c, ok := v.Compare(other)

	return ok && c >= 0
}
