package release

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseVersion verifies classification of counters, semantic versions and tags.
func TestParseVersion(t *testing.T) {
	t.Parallel()

	require.True(t, ParseVersion("  ").IsZero())

	counter := ParseVersion("101")
	require.Equal(t, KindNumber, counter.Kind())

	n, ok := counter.Number()
	require.True(t, ok)
	require.Equal(t, uint64(101), n)
	require.Equal(t, "101", counter.String())

	require.Equal(t, KindSemver, ParseVersion("0.5.3").Kind())
	require.Equal(t, KindSemver, ParseVersion("v1.2.0").Kind())
	require.Equal(t, KindTag, ParseVersion("nightly-2025").Kind())
}

// TestVersion_Compare checks ordering within a representation and refusal across representations.
func TestVersion_Compare(t *testing.T) {
	t.Parallel()

	c, ok := NumberVersion(100).Compare(NumberVersion(101))
	require.True(t, ok)
	require.Negative(t, c)

	require.True(t, NumberVersion(101).AtLeast(ParseVersion("101")))
	require.True(t, NumberVersion(102).AtLeast(NumberVersion(101)))
	require.False(t, NumberVersion(100).AtLeast(NumberVersion(101)))

	require.True(t, ParseVersion("1.10.0").AtLeast(ParseVersion("1.9.0")))
	require.False(t, ParseVersion("1.9.0").AtLeast(ParseVersion("1.10.0")))

	_, ok = NumberVersion(1).Compare(ParseVersion("1.0.0"))
	require.False(t, ok)
	require.False(t, NumberVersion(1).AtLeast(ParseVersion("1.0.0")))

	require.True(t, ParseVersion("beta").AtLeast(ParseVersion("beta")))
	require.False(t, ParseVersion("beta").AtLeast(ParseVersion("gamma")))

	require.False(t, Version{}.AtLeast(NumberVersion(1)))
}
