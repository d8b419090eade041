package integrity

import (
	"crypto/sha512"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDigest_Verify checks that a payload matches its own digest and that a single flipped bit is detected.
func TestDigest_Verify(t *testing.T) {
	t.Parallel()

	payload := []byte("LimbusLocalize archive payload")
	digest := Sum(payload)

	require.NoError(t, digest.Verify(payload))

	corrupted := append([]byte(nil), payload...)
	corrupted[3] ^= 0x01

	err := digest.Verify(corrupted)
	require.Error(t, err)

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, "sha256", mismatch.Algorithm)
	require.Equal(t, digest.String(), mismatch.Expected)
	require.Equal(t, Sum(corrupted).String(), mismatch.Actual)
	require.NotEqual(t, mismatch.Expected, mismatch.Actual)
}

// TestParseHex verifies decoding of hex digests and rejection of wrong lengths.
func TestParseHex(t *testing.T) {
	t.Parallel()

	want := Sum([]byte("font"))

	got, err := ParseHex("  " + want.String() + "\n")
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = ParseHex("abcd")
	require.Error(t, err)

	_, err = ParseHex("zz")
	require.Error(t, err)
}

// TestSumFile ensures file digests equal in-memory digests.
func TestSumFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ChineseFont.ttf")
	require.NoError(t, os.WriteFile(path, []byte("glyphs"), 0o600))

	got, err := SumFile(path)
	require.NoError(t, err)
	require.Equal(t, Sum([]byte("glyphs")), got)

	_, err = SumFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

// TestParseSRI_PicksStrongest verifies the strongest known algorithm wins and unknown tokens are ignored.
func TestParseSRI_PicksStrongest(t *testing.T) {
	t.Parallel()

	payload := []byte("tarball")
	sum512 := sha512.Sum512(payload)
	token := "sha512-" + base64.StdEncoding.EncodeToString(sum512[:])

	sri, err := ParseSRI("md5-AAAA sha1-bogus " + token + "?opt")
	require.NoError(t, err)
	require.Equal(t, "sha512", sri.Algorithm())
	require.NoError(t, sri.Verify(payload))

	err = sri.Verify([]byte("tarbalL"))

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, "sha512", mismatch.Algorithm)
	require.Equal(t, base64.StdEncoding.EncodeToString(sum512[:]), mismatch.Expected)
}

// TestParseSRI_Invalid checks rejection of empty and unsupported integrity strings.
func TestParseSRI_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseSRI("   ")
	require.ErrorIs(t, err, errEmptyIntegrity)

	_, err = ParseSRI("md5-1B2M2Y8AsgTpgAmY7PhCfg==")
	require.ErrorIs(t, err, errUnsupportedIntegrity)
}

// TestCheck_NilVerifier verifies that a missing verifier accepts any payload.
func TestCheck_NilVerifier(t *testing.T) {
	t.Parallel()

	require.NoError(t, Check([]byte("anything"), nil))
	require.Error(t, Check([]byte("anything"), Sum([]byte("other"))))
}
