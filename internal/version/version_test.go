package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return non-empty consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())

	v, err := Semver()
	require.NoError(t, err)
	require.Equal(t, Short(), v.Original())
}

// TestOlderThan compares the build version with candidates.
func TestOlderThan(t *testing.T) {
	t.Parallel()

	require.True(t, OlderThan("999.0.0"))
	require.False(t, OlderThan("0.0.1"))
	require.False(t, OlderThan(Short()))
	require.False(t, OlderThan("not-a-version"))
}

// TestAttachCobraVersionCommand checks the version subcommand output.
func TestAttachCobraVersionCommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "llc-launcher"}
	AttachCobraVersionCommand(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), Full())
}
