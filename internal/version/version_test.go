package version

import (
	"bytes"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return non-empty consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), "zxp-packager "+Short())
	require.Contains(t, Full(), runtime.Version())
}

// TestFromBuildInfo uses the VCS stamp only where ldflags left placeholders.
func TestFromBuildInfo(t *testing.T) {
	t.Parallel()

	info := &debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-10-19T10:00:00Z"},
		},
	}

	commit, built := fromBuildInfo(info, unsetCommit, unsetBuildTime)
	require.Equal(t, "0123456", commit)
	require.Equal(t, "2026-10-19T10:00:00Z", built)

	commit, built = fromBuildInfo(info, "feedbee", "2026-01-01")
	require.Equal(t, "feedbee", commit)
	require.Equal(t, "2026-01-01", built)

	commit, built = fromBuildInfo(&debug.BuildInfo{}, unsetCommit, unsetBuildTime)
	require.Equal(t, unsetCommit, commit)
	require.Equal(t, unsetBuildTime, built)
}

// TestAttachCobraVersionCommand runs the attached subcommand and checks its output.
func TestAttachCobraVersionCommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "root"}
	AttachCobraVersionCommand(root)

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Equal(t, Full()+"\n", out.String())
}
