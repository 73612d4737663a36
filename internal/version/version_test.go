package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	require.NotEmpty(t, Version)
	require.Equal(t, Version, Colored(false))
}

func TestColoredKeepsSuffixPlain(t *testing.T) {
	withVersion(t, "1.2.3-rc.1+build.5", "", "")
	out := Colored(true)
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "-rc.1+build.5")
	require.Equal(t, "1.2.3-rc.1+build.5", Colored(false))
}

func TestColoredOddVersion(t *testing.T) {
	withVersion(t, "nightly", "", "")
	require.Equal(t, "nightly", Colored(true))
}

func TestInfo(t *testing.T) {
	withVersion(t, "1.0.0", "", "")
	require.Equal(t, "ember 1.0.0", Info(false))

	withVersion(t, "1.0.0", "abc123", "2026-01-15T10:30:00Z")
	require.Equal(t, "ember 1.0.0\ncommit: abc123\nbuilt:  2026-01-15T10:30:00Z", Info(false))
}
