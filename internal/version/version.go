package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the ember CLI.
// These variables can be overridden at build time via -ldflags.

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with major, minor and patch in distinct colors.
// Anything after the patch number (pre-release, build metadata) is left
// plain, as is a version that does not start with three dotted parts.
func Colored(enabled bool) string {
	parts := strings.SplitN(Version, ".", 3)
	if !enabled || len(parts) != 3 {
		return Version
	}
	patch, rest := parts[2], ""
	if i := strings.IndexAny(patch, "-+"); i >= 0 {
		patch, rest = patch[:i], patch[i:]
	}
	paint := func(c *color.Color, s string) string {
		c.EnableColor()
		return c.Sprint(s)
	}
	return paint(majorColor, parts[0]) + "." + paint(minorColor, parts[1]) + "." + paint(patchColor, patch) + rest
}

// Info is the version line followed by the optional build details.
func Info(enabled bool) string {
	var b strings.Builder
	b.WriteString("ember ")
	b.WriteString(Colored(enabled))
	if GitCommit != "" {
		b.WriteString("\ncommit: ")
		b.WriteString(GitCommit)
	}
	if BuildDate != "" {
		b.WriteString("\nbuilt:  ")
		b.WriteString(BuildDate)
	}
	return b.String()
}
