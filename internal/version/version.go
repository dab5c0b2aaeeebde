package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the fphash CLI.
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
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each semver component highlighted.
// Versions that are not dotted triples are returned unchanged.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	major, rest, ok := strings.Cut(core, ".")
	if !ok {
		return Version
	}
	minor, patch, ok := strings.Cut(rest, ".")
	if !ok {
		return Version
	}
	out := versionMajorColor.Sprint(major) + "." + versionMinorColor.Sprint(minor) + "." + versionPatchColor.Sprint(patch)
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

