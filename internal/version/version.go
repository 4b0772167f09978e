package version

import "github.com/fatih/color"

// Version information for the ghannotate CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.3.0"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored returns v with its major, minor and patch components colored.
// Anything after the patch number (a pre-release suffix) is left plain.
func Colored(v string) string {
	parts := [3]string{}
	rest := v
	for i := range parts {
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end == 0 {
			return v
		}
		parts[i] = rest[:end]
		rest = rest[end:]
		if i < 2 {
			if len(rest) == 0 || rest[0] != '.' {
				return v
			}
			rest = rest[1:]
		}
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + rest
}
