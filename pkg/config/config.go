package config

import "fmt"

// Populated at build time through ldflags (see the dev tool's build command).
var (
	Version string
	Commit  string
	Date    string
)

// VersionString renders the build identification used by the cli binaries.
func VersionString() string {
	return fmt.Sprintf("%s-%s-%s", Version, Date, Commit)
}
