// Package version holds the build-time version variables for the inv binary.
// The zero values ("dev", "none", "unknown") are used for local builds.
// Release builds inject the real values via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// These variables are overridden by -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns the formatted version string printed by inv version.
func Info() string {
	return fmt.Sprintf(
		"inv version %s\ncommit: %s\nbuilt: %s\ngo: %s %s/%s\n",
		Version,
		Commit,
		Date,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
	)
}
