// Package misc holds program identification set at build time.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// Overwritten with -ldflags "-X tomdx/misc.version=... -X tomdx/misc.githash=..."
var (
	version = "dev"
	githash = ""
)

// GetAppName returns program name without extension.
func GetAppName() string {
	name := filepath.Base(os.Args[0])
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" || name == "." {
		return "tomdx"
	}
	return name
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit hash the program was built from, falling back on
// vcs information embedded by the toolchain.
func GetGitHash() string {
	if githash != "" {
		return githash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
