// Package version provides version information for luapack.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// CUESDKVersion is the version of the CUE SDK used to read luapack.cue.
const CUESDKVersion = "v0.15.4"

// Info contains version information.
type Info struct {
	Version       string `json:"version"`
	GitCommit     string `json:"gitCommit"`
	BuildDate     string `json:"buildDate"`
	GoVersion     string `json:"goVersion"`
	CUESDKVersion string `json:"cueSDKVersion"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		CUESDKVersion: CUESDKVersion,
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("luapack:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s\n\nCUE:\n  SDK Version: %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion, i.CUESDKVersion)
}

// Bundle returns the version written into bundle headers, without the
// leading "v".
func Bundle() string {
	return strings.TrimPrefix(Version, "v")
}

// FullVersionString returns version information including the detected Lua
// interpreter.
func FullVersionString(info Info, lua LuaBinaryInfo) string {
	return fmt.Sprintf("%s\n\nLua:\n%s", info.String(), lua.String())
}
