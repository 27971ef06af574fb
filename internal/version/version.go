// Package version provides build information for nescore
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/retroenv/retrogolib/buildinfo"
)

var (
	// These will be set at build time via -ldflags
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// BuildInfo contains detailed build information
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the ldflags values, falling back to the VCS stamps
// the go tool embeds.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if build, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range build.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = setting.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = setting.Value
				}
			}
		}
	}
	return info
}

// String returns the one line banner printed by -version.
func String() string {
	info := GetBuildInfo()
	return fmt.Sprintf("nescore %s (%s %s/%s)",
		buildinfo.Version(info.Version, info.GitCommit, info.BuildTime),
		info.GoVersion, info.Platform, info.Arch)
}
