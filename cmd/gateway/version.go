// In file: cmd/gateway/version.go
package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X main.version=... -X main.gitCommit=... -X main.buildDate=...".
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

type BuildInfo struct {
	Version, BuildDate, GitCommit, GoVersion, Platform string
}

// GetBuildInfo reports the linker-stamped version. Local builds without ldflags fall back to
// the VCS revision recorded by the go tool.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if info.GitCommit != "unknown" {
		return info
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.GitCommit = s.Value
			case "vcs.time":
				if info.BuildDate == "unknown" {
					info.BuildDate = s.Value
				}
			}
		}
	}
	return info
}

// LogFields is the startup banner payload.
func (b BuildInfo) LogFields() map[string]interface{} {
	return map[string]interface{}{
		"version":    b.Version,
		"commit":     b.GitCommit,
		"build_date": b.BuildDate,
		"go_version": b.GoVersion,
		"platform":   b.Platform,
	}
}
