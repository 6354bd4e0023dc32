// Package version reports the erbench build. The variables are set with
// -ldflags "-X github.com/teranos/erbench/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

var (
	Version    = "dev"
	CommitHash = "dev"
	BuildTime  = "unknown"
)

// Info is recorded in run manifests and printed by `erbench version`.
type Info struct {
	Version    string `json:"version" toml:"version"`
	CommitHash string `json:"commit_hash" toml:"commit_hash"`
	BuildTime  string `json:"build_time" toml:"build_time"`
	GoVersion  string `json:"go_version" toml:"go_version"`
	Platform   string `json:"platform" toml:"platform"`
}

// Get returns the running binary's build info.
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("erbench %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
}
