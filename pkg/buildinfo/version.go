// Package buildinfo reports the version of the bicluster binary.
//
// Release builds stamp the variables below with ldflags:
//
//	go build -ldflags "-X github.com/sgratzl/org.caleydo.view.bicluster/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/sgratzl/org.caleydo.view.bicluster/pkg/buildinfo.Commit=$(git rev-parse HEAD)"
//
// Binaries built with "go install" carry no ldflags; [Get] then falls back to
// the module version and VCS stamp recorded by the Go toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the resolved build information.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Dirty   bool   `json:"dirty,omitempty"`
}

// Get returns the stamped build information, completed from the binary's
// embedded build info where the ldflags left defaults.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fill(info, bi)
	}
	return info
}

func fill(info Info, bi *debug.BuildInfo) Info {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// Short returns the version with a short commit, e.g. "v0.3.0 (1a2b3c4)".
func (i Info) Short() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Dirty {
		commit += "+dirty"
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}

// Template returns the cobra version template.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} %s\nbuilt: %s\n", i.Short(), i.Date)
}
