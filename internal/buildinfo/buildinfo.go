// Package buildinfo holds build-time metadata injected with -ldflags:
//
//	go build -ldflags "-X github.com/tphakala/calendar-go/internal/buildinfo.version=v1.2.0 \
//	  -X github.com/tphakala/calendar-go/internal/buildinfo.buildDate=2025-01-01T00:00:00Z"
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// UnknownValue is reported for metadata that was not injected.
const UnknownValue = "unknown"

var (
	version   string
	buildDate string
)

// Info is build metadata for one binary.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// Current returns the metadata of the running binary. Without ldflags the
// module version recorded by the go tool is used when available.
func Current() Info {
	v := version
	if v == "" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return New(v, buildDate)
}

// New builds an Info, substituting UnknownValue for blanks.
func New(version, buildDate string) Info {
	if version == "" {
		version = UnknownValue
	}
	if buildDate == "" {
		buildDate = UnknownValue
	}
	return Info{Version: version, BuildDate: buildDate, GoVersion: runtime.Version()}
}

func (i Info) String() string {
	return fmt.Sprintf("calendar-go %s (built %s, %s)", i.Version, i.BuildDate, i.GoVersion)
}
