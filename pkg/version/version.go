// Package version reports build metadata injected with -ldflags.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

var (
	// Version is the release of the build.
	Version = "dev"
	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"
	// BuildTime is when the binary was built.
	BuildTime = "unknown"
)

// Info is the build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// Get returns the metadata of the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("Version: %s, GitCommit: %s, BuildTime: %s, GoVersion: %s",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion)
}

// JSON returns the indented JSON encoding of i.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode version info")
	}
	return string(data), nil
}

// BuildInfo is the single-line JSON form handed to skills as sdk.Environment.BuildInfo.
func (i Info) BuildInfo() string {
	data, err := json.Marshal(i)
	if err != nil {
		return ""
	}
	return string(data)
}
