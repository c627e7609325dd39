// Package version exposes build-time version information.
package version

import (
	"encoding/json"
	"fmt"
)

var (
	// Version is set during the build via -ldflags.
	Version = "dev"
	// GitCommit is the git commit SHA the binary was built from.
	GitCommit = "unknown"
)

// Info is the version information of a storesearch build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
}

// Get returns the current build's version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("storesearch %s (%s)", i.Version, i.GitCommit)
}

// JSON returns the version information as indented JSON.
func (i Info) JSON() (string, error) {
	b, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
