// Package vars holds build-time variables populated via the linker (ldflags).
package vars

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

// License of the project
const License = "MIT"

var (
	// Name of the project
	Name = "LanPlay"

	// Version of application (git tag) semver/tag, e.g. v1.2.3
	Version = "dev"

	// Commit is the current git commit, full or short git SHA
	Commit = "unknown"

	// Revision build, count of commits
	Revision = 0

	// BuildTime is the time of start build app, RFC3339 UTC
	BuildTime = time.Unix(0, 0)

	// URL to repository (https)
	URL = "https://github.com/woozymasta/lanplay"

	_revision  string
	_buildTime string
)

// BuildInfo exposes build metadata to the API and the version flag.
type BuildInfo struct {
	// betteralign:ignore

	Name        string    `json:"name" example:"LanPlay"`
	Version     string    `json:"version" example:"v1.2.3"`
	Commit      string    `json:"commit" example:"da15c174cd2ada1ad247906536c101e8f6799def"`
	CommitShort string    `json:"commit_short,omitempty" example:"da15c17"`
	Revision    int       `json:"revision,omitempty" example:"42"`
	BuildTime   time.Time `json:"build_time,omitempty" example:"1970-01-01T00:00:00Z"`
	URL         string    `json:"url,omitempty" example:"https://github.com/woozymasta/lanplay"`
	License     string    `json:"license,omitempty" example:"MIT"`
}

func init() {
	if n, err := strconv.Atoi(_revision); err == nil {
		Revision = n
	}

	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

// Print writes the build information to w.
func Print(w io.Writer) {
	i := Info()
	_, _ = fmt.Fprintf(w, "name:     %s\nurl:      %s\nversion:  %s\ncommit:   %s\nrevision: %d\nbuilt:    %s\nlicense:  %s\n",
		i.Name, i.URL, i.Version, i.Commit, i.Revision, i.BuildTime.Format(time.RFC3339), i.License)
}

// Info returns the full build metadata.
func Info() BuildInfo {
	return BuildInfo{
		Name:        Name,
		Version:     Version,
		Commit:      Commit,
		CommitShort: CommitShort(),
		Revision:    Revision,
		BuildTime:   BuildTime,
		URL:         URL,
		License:     License,
	}
}

// UserAgent is sent with every outbound request.
func UserAgent() string {
	return Name + "/" + Version
}

// CommitShort returns the first 7 characters of the git commit hash.
func CommitShort() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}

	return Commit
}
