// Package version reports the build version of flowadmin. The values are set at
// build time:
//
//	go build -ldflags "-X github.com/bpmops/flowadmin/pkg/version.version=v1.0.0 \
//	  -X github.com/bpmops/flowadmin/pkg/version.gitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/bpmops/flowadmin/pkg/version.buildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

//nolint:gochecknoglobals // Set through -ldflags.
var (
	version   = "0.0.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the build version.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// IsRelease reports whether the version is a release semantic version without a
// prerelease suffix.
func IsRelease() bool {
	v, err := semver.NewVersion(version)
	return err == nil && v.Prerelease() == ""
}

// String returns the version line printed by --version.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s/%s)",
		version, gitCommit, buildDate, runtime.GOOS, runtime.GOARCH)
}
