package versioning

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"boilerplate/internal/constants"
)

// APIVersion represents a semantic version for the API
type APIVersion struct {
	Major      int    `json:"major"`
	Minor      int    `json:"minor"`
	Patch      int    `json:"patch"`
	Prerelease string `json:"prerelease,omitempty"`
}

// String returns the version as a string (e.g., "1.2.3" or "1.2.3-beta")
func (v APIVersion) String() string {
	version := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		version += "-" + v.Prerelease
	}
	return version
}

// Compare compares this version with another version
// Returns: -1 if this < other, 0 if equal, 1 if this > other
func (v APIVersion) Compare(other APIVersion) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}

	switch {
	case v.Prerelease == other.Prerelease:
		return 0
	case v.Prerelease == "":
		return 1 // Release version is greater than prerelease
	case other.Prerelease == "":
		return -1
	case v.Prerelease < other.Prerelease:
		return -1
	default:
		return 1
	}
}

// IsCompatible reports whether a client asking for target can be served by
// v: same major version and v is not older than target.
func (v APIVersion) IsCompatible(target APIVersion) bool {
	if v.Major != target.Major {
		return false
	}
	return v.Compare(target) >= 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-([a-zA-Z0-9\-\.]+))?$`)

// ParseVersion parses a version string into an APIVersion. A leading "v"
// and missing minor/patch parts are accepted ("v1" is 1.0.0).
func ParseVersion(versionStr string) (APIVersion, error) {
	normalized := versionStr
	if len(normalized) > 1 && normalized[0] == 'v' {
		normalized = normalized[1:]
	}
	if !strings.Contains(normalized, "-") {
		normalized = padVersion(normalized)
	}

	matches := versionPattern.FindStringSubmatch(normalized)
	if matches == nil {
		return APIVersion{}, fmt.Errorf("invalid version format: %s", versionStr)
	}

	major, err := strconv.Atoi(matches[1])
	if err != nil {
		return APIVersion{}, fmt.Errorf("invalid major version: %s", matches[1])
	}
	minor, err := strconv.Atoi(matches[2])
	if err != nil {
		return APIVersion{}, fmt.Errorf("invalid minor version: %s", matches[2])
	}
	patch, err := strconv.Atoi(matches[3])
	if err != nil {
		return APIVersion{}, fmt.Errorf("invalid patch version: %s", matches[3])
	}

	return APIVersion{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: matches[4],
	}, nil
}

func padVersion(s string) string {
	for dots := strings.Count(s, "."); dots < 2; dots++ {
		s += ".0"
	}
	return s
}

// CurrentVersion is the API version this build serves.
var CurrentVersion = MustParse(constants.DefaultAppVersion)

// MustParse is ParseVersion for compile-time constants.
func MustParse(versionStr string) APIVersion {
	v, err := ParseVersion(versionStr)
	if err != nil {
		panic(err)
	}
	return v
}

// Set at link time with -ldflags "-X boilerplate/internal/versioning.BuildVersion=..."
var (
	BuildVersion = "dev"
	GitCommit    = ""
)

// VersionInfo contains comprehensive version information
type VersionInfo struct {
	API       APIVersion `json:"api_version"`
	Build     string     `json:"build_version"`
	Commit    string     `json:"git_commit,omitempty"`
	GoVersion string     `json:"go_version"`
}

// DefaultVersionInfo returns the version information of the running binary
func DefaultVersionInfo() VersionInfo {
	return VersionInfo{
		API:       CurrentVersion,
		Build:     BuildVersion,
		Commit:    GitCommit,
		GoVersion: runtime.Version(),
	}
}

// String renders the info the way -version prints it.
func (i VersionInfo) String() string {
	s := fmt.Sprintf("api %s, build %s, %s", i.API, i.Build, i.GoVersion)
	if i.Commit != "" {
		s += ", commit " + i.Commit
	}
	return s
}
