package prof

import internal "github.com/kolkov/callprof/internal/prof/api"

// Version information for callprof.
const (
	// Version is the current version of the profiler.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the default profiler.
type Info struct {
	// Version is the library version string.
	Version string

	// Enabled indicates whether the capture gate is open.
	Enabled bool

	// PageCapacity is the number of events per log page.
	PageCapacity int
}

// GetInfo returns information about the default profiler.
//
// Example:
//
//	info := prof.GetInfo()
//	fmt.Printf("callprof %s (enabled=%v)\n", info.Version, info.Enabled)
func GetInfo() Info {
	p := internal.Default()
	return Info{
		Version:      Version,
		Enabled:      p.Enabled(),
		PageCapacity: p.Config().PageCapacity,
	}
}
