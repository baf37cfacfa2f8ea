// Package config provides configuration management for the diskmap disk
// usage visualizer.
package config

// Default configuration values for diskmap.
const (
	// DefaultPath is the default path to scan when none is specified.
	DefaultPath = "."

	// DefaultOutput is the default output artifact path.
	DefaultOutput = "disk_visualization.html"

	// DefaultFormat is the default artifact format.
	DefaultFormat = "html"

	// DefaultMaxDepth disables the depth limit.
	DefaultMaxDepth = -1

	// DefaultWorkers of zero means the worker count is derived from the
	// detected CPU parallelism.
	DefaultWorkers = 0
)

// DefaultSkipNames contains entry names excluded from traversal entirely.
// These are reserved system paths that are either inaccessible or
// meaningless to measure.
var DefaultSkipNames = []string{
	"$RECYCLE.BIN",
	"System Volume Information",
	"pagefile.sys",
	"swapfile.sys",
	"hiberfil.sys",
}
