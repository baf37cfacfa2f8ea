// Package scanner implements the concurrent directory-scan engine for
// diskmap. A fixed pool of workers drains a shared queue of (path, depth)
// items, resolving per-path metadata into a write-once cache and recording
// each directory's child list for the finalizer.
package scanner

import (
	"runtime"

	"github.com/rfowler/diskmap/pkg/diskmap/config"
)

// Options configures the scanner behavior.
type Options struct {
	// Root is the starting directory for the scan.
	Root string

	// Workers is the number of concurrent scan workers.
	Workers int

	// MaxDepth limits traversal depth relative to the root (root is depth
	// zero). Directories deeper than MaxDepth are kept as size-zero
	// placeholders. Negative means unbounded.
	MaxDepth int

	// SkipNames lists entry names excluded from traversal entirely: not
	// recorded, not counted, not recursed into.
	SkipNames []string

	// QueueSize is the scan queue buffer size. Workers that would block on
	// a full queue expand the child directory inline instead, so this only
	// bounds memory, never correctness.
	QueueSize int

	// Owner resolves a path to an owner identity string. If nil, the
	// platform default resolver is used.
	Owner OwnerResolver
}

// defaultQueueSize is used when no queue size is configured.
const defaultQueueSize = 4096

// DefaultOptions returns options with sensible defaults for most systems.
func DefaultOptions() Options {
	return Options{
		Root:      config.DefaultPath,
		Workers:   runtime.NumCPU(),
		MaxDepth:  config.DefaultMaxDepth,
		SkipNames: config.DefaultSkipNames,
		QueueSize: defaultQueueSize,
	}
}

// Validate checks the options and applies defaults for invalid values.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = config.DefaultPath
	}
	if o.Workers < 1 {
		o.Workers = runtime.NumCPU()
	}
	if o.QueueSize < 1 {
		o.QueueSize = defaultQueueSize
	}
	if o.Owner == nil {
		o.Owner = defaultOwnerResolver{}
	}
	return nil
}
