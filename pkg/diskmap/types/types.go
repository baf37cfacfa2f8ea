// Package types provides the core data types for the diskmap disk usage
// visualizer: the result tree entry, scan statistics, and size formatting.
package types

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind classifies an Entry as a file, a directory, or an error record.
type Kind string

// Entry kinds as serialized in the output artifact.
const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	KindError     Kind = "error"
)

// Unknown is the fallback value for owner and timestamp fields that could
// not be resolved.
const Unknown = "Unknown"

// TimeLayout is the timestamp format used for modified/accessed fields.
const TimeLayout = "2006-01-02 15:04:05"

// Entry is one node in the result tree: a file, a directory, or an error
// record for a path that could not be read. The JSON field names form the
// contract with the visualization renderer.
type Entry struct {
	// Name is the base name of the path.
	Name string `json:"name"`

	// Path is the absolute path and the unique identifier of the entry.
	Path string `json:"path"`

	// Size is the size in bytes. For directories it is zero until the
	// finalizer sums the children; for error entries it stays zero.
	Size int64 `json:"size"`

	// HumanSize is the human-readable size (e.g. "1.5 MB").
	HumanSize string `json:"human_size"`

	// Kind is the entry classification, serialized as "type".
	Kind Kind `json:"type"`

	// Owner is the resolved owner identity, or "Unknown".
	Owner string `json:"owner,omitempty"`

	// Modified is the last modification time, or "Unknown".
	Modified string `json:"modified,omitempty"`

	// Accessed is the last access time, or "Unknown".
	Accessed string `json:"accessed,omitempty"`

	// ErrorDetail carries the OS error message for error entries.
	ErrorDetail string `json:"error,omitempty"`

	// Children holds the direct children of a directory entry, sorted by
	// size descending after finalization. Nil for files and errors.
	Children []*Entry `json:"children,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e *Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// ScanStats is a point-in-time snapshot of scan progress counters.
type ScanStats struct {
	// FilesProcessed is the number of distinct files resolved.
	FilesProcessed int64 `json:"files_processed"`

	// DirsProcessed is the number of distinct directories resolved.
	DirsProcessed int64 `json:"dirs_processed"`

	// Errors is the number of paths that failed with an OS error.
	Errors int64 `json:"errors"`

	// BytesCounted is the sum of all resolved file sizes.
	BytesCounted int64 `json:"bytes_counted"`

	// Elapsed is the time since the scan started.
	Elapsed time.Duration `json:"elapsed"`
}

// ScanResult is the raw output of a scan before finalization: the flat
// per-path entry cache, the recorded directory child lists, and the final
// progress counters.
type ScanResult struct {
	// RootPath is the resolved absolute path that was scanned.
	RootPath string

	// Entries maps each visited absolute path to its resolved entry.
	Entries map[string]*Entry

	// Children maps each listed directory path to its direct children in
	// encounter order.
	Children map[string][]*Entry

	// Stats holds the final counter values.
	Stats ScanStats

	// RunID uniquely identifies this scan invocation.
	RunID string
}

// sizeUnits are the decimal-named, binary-scaled units used for HumanSize.
var sizeUnits = [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatSize converts a byte count to a human-readable string by repeated
// division by 1024, rounding the scaled value to two decimal places.
// Zero (and negative) sizes render as "0 B".
//
// Examples:
//   - FormatSize(0) returns "0 B"
//   - FormatSize(1536) returns "1.5 KB"
//   - FormatSize(1127428915) returns "1.05 GB"
func FormatSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}

	v := float64(size)
	unit := 0
	for v >= 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}
	v = math.Round(v*100) / 100

	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimSuffix(s, "0")
	return s + " " + sizeUnits[unit]
}
