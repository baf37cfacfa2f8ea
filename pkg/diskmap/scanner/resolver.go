package scanner

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// Hint tells the resolver what kind of entry the caller already knows the
// path to be, letting it skip a stat call or tailor the placeholder.
type Hint int

const (
	// HintUnknown means the path kind must be determined by stat.
	HintUnknown Hint = iota

	// HintFile marks a path already known to resolve to a regular file,
	// skipping the directory check.
	HintFile

	// HintDir marks a path already known to be a directory.
	HintDir
)

// OwnerResolver maps a path and its file info to an owner identity string.
type OwnerResolver interface {
	Owner(path string, info fs.FileInfo) string
}

// resolve returns the cached entry for path, computing it on first use.
// File entries carry size, owner, and timestamps; directory entries carry
// owner and timestamps but stay size-zero placeholders until finalization.
// Every computed entry bumps exactly one tracker counter. Non-directory
// paths are resolved through the symlink, so a link to a file reports the
// target's metadata.
func (s *Scanner) resolve(path string, hint Hint) *types.Entry {
	return s.cache.GetOrCompute(path, func() *types.Entry {
		if hint == HintDir {
			info, err := os.Lstat(path)
			if err != nil {
				// The path changed type or vanished between listing
				// and resolution.
				s.tracker.AddError()
				return errorEntry(path, err)
			}
			s.tracker.AddDir()
			return s.dirEntry(path, info)
		}

		info, err := os.Stat(path)
		if err != nil {
			s.tracker.AddError()
			return errorEntry(path, err)
		}

		if hint == HintUnknown && info.IsDir() {
			s.tracker.AddDir()
			return s.dirEntry(path, info)
		}

		s.tracker.AddFile(info.Size())
		return s.fileEntry(path, info)
	})
}

// fileEntry builds a fully resolved file entry from stat info.
func (s *Scanner) fileEntry(path string, info fs.FileInfo) *types.Entry {
	modified, accessed := formatTimes(info)
	return &types.Entry{
		Name:     entryName(path),
		Path:     path,
		Size:     info.Size(),
		Kind:     types.KindFile,
		Owner:    s.opts.Owner.Owner(path, info),
		Modified: modified,
		Accessed: accessed,
	}
}

// dirEntry builds a directory placeholder with owner and timestamps already
// resolved. Size stays zero until the finalizer aggregates children.
func (s *Scanner) dirEntry(path string, info fs.FileInfo) *types.Entry {
	modified, accessed := formatTimes(info)
	return &types.Entry{
		Name:     entryName(path),
		Path:     path,
		Kind:     types.KindDirectory,
		Owner:    s.opts.Owner.Owner(path, info),
		Modified: modified,
		Accessed: accessed,
	}
}

// errorEntry builds an entry recording a failed resolution or listing.
func errorEntry(path string, err error) *types.Entry {
	return &types.Entry{
		Name:        entryName(path),
		Path:        path,
		Kind:        types.KindError,
		ErrorDetail: err.Error(),
	}
}

// entryName returns the display name for a path. Roots like "/" or "."
// resolve to themselves rather than an empty base.
func entryName(path string) string {
	name := filepath.Base(path)
	if name == "" {
		return path
	}
	return name
}

// formatTimes renders modification and access times in the artifact's
// timestamp layout, falling back to Unknown when unavailable.
func formatTimes(info fs.FileInfo) (modified, accessed string) {
	modified = types.Unknown
	accessed = types.Unknown

	if !info.ModTime().IsZero() {
		modified = info.ModTime().Local().Format(types.TimeLayout)
	}
	if at, ok := accessTime(info); ok {
		accessed = at.Local().Format(types.TimeLayout)
	}
	return modified, accessed
}
