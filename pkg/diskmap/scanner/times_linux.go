//go:build linux

package scanner

import (
	"io/fs"
	"syscall"
	"time"
)

// accessTime extracts the access timestamp from the platform stat structure.
func accessTime(info fs.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(stat.Atim.Sec, stat.Atim.Nsec), true
}
