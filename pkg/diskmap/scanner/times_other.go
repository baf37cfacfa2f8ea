//go:build !linux && !darwin

package scanner

import (
	"io/fs"
	"time"
)

// accessTime is unavailable on platforms without a known stat layout.
func accessTime(_ fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
