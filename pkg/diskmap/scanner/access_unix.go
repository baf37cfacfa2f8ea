//go:build unix

package scanner

import "golang.org/x/sys/unix"

// readable reports whether the path can be read by the current process.
func readable(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}
