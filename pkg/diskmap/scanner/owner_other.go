//go:build !unix

package scanner

import (
	"io/fs"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// defaultOwnerResolver is a stub for platforms without uid-based ownership.
type defaultOwnerResolver struct{}

func (defaultOwnerResolver) Owner(_ string, _ fs.FileInfo) string {
	return types.Unknown
}
