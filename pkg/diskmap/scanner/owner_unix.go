//go:build unix

package scanner

import (
	"io/fs"
	"os/user"
	"strconv"
	"syscall"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// defaultOwnerResolver resolves file ownership from the underlying stat
// structure, mapping the uid to a username when the lookup succeeds.
type defaultOwnerResolver struct{}

func (defaultOwnerResolver) Owner(_ string, info fs.FileInfo) string {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return types.Unknown
	}

	uid := strconv.FormatUint(uint64(stat.Uid), 10)
	u, err := user.LookupId(uid)
	if err != nil {
		// Orphaned uids still identify an owner.
		return uid
	}
	return u.Username
}
