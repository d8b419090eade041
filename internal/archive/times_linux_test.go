package archive

import (
	"io/fs"
	"syscall"
	"time"
)

// accessTime returns the last access time recorded by the file system.
func accessTime(info fs.FileInfo) (time.Time, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}

	return time.Unix(stat.Atim.Unix()), true
}
