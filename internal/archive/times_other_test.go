//go:build !linux

package archive

import (
	"io/fs"
	"time"
)

// accessTime is not read outside Linux, the stat layouts differ.
func accessTime(fs.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
