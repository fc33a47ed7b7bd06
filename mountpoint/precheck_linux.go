package mountpoint

import (
	"fmt"

	"github.com/moby/sys/mountinfo"
)

// Precheck reports whether path is already a mountpoint (possibly a stale
// one left behind by a crashed previous run). It does not check the
// filesystem type: a mount of any kind at path counts. Engine.Mount calls this
// before spawning fusermount, and unmounts first if so, so a wedged
// mountpoint does not block a fresh mount.
func Precheck(path string) (stale bool, err error) {
	mounted, err := mountinfo.Mounted(path)
	if err != nil {
		return false, fmt.Errorf("mountpoint: precheck %s: %w", path, err)
	}
	return mounted, nil
}
