// Package mountpoint owns everything about getting a /dev/fuse file
// descriptor bound to a directory and giving it back: invoking the
// fusermount helper to obtain the descriptor via its socketpair handshake,
// checking whether a prior crashed run left the path wedged as a stale
// mount, and shelling out to unmount it. None of this is FUSE protocol; it
// is OS plumbing the dispatch engine depends on but does not want to own.
package mountpoint

import (
	"fmt"
	"time"
)

// Options is a plain struct of mount-time knobs: no flag or env parsing,
// since command-line programs are expected to build one themselves.
type Options struct {
	// FsName and Name become the "fsname="/"subtype=" mount options
	// reported to tools like `mount` and `df`.
	FsName string
	Name   string

	// AllowOther sets the allow_other mount option, letting users other
	// than the mounting user access the filesystem.
	AllowOther bool

	// Debug is carried in Options; the dispatch engine does not read it.
	Debug bool

	// MaxWrite sizes the engine's buffer for reading one kernel request
	// (plus a page of headroom). Zero selects the engine's default. It is
	// not passed to the kernel as a mount option.
	MaxWrite uint32

	// MaxBackground is carried in Options; nothing in this module reads it.
	MaxBackground uint16
}

func (o Options) optionString() string {
	opts := "fsname=" + orDefault(o.FsName, "strato")
	if o.Name != "" {
		opts += ",subtype=" + o.Name
	}
	if o.AllowOther {
		opts += ",allow_other"
	}
	return opts
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Mount obtains a /dev/fuse file descriptor bound to path by invoking the
// fusermount helper, exactly as the kernel intends for unprivileged mounts.
// The returned fd is ready for Read/Write of framed FUSE requests/replies.
func Mount(path string, opts Options) (int, error) {
	return mount(path, opts.optionString())
}

// Unmount drives `fusermount -u path` (or `umount` when running as root):
// unmounting is handled externally via that utility, not a syscall. The
// dispatch engine calls this from Engine.Close; it is also useful standalone
// for a crashed process's leftover mount.
func Unmount(path string) error {
	var err error
	delay := time.Duration(0)
	for try := 0; try < 5; try++ {
		err = unmount(path)
		if err == nil {
			return nil
		}
		delay = 2*delay + 5*time.Millisecond
		time.Sleep(delay)
	}
	return fmt.Errorf("mountpoint: unmount %s: %w", path, err)
}
