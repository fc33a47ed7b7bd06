package dispatch

import (
	"syscall"
	"time"

	"github.com/strato-fs/strato/node"
	"github.com/strato-fs/strato/wire"
)

// modeFor returns the S_IFxxx bits for a handle kind; combined with an
// entry's permission bits this becomes the wire Attr's Mode field.
func modeFor(kind node.Kind) uint32 {
	if kind == node.KindDirectory {
		return syscall.S_IFDIR
	}
	return syscall.S_IFREG
}

func splitTime(t time.Time) (sec uint64, nsec uint32) {
	if t.IsZero() {
		return 0, 0
	}
	return uint64(t.Unix()), uint32(t.Nanosecond())
}

// attrFromEntry builds the wire Attr for e, whose Handle determines the
// kind bits mixed into Mode.
func attrFromEntry(e node.Entry) wire.Attr {
	kind := node.KindRegularFile
	if e.Handle != nil {
		kind = e.Handle.Kind
	}
	atimeSec, atimeNsec := splitTime(e.Atime)
	mtimeSec, mtimeNsec := splitTime(e.Mtime)
	ctimeSec, ctimeNsec := splitTime(e.Ctime)

	ino := uint64(0)
	if e.Handle != nil {
		ino = e.Handle.Ino
	}

	return wire.Attr{
		Ino:       ino,
		Size:      e.Size,
		Blocks:    e.Blocks,
		Atime:     atimeSec,
		Mtime:     mtimeSec,
		Ctime:     ctimeSec,
		Atimensec: atimeNsec,
		Mtimensec: mtimeNsec,
		Ctimensec: ctimeNsec,
		Mode:      modeFor(kind) | (e.Perm & 0o7777),
		Nlink:     e.Nlink,
		UID:       e.UID,
		GID:       e.GID,
		Rdev:      e.Rdev,
		Blksize:   4096,
	}
}

// ttlParts splits a TTL duration into the EntryOut/AttrOut valid-seconds
// and valid-nanoseconds pair the kernel expects.
func ttlParts(ttl time.Duration) (sec uint64, nsec uint32) {
	if ttl <= 0 {
		return 0, 0
	}
	return uint64(ttl / time.Second), uint32(ttl % time.Second)
}

// entryOutFromEntry builds an EntryOut reply body for e. Generation is
// always 0: inodes are never reused within a mount, so 0 remains correct
// for the lifetime of this engine.
func entryOutFromEntry(e node.Entry) wire.EntryOut {
	sec, nsec := ttlParts(e.TTL)
	nodeID := uint64(0)
	if e.Handle != nil {
		nodeID = e.Handle.Ino
	}
	return wire.EntryOut{
		NodeID:         nodeID,
		Generation:     0,
		EntryValid:     sec,
		AttrValid:      sec,
		EntryValidNsec: nsec,
		AttrValidNsec:  nsec,
		Attr:           attrFromEntry(e),
	}
}

// attrOutFromEntry builds an AttrOut reply body for e.
func attrOutFromEntry(e node.Entry) wire.AttrOut {
	sec, nsec := ttlParts(e.TTL)
	return wire.AttrOut{
		AttrValid:     sec,
		AttrValidNsec: nsec,
		Attr:          attrFromEntry(e),
	}
}

func requestFromHeader(hdr wire.InHeader) node.Request {
	return node.Request{UID: hdr.UID, GID: hdr.GID, PID: hdr.PID, Unique: hdr.Unique}
}
