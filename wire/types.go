// Package wire contains the fixed-layout structures and opcode constants
// used on the FUSE wire protocol. Struct field order and width mirror the
// kernel ABI exactly; byte order is host-native, since FUSE is never used
// across hosts of differing endianness.
package wire

// Opcode identifies the kind of request the kernel is sending.
type Opcode uint32

const (
	OpLookup      Opcode = 1
	OpForget      Opcode = 2 // no reply
	OpGetAttr     Opcode = 3
	OpSetAttr     Opcode = 4
	OpReadLink    Opcode = 5
	OpSymlink     Opcode = 6
	OpMknod       Opcode = 8
	OpMkdir       Opcode = 9
	OpUnlink      Opcode = 10
	OpRmdir       Opcode = 11
	OpRename      Opcode = 12
	OpLink        Opcode = 13
	OpOpen        Opcode = 14
	OpRead        Opcode = 15
	OpWrite       Opcode = 16
	OpStatfs      Opcode = 17
	OpRelease     Opcode = 18
	OpFsync       Opcode = 20
	OpSetxattr    Opcode = 21
	OpGetxattr    Opcode = 22
	OpListxattr   Opcode = 23
	OpRemovexattr Opcode = 24
	OpFlush       Opcode = 25
	OpInit        Opcode = 26
	OpOpendir     Opcode = 27
	OpReaddir     Opcode = 28
	OpReleasedir  Opcode = 29
	OpFsyncdir    Opcode = 30
	OpGetlk       Opcode = 31
	OpSetlk       Opcode = 32
	OpSetlkw      Opcode = 33
	OpAccess      Opcode = 34
	OpCreate      Opcode = 35
	OpInterrupt   Opcode = 36
	OpBmap        Opcode = 37
	OpDestroy     Opcode = 38

	// macOS-only opcodes. Never recognized by the decoder on other
	// platforms; see decode_darwin.go / decode_other.go.
	OpSetvolname Opcode = 61
	OpGetxtimes  Opcode = 62
	OpExchange   Opcode = 63
)

var opcodeNames = map[Opcode]string{
	OpLookup: "LOOKUP", OpForget: "FORGET", OpGetAttr: "GETATTR",
	OpSetAttr: "SETATTR", OpReadLink: "READLINK", OpSymlink: "SYMLINK",
	OpMknod: "MKNOD", OpMkdir: "MKDIR", OpUnlink: "UNLINK", OpRmdir: "RMDIR",
	OpRename: "RENAME", OpLink: "LINK", OpOpen: "OPEN", OpRead: "READ",
	OpWrite: "WRITE", OpStatfs: "STATFS", OpRelease: "RELEASE",
	OpFsync: "FSYNC", OpSetxattr: "SETXATTR", OpGetxattr: "GETXATTR",
	OpListxattr: "LISTXATTR", OpRemovexattr: "REMOVEXATTR", OpFlush: "FLUSH",
	OpInit: "INIT", OpOpendir: "OPENDIR", OpReaddir: "READDIR",
	OpReleasedir: "RELEASEDIR", OpFsyncdir: "FSYNCDIR", OpGetlk: "GETLK",
	OpSetlk: "SETLK", OpSetlkw: "SETLKW", OpAccess: "ACCESS",
	OpCreate: "CREATE", OpInterrupt: "INTERRUPT", OpBmap: "BMAP",
	OpDestroy: "DESTROY", OpSetvolname: "SETVOLNAME",
	OpGetxtimes: "GETXTIMES", OpExchange: "EXCHANGE",
}

func (o Opcode) String() string {
	if n, ok := opcodeNames[o]; ok {
		return n
	}
	return "UNKNOWN"
}

// InHeader precedes every request body. Corresponds to fuse_in_header.
type InHeader struct {
	Len    uint32
	Opcode Opcode
	Unique uint64
	NodeID uint64
	UID    uint32
	GID    uint32
	PID    uint32
	_      uint32 // padding
}

// OutHeader precedes every reply body. Corresponds to fuse_out_header.
type OutHeader struct {
	Len    uint32
	Error  int32
	Unique uint64
}

// Attr mirrors the kernel's struct fuse_attr.
type Attr struct {
	Ino       uint64
	Size      uint64
	Blocks    uint64
	Atime     uint64
	Mtime     uint64
	Ctime     uint64
	Atimensec uint32
	Mtimensec uint32
	Ctimensec uint32
	Mode      uint32
	Nlink     uint32
	UID       uint32
	GID       uint32
	Rdev      uint32
	Blksize   uint32
	_         uint32 // padding
}

type EntryOut struct {
	NodeID         uint64
	Generation     uint64
	EntryValid     uint64
	AttrValid      uint64
	EntryValidNsec uint32
	AttrValidNsec  uint32
	Attr           Attr
}

type OpenOut struct {
	Fh        uint64
	OpenFlags uint32
	_         uint32
}

type AttrOut struct {
	AttrValid     uint64
	AttrValidNsec uint32
	_             uint32
	Attr          Attr
}

type StatfsOut struct {
	Blocks  uint64
	Bfree   uint64
	Bavail  uint64
	Files   uint64
	Ffree   uint64
	Bsize   uint32
	Namelen uint32
	Frsize  uint32
	_       uint32
	Spare   [6]uint32
}

// Dirent is the fixed header of one packed directory entry, as laid out by
// the response encoder's ReadDir body. Ino, Off, Namelen and Typ occupy the
// first 24 bytes of every entry; the entry's name follows immediately,
// padded with zero bytes to a multiple of 8.
type Dirent struct {
	Ino     uint64
	Off     uint64
	Namelen uint32
	Typ     uint32
}

type WriteOut struct {
	Size uint32
	_    uint32
}

type BmapOut struct {
	Block uint64
}

type FileLock struct {
	Start uint64
	End   uint64
	Typ   uint32
	PID   uint32
}

type LkOut struct {
	Lock FileLock
}

type GetxattrOut struct {
	Size uint32
	_    uint32
}

// InitIn is the negotiation request sent once, at mount time.
type InitIn struct {
	Major        uint32
	Minor        uint32
	MaxReadAhead uint32
	Flags        uint32
}

type InitOut struct {
	Major               uint32
	Minor               uint32
	MaxReadAhead        uint32
	Flags               uint32
	MaxBackground       uint16
	CongestionThreshold uint16
	MaxWrite            uint32
}

type ForgetIn struct {
	Nlookup uint64
}

const (
	FattrMode  = 1 << 0
	FattrUID   = 1 << 1
	FattrGID   = 1 << 2
	FattrSize  = 1 << 3
	FattrAtime = 1 << 4
	FattrMtime = 1 << 5
	FattrFh    = 1 << 6
)

type SetAttrIn struct {
	Valid     uint32
	_         uint32
	Fh        uint64
	Size      uint64
	LockOwner uint64
	Atime     uint64
	Mtime     uint64
	Ctime     uint64
	Atimensec uint32
	Mtimensec uint32
	Ctimensec uint32
	Mode      uint32
	_         uint32
	UID       uint32
	GID       uint32
	_         uint32
}

type MknodIn struct {
	Mode  uint32
	Rdev  uint32
	Umask uint32
	_     uint32
}

type OpenIn struct {
	Flags uint32
	_     uint32
}

type ReadIn struct {
	Fh        uint64
	Offset    uint64
	Size      uint32
	ReadFlags uint32
	LockOwner uint64
	Flags     uint32
	_         uint32
}

type WriteIn struct {
	Fh         uint64
	Offset     uint64
	Size       uint32
	WriteFlags uint32
	LockOwner  uint64
	Flags      uint32
	_          uint32
}

type FlushIn struct {
	Fh        uint64
	_         uint32
	_         uint32
	LockOwner uint64
}

type ReleaseIn struct {
	Fh           uint64
	Flags        uint32
	ReleaseFlags uint32
	LockOwner    uint64
}

type FsyncIn struct {
	Fh         uint64
	FsyncFlags uint32
	_          uint32
}

type SetxattrIn struct {
	Size  uint32
	Flags uint32
}

type GetxattrIn struct {
	Size uint32
	_    uint32
}

type AccessIn struct {
	Mask uint32
	_    uint32
}

type CreateIn struct {
	Flags uint32
	Mode  uint32
	Umask uint32
	_     uint32
}

type LkIn struct {
	Fh      uint64
	Owner   uint64
	Lock    FileLock
	LkFlags uint32
	_       uint32
}

type BmapIn struct {
	Block     uint64
	Blocksize uint32
	_         uint32
}

type RenameIn struct {
	Newdir uint64
}

type LinkIn struct {
	OldNodeID uint64
}

// ExchangeIn backs the macOS-only EXCHANGE opcode.
type ExchangeIn struct {
	OldDir  uint64
	NewDir  uint64
	Options uint64
}
