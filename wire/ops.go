package wire

// Op is implemented by every decoded request body variant: callers
// type-switch on the concrete type to recover the payload. Opcode is
// exported, so other packages can implement Op too; Decode only ever
// produces the variants below.
type Op interface {
	Opcode() Opcode
}

// No-body ops.

type DestroyOp struct{}

func (DestroyOp) Opcode() Opcode { return OpDestroy }

type GetAttrOp struct{}

func (GetAttrOp) Opcode() Opcode { return OpGetAttr }

type ReadLinkOp struct{}

func (ReadLinkOp) Opcode() Opcode { return OpReadLink }

type StatFSOp struct{}

func (StatFSOp) Opcode() Opcode { return OpStatfs }

// GetXTimesOp is macOS-only; see decode_darwin.go.
type GetXTimesOp struct{}

func (GetXTimesOp) Opcode() Opcode { return OpGetxtimes }

// Fixed-struct ops.

type InitOp struct{ In InitIn }

func (InitOp) Opcode() Opcode { return OpInit }

type ForgetOp struct{ In ForgetIn }

func (ForgetOp) Opcode() Opcode { return OpForget }

type SetAttrOp struct{ In SetAttrIn }

func (SetAttrOp) Opcode() Opcode { return OpSetAttr }

type MkNodOp struct {
	In   MknodIn
	Name string
}

func (MkNodOp) Opcode() Opcode { return OpMknod }

type OpenOp struct{ In OpenIn }

func (OpenOp) Opcode() Opcode { return OpOpen }

type ReadOp struct{ In ReadIn }

func (ReadOp) Opcode() Opcode { return OpRead }

type FlushOp struct{ In FlushIn }

func (FlushOp) Opcode() Opcode { return OpFlush }

type ReleaseOp struct{ In ReleaseIn }

func (ReleaseOp) Opcode() Opcode { return OpRelease }

type FSyncOp struct{ In FsyncIn }

func (FSyncOp) Opcode() Opcode { return OpFsync }

type OpenDirOp struct{ In OpenIn }

func (OpenDirOp) Opcode() Opcode { return OpOpendir }

type ReadDirOp struct{ In ReadIn }

func (ReadDirOp) Opcode() Opcode { return OpReaddir }

type ReleaseDirOp struct{ In ReleaseIn }

func (ReleaseDirOp) Opcode() Opcode { return OpReleasedir }

type FSyncDirOp struct{ In FsyncIn }

func (FSyncDirOp) Opcode() Opcode { return OpFsyncdir }

type SetXAttrOp struct {
	In    SetxattrIn
	Name  string
	Value []byte
}

func (SetXAttrOp) Opcode() Opcode { return OpSetxattr }

type GetXAttrOp struct {
	In   GetxattrIn
	Name string
}

func (GetXAttrOp) Opcode() Opcode { return OpGetxattr }

type ListXAttrOp struct{ In GetxattrIn }

func (ListXAttrOp) Opcode() Opcode { return OpListxattr }

type AccessOp struct{ In AccessIn }

func (AccessOp) Opcode() Opcode { return OpAccess }

type CreateOp struct {
	In   CreateIn
	Name string
}

func (CreateOp) Opcode() Opcode { return OpCreate }

type GetLockOp struct{ In LkIn }

func (GetLockOp) Opcode() Opcode { return OpGetlk }

// SetLockOp covers both SETLK and SETLKW; Wait distinguishes them.
type SetLockOp struct {
	In   LkIn
	Wait bool
}

func (o SetLockOp) Opcode() Opcode {
	if o.Wait {
		return OpSetlkw
	}
	return OpSetlk
}

type BmapOp struct{ In BmapIn }

func (BmapOp) Opcode() Opcode { return OpBmap }

// Name-only ops.

type LookupOp struct{ Name string }

func (LookupOp) Opcode() Opcode { return OpLookup }

type MkDirOp struct{ Name string }

func (MkDirOp) Opcode() Opcode { return OpMkdir }

type UnlinkOp struct{ Name string }

func (UnlinkOp) Opcode() Opcode { return OpUnlink }

type RmDirOp struct{ Name string }

func (RmDirOp) Opcode() Opcode { return OpRmdir }

type RemoveXAttrOp struct{ Name string }

func (RemoveXAttrOp) Opcode() Opcode { return OpRemovexattr }

// SetVolumeNameOp is macOS-only; see decode_darwin.go.
type SetVolumeNameOp struct{ Name string }

func (SetVolumeNameOp) Opcode() Opcode { return OpSetvolname }

// Name + path.

type SymlinkOp struct {
	Name   string
	Target string
}

func (SymlinkOp) Opcode() Opcode { return OpSymlink }

// Fixed-struct + two names.

type RenameOp struct {
	In      RenameIn
	OldName string
	NewName string
}

func (RenameOp) Opcode() Opcode { return OpRename }

// ExchangeOp is macOS-only; see decode_darwin.go.
type ExchangeOp struct {
	In      ExchangeIn
	OldName string
	NewName string
}

func (ExchangeOp) Opcode() Opcode { return OpExchange }

// Fixed-struct + one name.

type LinkOp struct {
	In   LinkIn
	Name string
}

func (LinkOp) Opcode() Opcode { return OpLink }

// Fixed-struct + trailing data buffer.

type WriteOp struct {
	In   WriteIn
	Data []byte
}

func (WriteOp) Opcode() Opcode { return OpWrite }
