package dispatch

import (
	"syscall"

	"github.com/strato-fs/strato/ferrors"
	"github.com/strato-fs/strato/node"
	"github.com/strato-fs/strato/wire"
)

// dispatch resolves req against the registry and invokes the matching
// handler method, returning the reply to send. A nil return means the
// request was handed off to the async read worker pool (see read.go),
// which will reply itself once the future completes.
func (e *Engine) dispatch(req *wire.Request) *wire.Response {
	hdr := req.Header

	switch op := req.Op.(type) {
	case wire.InitOp:
		return emptyReply(hdr.Unique)
	case wire.DestroyOp:
		return emptyReply(hdr.Unique)

	case wire.GetAttrOp:
		h, errno := e.lookup(hdr.NodeID)
		if errno != 0 {
			return errReply(hdr.Unique, errno)
		}
		h.Lock()
		entry, err := h.Node().ReadAttributes(requestFromHeader(hdr), node.NewEntry("", h))
		h.Unlock()
		if err != nil {
			return errReply(hdr.Unique, ferrors.Errno(err))
		}
		return &wire.Response{Unique: hdr.Unique, Body: wire.AttrBody{Attr: attrOutFromEntry(entry)}}

	case wire.LookupOp:
		h, errno := e.lookup(hdr.NodeID)
		if errno != 0 {
			return errReply(hdr.Unique, errno)
		}
		dir, ok := h.AsDirectory()
		if !ok {
			return errReply(hdr.Unique, syscall.ENOTDIR)
		}
		h.Lock()
		entry, err := dir.Lookup(requestFromHeader(hdr), op.Name)
		h.Unlock()
		if err != nil {
			return errReply(hdr.Unique, ferrors.Errno(err))
		}
		return &wire.Response{Unique: hdr.Unique, Body: wire.EntryBody{Entry: entryOutFromEntry(entry)}}

	case wire.ReadDirOp:
		h, errno := e.lookup(hdr.NodeID)
		if errno != 0 {
			return errReply(hdr.Unique, errno)
		}
		dir, ok := h.AsDirectory()
		if !ok {
			return errReply(hdr.Unique, syscall.ENOTDIR)
		}
		h.Lock()
		entries, err := dir.Readdir(requestFromHeader(hdr))
		h.Unlock()
		if err != nil {
			return errReply(hdr.Unique, ferrors.Errno(err))
		}
		return &wire.Response{Unique: hdr.Unique, Body: wire.ReadDirBody{Entries: packReaddir(entries, op.In.Offset, op.In.Size)}}

	case wire.OpenOp:
		h, errno := e.lookup(hdr.NodeID)
		if errno != 0 {
			return errReply(hdr.Unique, errno)
		}
		if _, ok := h.AsRegularFile(); !ok {
			return errReply(hdr.Unique, syscall.EISDIR)
		}
		return &wire.Response{Unique: hdr.Unique, Body: wire.OpenBody{Open: wire.OpenOut{Fh: 0}}}

	case wire.OpenDirOp:
		h, errno := e.lookup(hdr.NodeID)
		if errno != 0 {
			return errReply(hdr.Unique, errno)
		}
		if _, ok := h.AsDirectory(); !ok {
			return errReply(hdr.Unique, syscall.ENOTDIR)
		}
		return &wire.Response{Unique: hdr.Unique, Body: wire.OpenBody{Open: wire.OpenOut{Fh: 0}}}

	case wire.ReadOp:
		h, errno := e.lookup(hdr.NodeID)
		if errno != 0 {
			return errReply(hdr.Unique, errno)
		}
		f, ok := h.AsRegularFile()
		if !ok {
			return errReply(hdr.Unique, syscall.EISDIR)
		}
		e.enqueueRead(readJob{
			unique: hdr.Unique,
			req:    requestFromHeader(hdr),
			file:   f,
			offset: op.In.Offset,
			size:   op.In.Size,
		})
		return nil

	case wire.ReleaseOp, wire.FlushOp, wire.FSyncOp,
		wire.ReleaseDirOp, wire.FSyncDirOp:
		// No per-handle state is kept beyond the node objects themselves,
		// so these are acknowledged unconditionally.
		return emptyReply(hdr.Unique)

	default:
		// Every opcode the decoder recognizes but this handler surface
		// doesn't implement a capability for falls back to NotImplemented,
		// which translates to EPERM.
		return errReply(hdr.Unique, ferrors.NotImplemented.Errno())
	}
}

// dispatchForget handles FORGET, which never receives a reply. This core
// does not track per-inode reference counts or evict nodes; FORGET is
// accepted and otherwise ignored.
func (e *Engine) dispatchForget(req *wire.Request) {}

func (e *Engine) lookup(ino uint64) (*node.Handle, syscall.Errno) {
	h, ok := e.reg.Get(ino)
	if !ok {
		return nil, syscall.ENOENT
	}
	return h, 0
}

func emptyReply(unique uint64) *wire.Response {
	return &wire.Response{Unique: unique, Body: wire.EmptyBody{}}
}

func errReply(unique uint64, errno syscall.Errno) *wire.Response {
	return &wire.Response{Unique: unique, Errno: int32(errno)}
}

// packReaddir paginates entries: offset 0 starts from the beginning; offset
// k>0 resumes after the entry the kernel last saw (whose own Offset field
// was k). Entries are appended to the reply only
// while they fit within size; once the next entry would overflow it, the
// engine stops, leaving the kernel to ask again with an updated offset.
func packReaddir(entries []node.Entry, offset uint64, size uint32) []wire.DirEntry {
	start := int(offset)
	if start > len(entries) {
		start = len(entries)
	}

	var packed []wire.DirEntry
	used := 0
	for i := start; i < len(entries); i++ {
		en := entries[i]
		kind := node.KindRegularFile
		var ino uint64
		if en.Handle != nil {
			kind = en.Handle.Kind
			ino = en.Handle.Ino
		}
		need := wire.DirentSize(en.Name)
		if size > 0 && used+need > int(size) {
			break
		}
		packed = append(packed, wire.DirEntry{
			Ino:    ino,
			Offset: int64(i + 1),
			Type:   node.FileType(kind),
			Name:   en.Name,
		})
		used += need
	}
	return packed
}
