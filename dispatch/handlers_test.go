package dispatch

import (
	"syscall"
	"testing"

	"github.com/strato-fs/strato/controller"
	"github.com/strato-fs/strato/ferrors"
	"github.com/strato-fs/strato/node"
	"github.com/strato-fs/strato/registry"
	"github.com/strato-fs/strato/wire"
)

type testFile struct {
	data []byte
	err  error
}

func (f *testFile) Init(node.Controller) {}
func (f *testFile) ReadAttributes(req node.Request, seed node.Entry) (node.Entry, error) {
	return seed.WithSize(uint64(len(f.data))), nil
}
func (f *testFile) Read(node.Request) ([]byte, error) { return f.data, f.err }

type testDir struct {
	entries []node.Entry
	lookErr error
}

func (d *testDir) Init(node.Controller) {}
func (d *testDir) ReadAttributes(req node.Request, seed node.Entry) (node.Entry, error) {
	return seed, nil
}
func (d *testDir) Lookup(req node.Request, name string) (node.Entry, error) {
	if d.lookErr != nil {
		return node.Entry{}, d.lookErr
	}
	for _, e := range d.entries {
		if e.Name == name {
			return e, nil
		}
	}
	return node.Entry{}, ferrors.NoSuchEntry
}
func (d *testDir) Readdir(node.Request) ([]node.Entry, error) { return d.entries, nil }

// newTestEngine builds an Engine with a live registry/generator but no
// kernel channel, suitable for exercising dispatch() directly.
func newTestEngine(root node.Directory) (*Engine, *node.Handle) {
	reg := registry.New[*node.Handle]()
	gen := registry.NewGenerator()
	rootIno := gen.Generate()
	rootHandle := node.NewDirectoryHandle(rootIno, root)
	reg.Insert(rootIno, rootHandle)
	root.Init(controller.New(reg, gen, rootHandle))

	return &Engine{reg: reg, gen: gen, root: rootHandle}, rootHandle
}

func TestDispatchLookupSuccessAndMiss(t *testing.T) {
	fileHandle := node.NewRegularFileHandle(99, &testFile{data: []byte("hi")})
	dir := &testDir{entries: []node.Entry{node.NewEntry("a.txt", fileHandle).WithSize(2)}}
	e, root := newTestEngine(dir)
	e.reg.Insert(fileHandle.Ino, fileHandle)

	req := &wire.Request{
		Header: wire.InHeader{Unique: 1, NodeID: root.Ino},
		Op:     wire.LookupOp{Name: "a.txt"},
	}
	resp := e.dispatch(req)
	if resp.Errno != 0 {
		t.Fatalf("unexpected errno %d", resp.Errno)
	}
	body, ok := resp.Body.(wire.EntryBody)
	if !ok {
		t.Fatalf("body = %T, want wire.EntryBody", resp.Body)
	}
	if body.Entry.NodeID != fileHandle.Ino {
		t.Fatalf("entry NodeID = %d, want %d", body.Entry.NodeID, fileHandle.Ino)
	}

	miss := e.dispatch(&wire.Request{
		Header: wire.InHeader{Unique: 2, NodeID: root.Ino},
		Op:     wire.LookupOp{Name: "nope"},
	})
	if syscall.Errno(miss.Errno) != syscall.ENOENT {
		t.Fatalf("lookup miss errno = %v, want ENOENT", syscall.Errno(miss.Errno))
	}
}

func TestDispatchLookupOnFileIsNotDir(t *testing.T) {
	fileHandle := node.NewRegularFileHandle(5, &testFile{})
	e, _ := newTestEngine(&testDir{})
	e.reg.Insert(fileHandle.Ino, fileHandle)

	resp := e.dispatch(&wire.Request{
		Header: wire.InHeader{Unique: 1, NodeID: fileHandle.Ino},
		Op:     wire.LookupOp{Name: "x"},
	})
	if syscall.Errno(resp.Errno) != syscall.ENOTDIR {
		t.Fatalf("errno = %v, want ENOTDIR", syscall.Errno(resp.Errno))
	}
}

func TestDispatchReadOnDirectoryIsDirectory(t *testing.T) {
	e, root := newTestEngine(&testDir{})

	resp := e.dispatch(&wire.Request{
		Header: wire.InHeader{Unique: 1, NodeID: root.Ino},
		Op:     wire.ReadOp{In: wire.ReadIn{Size: 10}},
	})
	if resp == nil {
		t.Fatalf("expected an immediate error reply, got nil (async handoff)")
	}
	if syscall.Errno(resp.Errno) != syscall.EISDIR {
		t.Fatalf("errno = %v, want EISDIR", syscall.Errno(resp.Errno))
	}
}

func TestDispatchReaddirOnFileIsNotDir(t *testing.T) {
	fileHandle := node.NewRegularFileHandle(7, &testFile{})
	e, _ := newTestEngine(&testDir{})
	e.reg.Insert(fileHandle.Ino, fileHandle)

	resp := e.dispatch(&wire.Request{
		Header: wire.InHeader{Unique: 1, NodeID: fileHandle.Ino},
		Op:     wire.ReadDirOp{In: wire.ReadIn{}},
	})
	if syscall.Errno(resp.Errno) != syscall.ENOTDIR {
		t.Fatalf("errno = %v, want ENOTDIR", syscall.Errno(resp.Errno))
	}
}

func TestDispatchGetAttrUnknownInode(t *testing.T) {
	e, _ := newTestEngine(&testDir{})

	resp := e.dispatch(&wire.Request{
		Header: wire.InHeader{Unique: 1, NodeID: 404},
		Op:     wire.GetAttrOp{},
	})
	if syscall.Errno(resp.Errno) != syscall.ENOENT {
		t.Fatalf("errno = %v, want ENOENT", syscall.Errno(resp.Errno))
	}
}

func TestDispatchUnimplementedOpcodeIsEPERM(t *testing.T) {
	e, root := newTestEngine(&testDir{})

	resp := e.dispatch(&wire.Request{
		Header: wire.InHeader{Unique: 1, NodeID: root.Ino},
		Op:     wire.AccessOp{},
	})
	if syscall.Errno(resp.Errno) != syscall.EPERM {
		t.Fatalf("errno = %v, want EPERM", syscall.Errno(resp.Errno))
	}
}

func TestDispatchHandlerErrorTranslatesErrno(t *testing.T) {
	dir := &testDir{lookErr: ferrors.PermissionDenied}
	e, _ := newTestEngine(dir)

	resp := e.dispatch(&wire.Request{
		Header: wire.InHeader{Unique: 1, NodeID: e.root.Ino},
		Op:     wire.LookupOp{Name: "x"},
	})
	if syscall.Errno(resp.Errno) != syscall.EACCES {
		t.Fatalf("errno = %v, want EACCES", syscall.Errno(resp.Errno))
	}
}

func TestPackReaddirPaginatesByOffsetAndSize(t *testing.T) {
	dirHandle := node.NewDirectoryHandle(1, &testDir{})
	fileHandle := node.NewRegularFileHandle(2, &testFile{})
	entries := []node.Entry{
		node.NewEntry("test_dir", dirHandle),
		node.NewEntry("test_file", fileHandle),
	}

	all := packReaddir(entries, 0, 4096)
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
	if all[0].Offset != 1 || all[1].Offset != 2 {
		t.Fatalf("offsets = %d,%d, want 1,2", all[0].Offset, all[1].Offset)
	}

	resumed := packReaddir(entries, 1, 4096)
	if len(resumed) != 1 || resumed[0].Name != "test_file" {
		t.Fatalf("resumed from offset 1 = %+v, want just test_file", resumed)
	}

	tiny := packReaddir(entries, 0, uint32(wire.DirentSize("test_dir")))
	if len(tiny) != 1 {
		t.Fatalf("buffer-full pagination returned %d entries, want 1", len(tiny))
	}
}

func TestSliceReadTruncatesAndOffsets(t *testing.T) {
	data := []byte("Hello World\n")

	if got := string(sliceRead(data, 0, 5)); got != "Hello" {
		t.Fatalf("sliceRead(0,5) = %q, want Hello", got)
	}
	if got := string(sliceRead(data, 6, 100)); got != "World\n" {
		t.Fatalf("sliceRead(6,100) = %q, want World\\n", got)
	}
	if got := sliceRead(data, uint64(len(data)), 10); got != nil {
		t.Fatalf("sliceRead at EOF = %v, want nil", got)
	}
}
