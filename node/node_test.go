package node

import (
	"testing"
	"time"
)

type stubDir struct{ initCalled bool }

func (s *stubDir) Init(Controller)                             { s.initCalled = true }
func (s *stubDir) ReadAttributes(Request, Entry) (Entry, error) { return Entry{}, nil }
func (s *stubDir) Lookup(Request, string) (Entry, error)        { return Entry{}, nil }
func (s *stubDir) Readdir(Request) ([]Entry, error)             { return nil, nil }

type stubFile struct{}

func (stubFile) Init(Controller)                             {}
func (stubFile) ReadAttributes(Request, Entry) (Entry, error) { return Entry{}, nil }
func (stubFile) Read(Request) ([]byte, error)                 { return []byte("hi"), nil }

func TestNewEntryDefaults(t *testing.T) {
	h := NewDirectoryHandle(1, &stubDir{})
	e := NewEntry("dir", h)

	if e.Perm != 0o744 {
		t.Errorf("Perm = %o, want 0744", e.Perm)
	}
	if e.Nlink != 1 {
		t.Errorf("Nlink = %d, want 1", e.Nlink)
	}
	if e.Blocks != 1 {
		t.Errorf("Blocks = %d, want 1", e.Blocks)
	}
	if e.TTL != time.Second {
		t.Errorf("TTL = %v, want 1s", e.TTL)
	}
	if !e.Atime.IsZero() || !e.Mtime.IsZero() || !e.Ctime.IsZero() {
		t.Errorf("expected epoch-zero timestamps by default")
	}
}

func TestEntryBuilderSetters(t *testing.T) {
	now := time.Unix(1000, 0)
	e := NewEntry("f", nil).WithSize(42).WithPerm(0o600).WithTimes(now).WithOwner(7, 8).WithTTL(5 * time.Second)

	if e.Size != 42 || e.Perm != 0o600 || e.UID != 7 || e.GID != 8 || e.TTL != 5*time.Second {
		t.Fatalf("unexpected entry after builder chain: %+v", e)
	}
	if !e.Atime.Equal(now) || !e.Mtime.Equal(now) || !e.Ctime.Equal(now) {
		t.Fatalf("WithTimes did not set all three timestamps")
	}
}

func TestHandleKindDispatch(t *testing.T) {
	dh := NewDirectoryHandle(2, &stubDir{})
	if _, ok := dh.AsRegularFile(); ok {
		t.Fatalf("AsRegularFile on a directory handle unexpectedly succeeded")
	}
	d, ok := dh.AsDirectory()
	if !ok || d == nil {
		t.Fatalf("AsDirectory on a directory handle failed")
	}

	fh := NewRegularFileHandle(3, stubFile{})
	if _, ok := fh.AsDirectory(); ok {
		t.Fatalf("AsDirectory on a file handle unexpectedly succeeded")
	}
	f, ok := fh.AsRegularFile()
	if !ok || f == nil {
		t.Fatalf("AsRegularFile on a file handle failed")
	}
}

func TestHandleEqualByInode(t *testing.T) {
	a := NewDirectoryHandle(9, &stubDir{})
	b := NewRegularFileHandle(9, stubFile{})
	c := NewDirectoryHandle(10, &stubDir{})

	if !a.Equal(b) {
		t.Errorf("handles with the same inode should be Equal regardless of kind")
	}
	if a.Equal(c) {
		t.Errorf("handles with different inodes should not be Equal")
	}
}

func TestFileType(t *testing.T) {
	if got := FileType(KindDirectory); got != 4 {
		t.Errorf("FileType(KindDirectory) = %d, want 4", got)
	}
	if got := FileType(KindRegularFile); got != 8 {
		t.Errorf("FileType(KindRegularFile) = %d, want 8", got)
	}
}
