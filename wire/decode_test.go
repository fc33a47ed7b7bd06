package wire

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func rawRequest(t *testing.T, hdr InHeader, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, hdr); err != nil {
		t.Fatalf("building header: %v", err)
	}
	buf.Write(body)
	return buf.Bytes()
}

func TestDecodeNameOnly(t *testing.T) {
	hdr := InHeader{Opcode: OpLookup, Unique: 7, NodeID: 1, UID: 10, GID: 10, PID: 99}
	buf := rawRequest(t, hdr, append([]byte("hello.txt"), 0))

	req, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := pretty.Compare(req.Header, hdr); diff != "" {
		t.Fatalf("header mismatch: %s", diff)
	}
	op, ok := req.Op.(LookupOp)
	if !ok {
		t.Fatalf("Op = %T, want LookupOp", req.Op)
	}
	if op.Name != "hello.txt" {
		t.Fatalf("Name = %q, want hello.txt", op.Name)
	}
}

func TestDecodeMissingNulIsInvalid(t *testing.T) {
	hdr := InHeader{Opcode: OpLookup}
	buf := rawRequest(t, hdr, []byte("no-terminator"))

	if _, err := Decode(buf); err == nil {
		t.Fatalf("expected error for missing NUL terminator")
	}
}

func TestDecodeTwoNames(t *testing.T) {
	hdr := InHeader{Opcode: OpRename, Unique: 3, NodeID: 5}
	var inBuf bytes.Buffer
	binary.Write(&inBuf, binary.NativeEndian, RenameIn{Newdir: 9})
	inBuf.Write(append([]byte("old"), 0))
	inBuf.Write(append([]byte("new"), 0))

	req, err := Decode(rawRequest(t, hdr, inBuf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	op, ok := req.Op.(RenameOp)
	if !ok {
		t.Fatalf("Op = %T, want RenameOp", req.Op)
	}
	if op.In.Newdir != 9 || op.OldName != "old" || op.NewName != "new" {
		t.Fatalf("unexpected RenameOp: %+v", op)
	}
}

func TestDecodeWriteTrailingData(t *testing.T) {
	hdr := InHeader{Opcode: OpWrite, Unique: 1, NodeID: 2}
	data := []byte("payload-bytes")

	var inBuf bytes.Buffer
	binary.Write(&inBuf, binary.NativeEndian, WriteIn{Fh: 4, Offset: 0, Size: uint32(len(data))})
	inBuf.Write(data)

	req, err := Decode(rawRequest(t, hdr, inBuf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	op, ok := req.Op.(WriteOp)
	if !ok {
		t.Fatalf("Op = %T, want WriteOp", req.Op)
	}
	if !bytes.Equal(op.Data, data) {
		t.Fatalf("Data = %q, want %q", op.Data, data)
	}
}

func TestDecodeNoBodyOps(t *testing.T) {
	cases := []struct {
		op   Opcode
		want Op
	}{
		{OpDestroy, DestroyOp{}},
		{OpGetAttr, GetAttrOp{}},
		{OpReadLink, ReadLinkOp{}},
		{OpStatfs, StatFSOp{}},
	}
	for _, c := range cases {
		req, err := Decode(rawRequest(t, InHeader{Opcode: c.op}, nil))
		if err != nil {
			t.Fatalf("Decode(%v): %v", c.op, err)
		}
		if req.Op != c.want {
			t.Fatalf("Decode(%v) = %#v, want %#v", c.op, req.Op, c.want)
		}
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	if _, err := Decode(rawRequest(t, InHeader{Opcode: 0xBEEF}, nil)); err == nil {
		t.Fatalf("expected error for unknown opcode")
	}
}

func TestDecodeInterruptUnsupported(t *testing.T) {
	_, err := Decode(rawRequest(t, InHeader{Opcode: OpInterrupt}, nil))
	if err != ErrInterrupt {
		t.Fatalf("err = %v, want ErrInterrupt", err)
	}
}

func TestDecodeShortBufferInvalid(t *testing.T) {
	if _, err := Decode([]byte{1, 2, 3}); err != ErrInvalidInput {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDecodeMacOSOpcodesGatedOnOtherPlatforms(t *testing.T) {
	// OpSetvolname/OpGetxtimes/OpExchange must not be recognized here; this
	// test file is built without the darwin tag in CI for other platforms.
	if isDarwin {
		t.Skip("darwin recognizes these opcodes; see decode_darwin.go")
	}
	for _, op := range []Opcode{OpGetxtimes, OpSetvolname, OpExchange} {
		if _, err := Decode(rawRequest(t, InHeader{Opcode: op}, append([]byte("x"), 0))); err == nil {
			t.Fatalf("Decode(%v) unexpectedly succeeded on non-darwin", op)
		}
	}
}
