package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/strato-fs/strato/internal/logging"
)

// ErrInvalidInput is returned when a buffer is too short, names are
// malformed, or the opcode is not recognized.
var ErrInvalidInput = errors.New("wire: invalid input")

// ErrInterrupt is returned when the kernel sends FUSE_INTERRUPT. The core
// does not support cancellation; callers must drop the request rather than
// deliver it to a handler.
var ErrInterrupt = errors.New("wire: interrupt is not supported")

var inHeaderSize = binary.Size(InHeader{})

// Request is a single decoded kernel request: the fixed header plus one of
// the Op variants.
type Request struct {
	Header InHeader
	Op     Op
}

// Decode parses a single framed kernel request. The buffer must hold
// exactly one request: the InHeader followed by its opcode-specific body.
func Decode(buf []byte) (*Request, error) {
	if len(buf) < inHeaderSize {
		return nil, ErrInvalidInput
	}

	var hdr InHeader
	if err := binary.Read(bytes.NewReader(buf[:inHeaderSize]), binary.NativeEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	body := buf[inHeaderSize:]

	if hdr.Opcode == OpInterrupt {
		return nil, ErrInterrupt
	}

	op, err := decodeBody(hdr.Opcode, body)
	if err != nil {
		return nil, err
	}
	if op == nil {
		if pop, ok := decodePlatformOp(hdr.Opcode, body); ok {
			op = pop
		} else {
			logging.Warnf("unknown opcode %d (%s)", hdr.Opcode, hdr.Opcode)
			return nil, ErrInvalidInput
		}
	}

	return &Request{Header: hdr, Op: op}, nil
}

// decodeBody handles every opcode that is not platform-gated. It returns a
// nil Op (and nil error) for opcodes it does not recognize, so the caller
// can fall through to decodePlatformOp.
func decodeBody(op Opcode, body []byte) (Op, error) {
	switch op {
	case OpDestroy:
		return DestroyOp{}, nil
	case OpGetAttr:
		return GetAttrOp{}, nil
	case OpReadLink:
		return ReadLinkOp{}, nil
	case OpStatfs:
		return StatFSOp{}, nil

	case OpInit:
		var in InitIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return InitOp{In: in}, nil
	case OpForget:
		var in ForgetIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return ForgetOp{In: in}, nil
	case OpSetAttr:
		var in SetAttrIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return SetAttrOp{In: in}, nil
	case OpMknod:
		var in MknodIn
		rest, err := readFixedPrefix(body, &in)
		if err != nil {
			return nil, err
		}
		name, _, err := cutName(rest)
		if err != nil {
			return nil, err
		}
		return MkNodOp{In: in, Name: name}, nil
	case OpOpen:
		var in OpenIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return OpenOp{In: in}, nil
	case OpRead:
		var in ReadIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return ReadOp{In: in}, nil
	case OpFlush:
		var in FlushIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return FlushOp{In: in}, nil
	case OpRelease:
		var in ReleaseIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return ReleaseOp{In: in}, nil
	case OpFsync:
		var in FsyncIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return FSyncOp{In: in}, nil
	case OpOpendir:
		var in OpenIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return OpenDirOp{In: in}, nil
	case OpReaddir:
		var in ReadIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return ReadDirOp{In: in}, nil
	case OpReleasedir:
		var in ReleaseIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return ReleaseDirOp{In: in}, nil
	case OpFsyncdir:
		var in FsyncIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return FSyncDirOp{In: in}, nil
	case OpSetxattr:
		var in SetxattrIn
		rest, err := readFixedPrefix(body, &in)
		if err != nil {
			return nil, err
		}
		name, rest, err := cutName(rest)
		if err != nil {
			return nil, err
		}
		if uint32(len(rest)) < in.Size {
			return nil, ErrInvalidInput
		}
		return SetXAttrOp{In: in, Name: name, Value: rest[:in.Size]}, nil
	case OpGetxattr:
		var in GetxattrIn
		rest, err := readFixedPrefix(body, &in)
		if err != nil {
			return nil, err
		}
		name, _, err := cutName(rest)
		if err != nil {
			return nil, err
		}
		return GetXAttrOp{In: in, Name: name}, nil
	case OpListxattr:
		var in GetxattrIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return ListXAttrOp{In: in}, nil
	case OpAccess:
		var in AccessIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return AccessOp{In: in}, nil
	case OpCreate:
		var in CreateIn
		rest, err := readFixedPrefix(body, &in)
		if err != nil {
			return nil, err
		}
		name, _, err := cutName(rest)
		if err != nil {
			return nil, err
		}
		return CreateOp{In: in, Name: name}, nil
	case OpGetlk:
		var in LkIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return GetLockOp{In: in}, nil
	case OpSetlk, OpSetlkw:
		var in LkIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return SetLockOp{In: in, Wait: op == OpSetlkw}, nil
	case OpBmap:
		var in BmapIn
		if err := readFixed(body, &in); err != nil {
			return nil, err
		}
		return BmapOp{In: in}, nil

	case OpLookup:
		name, _, err := cutName(body)
		if err != nil {
			return nil, err
		}
		return LookupOp{Name: name}, nil
	case OpMkdir:
		name, _, err := cutName(body)
		if err != nil {
			return nil, err
		}
		return MkDirOp{Name: name}, nil
	case OpUnlink:
		name, _, err := cutName(body)
		if err != nil {
			return nil, err
		}
		return UnlinkOp{Name: name}, nil
	case OpRmdir:
		name, _, err := cutName(body)
		if err != nil {
			return nil, err
		}
		return RmDirOp{Name: name}, nil
	case OpRemovexattr:
		name, _, err := cutName(body)
		if err != nil {
			return nil, err
		}
		return RemoveXAttrOp{Name: name}, nil

	case OpSymlink:
		name, rest, err := cutName(body)
		if err != nil {
			return nil, err
		}
		target, _, err := cutName(rest)
		if err != nil {
			return nil, err
		}
		return SymlinkOp{Name: name, Target: target}, nil

	case OpRename:
		var in RenameIn
		rest, err := readFixedPrefix(body, &in)
		if err != nil {
			return nil, err
		}
		oldName, rest, err := cutName(rest)
		if err != nil {
			return nil, err
		}
		newName, _, err := cutName(rest)
		if err != nil {
			return nil, err
		}
		return RenameOp{In: in, OldName: oldName, NewName: newName}, nil

	case OpLink:
		var in LinkIn
		rest, err := readFixedPrefix(body, &in)
		if err != nil {
			return nil, err
		}
		name, _, err := cutName(rest)
		if err != nil {
			return nil, err
		}
		return LinkOp{In: in, Name: name}, nil

	case OpWrite:
		var in WriteIn
		rest, err := readFixedPrefix(body, &in)
		if err != nil {
			return nil, err
		}
		if uint32(len(rest)) < in.Size {
			return nil, ErrInvalidInput
		}
		return WriteOp{In: in, Data: rest[:in.Size]}, nil
	}

	return nil, nil
}

// readFixed decodes a fixed-size struct from the front of body, failing if
// body is shorter than that struct; any bytes after it are ignored.
func readFixed(body []byte, out any) error {
	size := binary.Size(out)
	if len(body) < size {
		return ErrInvalidInput
	}
	return binary.Read(bytes.NewReader(body[:size]), binary.NativeEndian, out)
}

// readFixedPrefix decodes a fixed-size struct from the front of body and
// returns the remaining bytes.
func readFixedPrefix(body []byte, out any) ([]byte, error) {
	size := binary.Size(out)
	if len(body) < size {
		return nil, ErrInvalidInput
	}
	if err := binary.Read(bytes.NewReader(body[:size]), binary.NativeEndian, out); err != nil {
		return nil, err
	}
	return body[size:], nil
}

// cutName scans for the first NUL terminator, returning the bytes before it
// (as a string) and the remaining bytes after it. Missing NUL is a protocol
// error.
func cutName(body []byte) (string, []byte, error) {
	i := bytes.IndexByte(body, 0)
	if i < 0 {
		return "", nil, ErrInvalidInput
	}
	return string(body[:i]), body[i+1:], nil
}
