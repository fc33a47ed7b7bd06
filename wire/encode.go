package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnimplemented is returned for body categories the encoder does not
// support: Interrupt has no reply, and GetXTimes is only valid on macOS.
var ErrUnimplemented = errors.New("wire: unimplemented response")

// Body is the payload half of a Response. Concrete implementations live
// alongside the request Op variants they answer; see body.go.
type Body interface {
	encodeBody(buf *bytes.Buffer) error
}

// Response is a reply to a single Request, keyed by the kernel's unique
// request ID.
type Response struct {
	// Unique must equal the Request.Header.Unique of the request being
	// answered.
	Unique uint64

	// Errno is the POSIX errno to report, or 0 for success. It must not be
	// negative; the encoder negates it per the FUSE ABI convention.
	Errno int32

	// Body is ignored when Errno != 0: an error reply is header-only.
	Body Body
}

// Encode serializes resp to bytes ready to write to the kernel channel. The
// returned slice's length always equals the Len field written into its own
// header.
func Encode(resp *Response) ([]byte, error) {
	var buf bytes.Buffer
	// Reserve space for the header; filled in once the body length is
	// known.
	if err := binary.Write(&buf, binary.NativeEndian, OutHeader{}); err != nil {
		return nil, err
	}

	if resp.Errno == 0 && resp.Body != nil {
		if err := resp.Body.encodeBody(&buf); err != nil {
			return nil, err
		}
	}

	out := buf.Bytes()
	hdr := OutHeader{
		Len:    uint32(len(out)),
		Error:  -resp.Errno,
		Unique: resp.Unique,
	}

	var hb bytes.Buffer
	if err := binary.Write(&hb, binary.NativeEndian, hdr); err != nil {
		return nil, err
	}
	if n := copy(out, hb.Bytes()); n != hb.Len() {
		return nil, fmt.Errorf("wire: short header copy")
	}

	return out, nil
}

func writeFixed(buf *bytes.Buffer, v any) error {
	return binary.Write(buf, binary.NativeEndian, v)
}
