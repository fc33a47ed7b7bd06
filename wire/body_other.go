//go:build !darwin

package wire

import "bytes"

// XTimesBody exists on every platform so the type name is stable, but
// GETXTIMES is a macOS-only opcode: encoding it anywhere else fails with
// ErrUnimplemented.
type XTimesBody struct{}

func (XTimesBody) encodeBody(*bytes.Buffer) error {
	return ErrUnimplemented
}
