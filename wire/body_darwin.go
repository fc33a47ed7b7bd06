//go:build darwin

package wire

import "bytes"

// XTimesOut mirrors fuse_getxtimes_out: backup time and creation time,
// split into seconds and nanoseconds.
type XTimesOut struct {
	Bkuptime     uint64
	Crtime       uint64
	Bkuptimensec uint32
	Crtimensec   uint32
}

// XTimesBody answers GetXTimes.
type XTimesBody struct {
	XTimes XTimesOut
}

func (b XTimesBody) encodeBody(buf *bytes.Buffer) error {
	return writeFixed(buf, b.XTimes)
}
