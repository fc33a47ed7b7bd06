package wire

import (
	"bytes"
	"encoding/binary"
)

var direntHeaderSize = binary.Size(Dirent{})

// EmptyBody answers Init, Destroy, Forget, SetAttr (when no attrs are
// echoed back), Unlink, RmDir, Rename, Flush, Release, FSync, ReleaseDir,
// FSyncDir, Access, SetLock, and (on macOS) SetVolumeName/Exchange: header
// only, no payload bytes.
type EmptyBody struct{}

func (EmptyBody) encodeBody(*bytes.Buffer) error { return nil }

// EntryBody answers Lookup, MkNod, MkDir, Symlink.
type EntryBody struct {
	Entry EntryOut
}

func (b EntryBody) encodeBody(buf *bytes.Buffer) error {
	return writeFixed(buf, b.Entry)
}

// OpenBody answers Open, OpenDir.
type OpenBody struct {
	Open OpenOut
}

func (b OpenBody) encodeBody(buf *bytes.Buffer) error {
	return writeFixed(buf, b.Open)
}

// AttrBody answers GetAttr and SetAttr (when the new attributes are
// echoed back).
type AttrBody struct {
	Attr AttrOut
}

func (b AttrBody) encodeBody(buf *bytes.Buffer) error {
	return writeFixed(buf, b.Attr)
}

// DataBody answers ReadLink, Read, GetXAttr, ListXAttr: a raw byte payload
// with no further structure.
type DataBody struct {
	Data []byte
}

func (b DataBody) encodeBody(buf *bytes.Buffer) error {
	_, err := buf.Write(b.Data)
	return err
}

// CreateBody answers Create: an EntryOut followed by an OpenOut.
type CreateBody struct {
	Entry EntryOut
	Open  OpenOut
}

func (b CreateBody) encodeBody(buf *bytes.Buffer) error {
	if err := writeFixed(buf, b.Entry); err != nil {
		return err
	}
	return writeFixed(buf, b.Open)
}

// StatfsBody answers StatFS.
type StatfsBody struct {
	Statfs StatfsOut
}

func (b StatfsBody) encodeBody(buf *bytes.Buffer) error {
	return writeFixed(buf, b.Statfs)
}

// LockBody answers GetLock.
type LockBody struct {
	Lock LkOut
}

func (b LockBody) encodeBody(buf *bytes.Buffer) error {
	return writeFixed(buf, b.Lock)
}

// BmapBody answers Bmap.
type BmapBody struct {
	Bmap BmapOut
}

func (b BmapBody) encodeBody(buf *bytes.Buffer) error {
	return writeFixed(buf, b.Bmap)
}

// DirEntry is one entry to pack into a ReadDir reply.
type DirEntry struct {
	Ino    uint64
	Offset int64
	// Type is the file type in the top 4 bits of the POSIX mode, i.e.
	// S_IFxxx >> 12 (see node.FileType).
	Type uint32
	Name string
}

// ReadDirBody answers ReadDir: a concatenation of packed directory
// entries, each padded to a multiple of 8 bytes. See DirEntry and
// PackDirEntries.
type ReadDirBody struct {
	Entries []DirEntry
}

func (b ReadDirBody) encodeBody(buf *bytes.Buffer) error {
	packed, err := PackDirEntries(b.Entries)
	if err != nil {
		return err
	}
	_, err = buf.Write(packed)
	return err
}

// PackDirEntries lays out entries as: for each entry, a 24-byte Dirent
// header ({ino, offset, namelen, type}), the raw name bytes, then
// zero-padding to a multiple of 8 bytes.
func PackDirEntries(entries []DirEntry) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range entries {
		hdr := Dirent{
			Ino:     e.Ino,
			Off:     uint64(e.Offset),
			Namelen: uint32(len(e.Name)),
			Typ:     e.Type,
		}
		if err := writeFixed(&buf, hdr); err != nil {
			return nil, err
		}
		buf.WriteString(e.Name)

		pad := direntPadding(len(e.Name))
		for i := 0; i < pad; i++ {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes(), nil
}

func direntPadding(nameLen int) int {
	total := direntHeaderSize + nameLen
	return (total+7)&^7 - total
}

// DirentSize returns the number of bytes PackDirEntries spends on a single
// entry with the given name, including its header and padding. Callers
// building a ReadDir reply incrementally (to respect the kernel's buffer
// size) use this to decide when to stop adding entries.
func DirentSize(name string) int {
	return direntHeaderSize + len(name) + direntPadding(len(name))
}
