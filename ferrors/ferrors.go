// Package ferrors defines the three-level error taxonomy handlers return:
// NodeError for failures common to every node kind, FileError for failures
// specific to regular files, and DirError for failures specific to
// directories. Each maps onto a syscall.Errno the dispatch engine negates
// into the reply header, the same convention the wire codec's predecessor
// used for converting Go errors back to wire status codes.
package ferrors

import "syscall"

// NodeError is returned by operations common to every node, such as
// ReadAttributes.
type NodeError int

const (
	NotImplemented NodeError = iota
	NoSuchEntry
	IOError
	PermissionDenied
	TryAgain
	ReadOnly
)

var nodeErrorNames = map[NodeError]string{
	NotImplemented:   "not implemented",
	NoSuchEntry:      "no such entry",
	IOError:          "I/O error",
	PermissionDenied: "permission denied",
	TryAgain:         "try again",
	ReadOnly:         "read-only filesystem",
}

func (e NodeError) Error() string {
	if s, ok := nodeErrorNames[e]; ok {
		return s
	}
	return "unknown node error"
}

// Errno reports the POSIX errno the dispatch engine should reply with.
func (e NodeError) Errno() syscall.Errno {
	switch e {
	case NotImplemented:
		return syscall.EPERM
	case NoSuchEntry:
		return syscall.ENOENT
	case IOError:
		return syscall.EIO
	case PermissionDenied:
		return syscall.EACCES
	case TryAgain:
		return syscall.EAGAIN
	case ReadOnly:
		return syscall.EROFS
	default:
		return syscall.EIO
	}
}

// FileError is returned by regular-file operations: read.
type FileError int

const (
	NoSuchFile FileError = iota
	IsDirectory
	FileExists
)

var fileErrorNames = map[FileError]string{
	NoSuchFile:  "no such file",
	IsDirectory: "is a directory",
	FileExists:  "file exists",
}

func (e FileError) Error() string {
	if s, ok := fileErrorNames[e]; ok {
		return s
	}
	return "unknown file error"
}

func (e FileError) Errno() syscall.Errno {
	switch e {
	case NoSuchFile:
		return syscall.ENOENT
	case IsDirectory:
		return syscall.EISDIR
	case FileExists:
		return syscall.EEXIST
	default:
		return syscall.EIO
	}
}

// DirError is returned by directory operations: lookup and readdir.
type DirError int

const (
	NoSuchDirectory DirError = iota
	IsNotDirectory
	DirectoryNotEmpty
)

var dirErrorNames = map[DirError]string{
	NoSuchDirectory:   "no such directory",
	IsNotDirectory:    "not a directory",
	DirectoryNotEmpty: "directory not empty",
}

func (e DirError) Error() string {
	if s, ok := dirErrorNames[e]; ok {
		return s
	}
	return "unknown directory error"
}

func (e DirError) Errno() syscall.Errno {
	switch e {
	case NoSuchDirectory:
		return syscall.ENOENT
	case IsNotDirectory:
		return syscall.ENOTDIR
	case DirectoryNotEmpty:
		return syscall.ENOTEMPTY
	default:
		return syscall.EIO
	}
}

// Errno extracts the reply errno from any error the core knows how to
// translate. Unrecognized errors map to EIO rather than panicking.
func Errno(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	switch e := err.(type) {
	case NodeError:
		return e.Errno()
	case FileError:
		return e.Errno()
	case DirError:
		return e.Errno()
	case syscall.Errno:
		return e
	default:
		return syscall.EIO
	}
}
