package mountpoint

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// macFuseBinary is the osxfuse/macFUSE mount helper, analogous to
// fusermount on Linux.
var macFuseBinary = "mount_macfuse"

func unixgramSocketpair() (l, r *os.File, err error) {
	fd, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, os.NewSyscallError("socketpair", err.(syscall.Errno))
	}
	return os.NewFile(uintptr(fd[0]), "fuse-commfd-local"), os.NewFile(uintptr(fd[1]), "fuse-commfd-remote"), nil
}

func mount(mountPoint, options string) (int, error) {
	local, remote, err := unixgramSocketpair()
	if err != nil {
		return 0, err
	}
	defer local.Close()
	defer remote.Close()

	cmd := exec.Command(macFuseBinary, "-o", options, mountPoint)
	cmd.ExtraFiles = []*os.File{remote}
	cmd.Env = append(os.Environ(),
		"_FUSE_CALL_BY_LIB=",
		"_FUSE_DAEMON_PATH="+os.Args[0],
		"_FUSE_COMMFD=3",
		"_FUSE_COMMVERS=2")
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	fd, err := receiveFd(local)
	if err != nil {
		return 0, err
	}
	go cmd.Wait()
	return fd, nil
}

func receiveFd(local *os.File) (int, error) {
	var data [4]byte
	control := make([]byte, 4*256)
	_, oobn, _, _, err := syscall.Recvmsg(int(local.Fd()), data[:], control[:], 0)
	if err != nil {
		return 0, err
	}
	if oobn <= syscall.SizeofCmsghdr {
		return 0, fmt.Errorf("mountpoint: control message too short (%d bytes)", oobn)
	}
	msgs, err := syscall.ParseSocketControlMessage(control[:oobn])
	if err != nil || len(msgs) == 0 {
		return 0, fmt.Errorf("mountpoint: parsing control message: %v", err)
	}
	fds, err := syscall.ParseUnixRights(&msgs[0])
	if err != nil || len(fds) == 0 {
		return 0, fmt.Errorf("mountpoint: no descriptor in control message: %v", err)
	}
	return fds[0], nil
}

func unmount(mountPoint string) error {
	cmd := exec.Command("umount", mountPoint)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
