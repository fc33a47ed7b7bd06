package mountpoint

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"unsafe"
)

// fusermountPath resolves the fusermount helper through PATH;
// os.StartProcess does not search it.
func fusermountPath() (string, error) {
	return exec.LookPath("fusermount")
}

// unixgramSocketpair creates the control socket fusermount uses to hand the
// kernel-opened fd back to us over an SCM_RIGHTS message on a socketpair
// passed as fd 3.
func unixgramSocketpair() (l, r *os.File, err error) {
	fd, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_SEQPACKET, 0)
	if err != nil {
		return nil, nil, os.NewSyscallError("socketpair", err.(syscall.Errno))
	}
	return os.NewFile(uintptr(fd[0]), "fuse-commfd-local"), os.NewFile(uintptr(fd[1]), "fuse-commfd-remote"), nil
}

func mount(mountPoint, options string) (fd int, err error) {
	local, remote, err := unixgramSocketpair()
	if err != nil {
		return 0, err
	}
	defer local.Close()
	defer remote.Close()

	bin, err := fusermountPath()
	if err != nil {
		return 0, err
	}
	cmd := []string{bin, mountPoint}
	if options != "" {
		cmd = append(cmd, "-o", options)
	}
	proc, err := os.StartProcess(bin, cmd, &os.ProcAttr{
		Env:   []string{"_FUSE_COMMFD=3"},
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr, remote},
	})
	if err != nil {
		return 0, err
	}
	w, err := proc.Wait()
	if err != nil {
		return 0, err
	}
	if !w.Success() {
		return 0, fmt.Errorf("mountpoint: fusermount exited with %v", w.Sys())
	}
	return receiveFd(local)
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

	msg := *(*syscall.Cmsghdr)(unsafe.Pointer(&control[0]))
	fd := *(*int32)(unsafe.Pointer(uintptr(unsafe.Pointer(&control[0])) + syscall.SizeofCmsghdr))
	if msg.Type != 1 {
		return 0, fmt.Errorf("mountpoint: unexpected control message type %d", msg.Type)
	}
	if fd < 0 {
		return 0, fmt.Errorf("mountpoint: received negative fd %d", fd)
	}
	return int(fd), nil
}

func privilegedUnmount(mountPoint string) error {
	bin, err := exec.LookPath("umount")
	if err != nil {
		return err
	}
	dir, _ := filepath.Split(mountPoint)
	proc, err := os.StartProcess(bin, []string{bin, mountPoint}, &os.ProcAttr{
		Dir:   dir,
		Files: []*os.File{nil, nil, os.Stderr},
	})
	if err != nil {
		return err
	}
	w, err := proc.Wait()
	if err != nil {
		return err
	}
	if !w.Success() {
		return fmt.Errorf("mountpoint: umount exited with %v", w.Sys())
	}
	return nil
}

func unmount(mountPoint string) error {
	if os.Geteuid() == 0 {
		return privilegedUnmount(mountPoint)
	}
	bin, err := fusermountPath()
	if err != nil {
		return err
	}
	proc, err := os.StartProcess(bin, []string{bin, "-u", mountPoint}, &os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	})
	if err != nil {
		return err
	}
	w, err := proc.Wait()
	if err != nil {
		return err
	}
	if !w.Success() {
		return fmt.Errorf("mountpoint: fusermount -u exited with %v", w.Sys())
	}
	return nil
}
