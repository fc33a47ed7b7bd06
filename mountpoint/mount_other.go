//go:build !linux && !darwin

package mountpoint

import "fmt"

func mount(mountPoint, options string) (int, error) {
	return 0, fmt.Errorf("mountpoint: FUSE mounting is not supported on this platform")
}

func unmount(mountPoint string) error {
	return fmt.Errorf("mountpoint: FUSE unmounting is not supported on this platform")
}
