//go:build !linux

package mountpoint

// Precheck is a no-op off Linux: /proc/self/mountinfo is a Linux-specific
// interface.
func Precheck(path string) (stale bool, err error) {
	return false, nil
}
