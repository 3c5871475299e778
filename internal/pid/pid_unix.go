//go:build !windows

package pid

import "golang.org/x/sys/unix"

// alive reports whether a process with the given id exists. EPERM means it
// exists but belongs to another user.
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
