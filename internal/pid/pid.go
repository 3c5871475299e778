package pid

import (
	"os"
	"strconv"
	"strings"

	"codeberg.org/mutker/kweeb/internal/errors"
)

const filePerm = 0o600

// Write writes the current process ID to path. It fails with
// ErrAlreadyRunning when path names a live process other than this one.
// A stale or unreadable file is replaced.
func Write(path string) error {
	errFactory := errors.New()
	self := os.Getpid()

	if bytes, err := os.ReadFile(path); err == nil {
		// PID file exists, check if the process is running
		if pid, err := strconv.Atoi(strings.TrimSpace(string(bytes))); err == nil && pid != self && alive(pid) {
			return errFactory.WithData(errors.ErrAlreadyRunning, pid)
		}
	} else if !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(self)), filePerm); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}
	return nil
}
