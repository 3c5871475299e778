package topology

import "codeberg.org/mutker/kweeb/internal/errors"

const (
	ErrNoMonitorsFound = errors.ErrNoMonitorsFound
	ErrSystem          = errors.ErrSystem
	ErrInvalidMonitor  = errors.ErrorCode("topology_invalid_monitor")
)
