package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Topology and distance errors
	ErrNoMonitorsFound      ErrorCode = "no_monitors_found"
	ErrPointOutsideTopology ErrorCode = "point_outside_topology"
	ErrSystem               ErrorCode = "system_error"

	// Pipeline errors
	ErrStore       ErrorCode = "store_error"
	ErrSync        ErrorCode = "sync_error"
	ErrLockTimeout ErrorCode = "lock_timeout"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:             "Internal error occurred",
	ErrInvalidArgument:      "Invalid argument provided",
	ErrUnavailable:          "Service unavailable",
	ErrInvalidConfig:        "Invalid configuration",
	ErrReadConfig:           "Failed to read configuration",
	ErrInvalidInterval:      "Invalid interval value",
	ErrInvalidLogLevel:      "Invalid log level",
	ErrInitFailed:           "Initialization failed",
	ErrShutdownFailed:       "Shutdown failed",
	ErrAlreadyRunning:       "Another instance is already running",
	ErrNoMonitorsFound:      "No monitors found",
	ErrPointOutsideTopology: "Point lies outside every monitor",
	ErrSystem:               "System query failed",
	ErrStore:                "Failed to persist metrics",
	ErrSync:                 "Failed to mirror metrics",
	ErrLockTimeout:          "Timed out waiting for lock",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
