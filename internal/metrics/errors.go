package metrics

import "codeberg.org/mutker/kweeb/internal/errors"

const (
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("metrics_invalid_db_path")

	ErrSchemaInitFailed       = errors.ErrorCode("metrics_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("metrics_schema_validation_failed")
	ErrSchemaMigrationFailed  = errors.ErrorCode("metrics_schema_migration_failed")

	ErrStorageAccess = errors.ErrStore
	ErrStorageInit   = errors.ErrInitFailed
	ErrStorageClose  = errors.ErrShutdownFailed

	ErrLockTimeout = errors.ErrLockTimeout
)

// phaseFailure is the data attached to storage errors.
type phaseFailure struct {
	Phase string
	Error string
}

func phaseError(code errors.ErrorCode, phase string, err error) errors.Error {
	return errors.New().WithData(code, phaseFailure{Phase: phase, Error: err.Error()})
}
