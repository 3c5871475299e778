package metrics

import (
	"context"
	"database/sql"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/logger"
)

// SchemaVersion is the layout NewRepository creates and expects.
const SchemaVersion = 1

const (
	versionsDDL = `CREATE TABLE IF NOT EXISTS schema_versions (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`

	// One row per flushed window; timestamp is unix seconds.
	metricsDDL = `CREATE TABLE IF NOT EXISTS metrics (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp         INTEGER NOT NULL,
		keypresses        INTEGER NOT NULL CHECK (keypresses >= 0),
		mouse_clicks      INTEGER NOT NULL CHECK (mouse_clicks >= 0),
		mouse_distance_in REAL    NOT NULL CHECK (mouse_distance_in >= 0),
		mouse_distance_mi REAL    NOT NULL CHECK (mouse_distance_mi >= 0),
		scroll_steps      INTEGER NOT NULL CHECK (scroll_steps >= 0)
	)`

	timestampIndexDDL = `CREATE INDEX IF NOT EXISTS metrics_timestamp_idx ON metrics (timestamp)`

	insertWindowSQL = `INSERT INTO metrics
		(timestamp, keypresses, mouse_clicks, mouse_distance_in, mouse_distance_mi, scroll_steps)
		VALUES (?, ?, ?, ?, ?, ?)`

	sumSinceSQL = `SELECT
		COALESCE(SUM(keypresses), 0),
		COALESCE(SUM(mouse_clicks), 0),
		COALESCE(SUM(mouse_distance_in), 0.0),
		COALESCE(SUM(mouse_distance_mi), 0.0),
		COALESCE(SUM(scroll_steps), 0)
		FROM metrics WHERE timestamp >= ?`
)

// schemaStatements create the current layout, in order.
var schemaStatements = []string{versionsDDL, metricsDDL, timestampIndexDDL}

// managedTables are dropped when an incompatible schema is replaced.
var managedTables = []string{"metrics", "schema_versions"}

// InitSchema creates the tables and records SchemaVersion in one
// transaction.
func InitSchema(db *sql.DB, log logger.Logger) error {
	log.Debug().Msg("Creating metrics schema")

	err := inTx(db, log, ErrSchemaInitFailed, func(tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(stmt); err != nil {
				return phaseError(ErrSchemaInitFailed, "create_tables", err)
			}
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_versions (version, applied_at) VALUES (?, datetime('now'))`,
			SchemaVersion,
		); err != nil {
			return phaseError(ErrSchemaInitFailed, "record_version", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int("version", SchemaVersion).Msg("Metrics schema created")
	return nil
}

// GetSchemaVersion returns the newest recorded version, or 0 for a database
// that has never been initialized.
func GetSchemaVersion(db *sql.DB) (int, error) {
	exists, err := TableExists(db, "schema_versions")
	if err != nil || !exists {
		return 0, err
	}

	var version sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_versions`).Scan(&version); err != nil {
		return 0, phaseError(ErrSchemaValidationFailed, "get_version", err)
	}
	return int(version.Int64), nil
}

// TableExists reports whether name is a table in db.
func TableExists(db *sql.DB, name string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	if err != nil {
		return false, errors.New().WithData(ErrSchemaValidationFailed, struct {
			Phase string
			Table string
			Error string
		}{
			Phase: "check_table_exists",
			Table: name,
			Error: err.Error(),
		})
	}
	return n > 0, nil
}

// inTx runs fn in a transaction, rolling back unless fn succeeds and the
// commit goes through.
func inTx(db *sql.DB, log logger.Logger, code errors.ErrorCode, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return errors.New().Wrap(code, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Debug().Err(rbErr).Msg("Rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.New().Wrap(code, err)
	}
	return nil
}
