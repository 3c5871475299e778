package metrics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/logger"
)

const backupTimeFormat = "20060102T150405Z"

// ValidateAndUpdateSchema makes db match SchemaVersion. A fresh database is
// initialized. Any other version is incompatible: it is copied into the
// backup directory when cfg.BackupOnMigrate is set, then replaced.
func ValidateAndUpdateSchema(db *sql.DB, cfg Config, log logger.Logger) error {
	version, err := GetSchemaVersion(db)
	if err != nil {
		return errors.New().Wrap(ErrSchemaValidationFailed, err)
	}

	switch {
	case version == SchemaVersion:
		log.Debug().Int("version", version).Msg("Metrics schema is current")
		return nil
	case version == 0:
		return InitSchema(db, log)
	}

	log.Warn().
		Int("found", version).
		Int("expected", SchemaVersion).
		Msg("Incompatible metrics schema, recreating")

	if cfg.BackupOnMigrate {
		if _, err := backupDatabase(db, cfg.backupDir(), version, log); err != nil {
			return errors.New().Wrap(ErrSchemaMigrationFailed, err)
		}
	}

	if err := dropTables(db, log); err != nil {
		return err
	}
	return InitSchema(db, log)
}

// backupDatabase writes a consistent copy of db into dir, named after the
// schema version it holds.
func backupDatabase(db *sql.DB, dir string, version int, log logger.Logger) (string, error) {
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return "", errors.New().WithData(ErrSchemaMigrationFailed, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_backup_dir",
			Path:  dir,
			Error: err.Error(),
		})
	}

	name := fmt.Sprintf("metrics_v%d_%s.db", version, time.Now().UTC().Format(backupTimeFormat))
	path := filepath.Join(dir, name)

	// VACUUM INTO must run outside a transaction.
	if _, err := db.Exec("VACUUM INTO ?", path); err != nil {
		return "", phaseError(ErrSchemaMigrationFailed, "create_backup", err)
	}

	log.Info().Str("path", path).Int("version", version).Msg("Metrics database backed up")
	return path, nil
}

func dropTables(db *sql.DB, log logger.Logger) error {
	return inTx(db, log, ErrSchemaMigrationFailed, func(tx *sql.Tx) error {
		for _, table := range managedTables {
			if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return phaseError(ErrSchemaMigrationFailed, "drop_"+table, err)
			}
		}
		return nil
	})
}
