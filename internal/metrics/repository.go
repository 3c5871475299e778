package metrics

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

// dsnOptions enables WAL so totals can be read while a flush is writing.
const dsnOptions = "?_journal=WAL&_busy_timeout=5000&_auto_vacuum=2"

type repository struct {
	db     *sql.DB
	logger logger.Logger
}

// NewRepository opens (creating if needed) the sqlite database at
// cfg.DBPath and brings its schema up to date.
func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errors.New().WithData(ErrStorageInit, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_directory",
			Path:  cfg.DBPath,
			Error: err.Error(),
		})
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+dsnOptions)
	if err != nil {
		return nil, phaseError(ErrStorageInit, "open_database", err)
	}

	if err := ValidateAndUpdateSchema(db, cfg, log); err != nil {
		db.Close()
		return nil, phaseError(ErrStorageInit, "schema_version", err)
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Msg("Metrics repository opened")

	return &repository{db: db, logger: log}, nil
}

// Insert appends window as one row stamped with the current time.
func (r *repository) Insert(ctx context.Context, window Counters) error {
	_, err := r.db.ExecContext(ctx, insertWindowSQL,
		time.Now().Unix(),
		window.Keypresses,
		window.MouseClicks,
		window.MouseDistanceIn,
		window.MouseDistanceMi,
		window.ScrollSteps,
	)
	if err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}

	r.logger.Debug().
		Int64("keypresses", window.Keypresses).
		Int64("mouse_clicks", window.MouseClicks).
		Float64("mouse_distance_in", window.MouseDistanceIn).
		Int64("scroll_steps", window.ScrollSteps).
		Msg("Inserted metrics window")

	return nil
}

func (r *repository) Totals(ctx context.Context) (Counters, error) {
	return r.sumSince(ctx, 0)
}

func (r *repository) TotalsSince(ctx context.Context, since time.Time) (Counters, error) {
	return r.sumSince(ctx, since.Unix())
}

func (r *repository) sumSince(ctx context.Context, since int64) (Counters, error) {
	var c Counters
	err := r.db.QueryRowContext(ctx, sumSinceSQL, since).Scan(
		&c.Keypresses,
		&c.MouseClicks,
		&c.MouseDistanceIn,
		&c.MouseDistanceMi,
		&c.ScrollSteps,
	)
	if err != nil {
		return Counters{}, errors.New().Wrap(ErrStorageAccess, err)
	}
	return c, nil
}

// Close checkpoints the WAL into the main file and closes the database.
func (r *repository) Close() error {
	if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		r.db.Close()
		return phaseError(ErrStorageClose, "checkpoint_wal", err)
	}
	if err := r.db.Close(); err != nil {
		return phaseError(ErrStorageClose, "close_database", err)
	}

	r.logger.Debug().Msg("Metrics repository closed")
	return nil
}
