package metrics

import (
	"path/filepath"

	"codeberg.org/mutker/kweeb/internal/errors"
)

const (
	// File system permissions and paths
	defaultDirPerm = 0o755
	defaultDBName  = "kweeb.db"
	backupDirName  = "backups"
)

type Config struct {
	DBPath          string
	BackupOnMigrate bool
}

// DefaultConfig places the database in dataDir.
func DefaultConfig(dataDir string) Config {
	return Config{
		DBPath:          filepath.Join(dataDir, defaultDBName),
		BackupOnMigrate: true,
	}
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New().New(ErrInvalidDBPath)
	}
	return nil
}

func (c Config) backupDir() string {
	return filepath.Join(filepath.Dir(c.DBPath), backupDirName)
}
