// Package identity persists the opaque per-installation device token used
// to partition mirrored metrics.
package identity

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/kweeb/internal/errors"
	"github.com/google/uuid"
)

const (
	ErrIdentity = errors.ErrorCode("identity_error")

	filePerm = 0o600
	dirPerm  = 0o700
)

// DeviceID is a stable per-installation token.
type DeviceID string

func (d DeviceID) String() string { return string(d) }

// LoadOrCreate returns the token stored at path. When the file is missing
// or blank a new random token is generated and written there first.
func LoadOrCreate(path string) (DeviceID, error) {
	errFactory := errors.New()

	if path == "" {
		return "", errFactory.WithMessage(ErrIdentity, "device id path is empty")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if id := strings.TrimSpace(string(data)); id != "" {
			return DeviceID(id), nil
		}
	case !os.IsNotExist(err):
		return "", errFactory.Wrap(ErrIdentity, err)
	}

	id := DeviceID(uuid.New().String())

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return "", errFactory.Wrap(ErrIdentity, err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), filePerm); err != nil {
		return "", errFactory.Wrap(ErrIdentity, err)
	}

	return id, nil
}
