package storage

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/postboard/internal/db"
)

// Store drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Open returns the store for driver at path together with a function that
// releases its resources. log receives store warnings and may be nil.
func Open(driver, path string, log *zap.Logger) (Store, func() error, error) {
	switch driver {
	case DriverFile:
		fs, err := OpenFileStore(path, log)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	case DriverSQLite:
		conn, err := db.InitSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLStore(conn), conn.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
