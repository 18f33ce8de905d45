// Package keyring keeps the PostgreSQL connection string in the OS keyring
// so it never has to live in config.yaml or shell history.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/meter/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// The secret is stored under service "meter", user DefaultKeyringUser.
const service = constants.AppName

// translate maps go-keyring errors onto this package's sentinels.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gokeyring.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %s: %v", ErrKeyringUnavailable, op, err)
	}
}

// GetConnectionString returns the stored connection string or ErrNotFound.
func GetConnectionString() (string, error) {
	s, err := gokeyring.Get(service, constants.DefaultKeyringUser)
	if err != nil {
		return "", translate("read", err)
	}
	return s, nil
}

// SetConnectionString replaces any stored connection string.
func SetConnectionString(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return translate("write", gokeyring.Set(service, constants.DefaultKeyringUser, connStr))
}

func DeleteConnectionString() error {
	return translate("delete", gokeyring.Delete(service, constants.DefaultKeyringUser))
}

// IsAvailable reads a key that is never written. Not-found still means the
// keyring answered.
func IsAvailable() bool {
	_, err := gokeyring.Get(service, "availability-probe")
	return err == nil || errors.Is(err, gokeyring.ErrNotFound)
}
