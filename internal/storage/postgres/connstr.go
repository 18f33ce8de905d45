package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// isURL reports whether connStr is a postgres:// style URI rather than a
// keyword/value DSN.
func isURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

// dsnValue looks up key in a keyword/value DSN. Keys match case-insensitively.
func dsnValue(connStr, key string) (string, bool) {
	for _, field := range strings.Fields(connStr) {
		k, v, ok := strings.Cut(field, "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), key) {
			return v, true
		}
	}
	return "", false
}

// hasParam reports whether connStr sets key, either as a URI query
// parameter or as a DSN keyword.
func hasParam(connStr, key string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for k := range u.Query() {
			if strings.EqualFold(k, key) {
				return true
			}
		}
		return false
	}
	_, ok := dsnValue(connStr, key)
	return ok
}

// withDefaultParam sets key=value on connStr unless it already sets key.
func withDefaultParam(connStr, key, value string) (string, error) {
	if hasParam(connStr, key) {
		return connStr, nil
	}
	if !isURL(connStr) {
		return strings.TrimSpace(connStr) + " " + key + "=" + value, nil
	}
	u, err := url.Parse(connStr)
	if err != nil {
		return connStr, err
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ValidateConnString checks that connStr is a usable PostgreSQL URI or DSN
// without a password. Passwords belong in ~/.pgpass or PGPASSWORD, and
// ErrEmbeddedCredentials is returned when one is present.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if !isURL(connStr) {
		if _, ok := dsnValue(connStr, "password"); ok {
			return false, ErrEmbeddedCredentials
		}
		return true, nil
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	if _, set := u.User.Password(); set {
		return false, ErrEmbeddedCredentials
	}
	if u.Host == "" && u.User == nil && strings.Trim(u.Path, "/") == "" {
		return false, fmt.Errorf("%w: no host, user or database given", ErrInvalidConnectionString)
	}
	return true, nil
}
