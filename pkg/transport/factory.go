package transport

import (
	"fmt"
	"slices"
)

// Factory builds transports from a Dsn
type Factory interface {
	// Create returns a transport configured from the DSN
	Create(dsn Dsn) (Transport, error)
	// Supports reports whether the factory handles the DSN scheme
	Supports(dsn Dsn) bool
}

// FromDSN parses the DSN string and builds a transport with the first factory that supports it
func FromDSN(raw string, factories ...Factory) (Transport, error) {
	dsn, err := ParseDsn(raw)
	if err != nil {
		return nil, err
	}
	return FromDsnObject(dsn, factories...)
}

// FromDsnObject builds a transport with the first factory that supports the DSN
func FromDsnObject(dsn Dsn, factories ...Factory) (Transport, error) {
	for _, f := range factories {
		if f.Supports(dsn) {
			return f.Create(dsn)
		}
	}
	return nil, NewUnsupportedSchemeError(dsn, "", nil)
}

// SchemeSupported is a helper for factories with a fixed scheme list
func SchemeSupported(dsn Dsn, schemes []string) bool {
	return slices.Contains(schemes, dsn.Scheme)
}

// RequireUser returns the DSN user or an incomplete DSN error
func RequireUser(dsn Dsn) (string, error) {
	if dsn.User == "" {
		return "", NewIncompleteDsnError("User is not set.")
	}
	return dsn.User, nil
}

// RequirePassword returns the DSN password or an incomplete DSN error
func RequirePassword(dsn Dsn) (string, error) {
	if dsn.Password == "" {
		return "", NewIncompleteDsnError("Password is not set.")
	}
	return dsn.Password, nil
}

// Endpoint joins host and port. Port 0 is omitted.
func Endpoint(host string, port int) string {
	if port > 0 {
		return fmt.Sprintf("%s:%d", host, port)
	}
	return host
}
