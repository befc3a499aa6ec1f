package transport

import (
	"fmt"
	"net/url"
	"strconv"
)

// Dsn describes how to reach a mail transport:
//
//	scheme://[user[:password]@]host[:port][?option=value]
//
// The host "default" asks the transport to use its built-in endpoint.
type Dsn struct {
	Scheme   string
	Host     string
	User     string
	Password string
	Port     int
	Options  map[string]string
}

// DefaultHost is the placeholder host meaning "use the transport's default endpoint"
const DefaultHost = "default"

// NewDsn creates a Dsn
func NewDsn(scheme, host, user, password string, port int) Dsn {
	return Dsn{
		Scheme:   scheme,
		Host:     host,
		User:     user,
		Password: password,
		Port:     port,
	}
}

// ParseDsn parses a DSN string. User and password are URL-decoded.
func ParseDsn(raw string) (Dsn, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Dsn{}, fmt.Errorf("%w: the %q mailer DSN is invalid", ErrInvalidDsn, raw)
	}
	if u.Scheme == "" {
		return Dsn{}, fmt.Errorf("%w: the mailer DSN must contain a scheme", ErrInvalidDsn)
	}
	if u.Hostname() == "" {
		return Dsn{}, fmt.Errorf("%w: the mailer DSN must contain a host (use %q by default)", ErrInvalidDsn, DefaultHost)
	}

	dsn := Dsn{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
	}

	if u.User != nil {
		dsn.User = u.User.Username()
		dsn.Password, _ = u.User.Password()
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return Dsn{}, fmt.Errorf("%w: invalid port %q", ErrInvalidDsn, p)
		}
		dsn.Port = port
	}

	query := u.Query()
	if len(query) > 0 {
		dsn.Options = make(map[string]string, len(query))
		for k := range query {
			dsn.Options[k] = query.Get(k)
		}
	}

	return dsn, nil
}

// Option returns the option value or def when unset
func (d Dsn) Option(key, def string) string {
	if v, ok := d.Options[key]; ok {
		return v
	}
	return def
}

// BoolOption interprets an option as a boolean ("1", "true", "yes", "on")
func (d Dsn) BoolOption(key string, def bool) bool {
	v, ok := d.Options[key]
	if !ok {
		return def
	}
	switch v {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// String renders the DSN with the password masked
func (d Dsn) String() string {
	u := url.URL{Scheme: d.Scheme, Host: d.Host}
	if d.Port > 0 {
		u.Host = fmt.Sprintf("%s:%d", d.Host, d.Port)
	}
	switch {
	case d.User != "" && d.Password != "":
		u.User = url.UserPassword(d.User, "****")
	case d.User != "":
		u.User = url.User(d.User)
	}
	return u.String()
}
