package teneo

import (
	"github.com/pixelvide/teneo-mailer/pkg/httpclient"
	"github.com/pixelvide/teneo-mailer/pkg/transport"
)

var supportedSchemes = []string{"teneo", "teneo+api"}

// Factory builds APITransports from teneo:// and teneo+api:// DSNs
type Factory struct {
	client httpclient.Client
}

// NewFactory creates a Factory. A nil client gets the default net/http client.
func NewFactory(client httpclient.Client) *Factory {
	return &Factory{client: client}
}

// SupportedSchemes lists the DSN schemes handled by the factory
func (f *Factory) SupportedSchemes() []string {
	return append([]string(nil), supportedSchemes...)
}

// Supports implements transport.Factory
func (f *Factory) Supports(dsn transport.Dsn) bool {
	return transport.SchemeSupported(dsn, supportedSchemes)
}

// Create implements transport.Factory. Both schemes build the API transport.
func (f *Factory) Create(dsn transport.Dsn) (transport.Transport, error) {
	if !f.Supports(dsn) {
		return nil, transport.NewUnsupportedSchemeError(dsn, "teneo", supportedSchemes)
	}

	user, err := transport.RequireUser(dsn)
	if err != nil {
		return nil, err
	}
	password, err := transport.RequirePassword(dsn)
	if err != nil {
		return nil, err
	}

	host := dsn.Host
	if host == transport.DefaultHost {
		host = ""
	}

	return NewAPITransport(user, password,
		WithHost(host),
		WithPort(dsn.Port),
		WithTLSVerification(dsn.BoolOption("verify_tls", false)),
		WithHTTPClient(f.client),
	), nil
}
