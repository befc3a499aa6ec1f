package mail

import (
	"fmt"

	"github.com/pixelvide/teneo-mailer/pkg/config"
	"github.com/pixelvide/teneo-mailer/pkg/httpclient"
	"github.com/pixelvide/teneo-mailer/pkg/transport"
	"github.com/pixelvide/teneo-mailer/pkg/transport/teneo"
)

// Factories returns the transport factories known to the mailer
func Factories(client httpclient.Client) []transport.Factory {
	return []transport.Factory{
		teneo.NewFactory(client),
		transport.SMTPFactory{},
		transport.NativeFactory{},
	}
}

// NewMailer creates a new Mailer based on the configuration
func NewMailer(cfg config.MailConfig) (*TransportMailer, error) {
	client := httpclient.New(cfg.Timeout)

	t, err := transport.FromDSN(cfg.DSNString(), Factories(client)...)
	if err != nil {
		return nil, fmt.Errorf("unsupported mailer %q: %w", cfg.Mailer, err)
	}

	return New(t, cfg), nil
}
