// Package mail is the application-facing mailer: it applies the configured
// default sender and hands messages to the transport selected by the DSN.
// Messages can also be queued as Laravel-compatible jobs and sent by a worker.
package mail

import (
	"context"

	"github.com/pixelvide/teneo-mailer/pkg/config"
	"github.com/pixelvide/teneo-mailer/pkg/mime"
	"github.com/pixelvide/teneo-mailer/pkg/transport"
)

// Mailer is the interface for sending emails
type Mailer interface {
	// Send sends the given message
	Send(ctx context.Context, email *mime.Email) (*transport.SentMessage, error)
}

// TransportMailer sends through a single transport
type TransportMailer struct {
	transport transport.Transport
	from      mime.Address
}

// New creates a TransportMailer. The config's from address is used for
// messages that have none.
func New(t transport.Transport, cfg config.MailConfig) *TransportMailer {
	return &TransportMailer{
		transport: t,
		from:      mime.NewAddress(cfg.FromAddress, cfg.FromName),
	}
}

// Transport returns the underlying transport
func (m *TransportMailer) Transport() transport.Transport {
	return m.transport
}

// Send fills the default From address and sends the message.
// The caller's email is not modified.
func (m *TransportMailer) Send(ctx context.Context, email *mime.Email) (*transport.SentMessage, error) {
	if email == nil {
		return nil, transport.ErrNoMessage
	}

	if len(email.From) == 0 && !m.from.IsZero() {
		withFrom := *email
		withFrom.From = []mime.Address{m.from}
		email = &withFrom
	}

	return m.transport.Send(ctx, email, nil)
}
