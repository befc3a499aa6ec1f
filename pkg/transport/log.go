package transport

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pixelvide/teneo-mailer/pkg/mime"
)

var logSchemes = []string{"log"}

// LogTransport writes messages to the context logger instead of sending them
type LogTransport struct{}

// NewLogTransport creates a LogTransport
func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

func (t *LogTransport) String() string {
	return "log://"
}

// Send logs the message details
func (t *LogTransport) Send(ctx context.Context, email *mime.Email, envelope *mime.Envelope) (*SentMessage, error) {
	return Deliver(ctx, t, email, envelope)
}

// DoSend implements Sender
func (t *LogTransport) DoSend(ctx context.Context, sent *SentMessage) error {
	email := sent.Email

	to := make([]string, 0, len(email.To))
	for _, a := range email.To {
		to = append(to, a.String())
	}

	logger := zerolog.Ctx(ctx).With().
		Str("mailer", "log").
		Str("from", sent.Envelope.Sender.String()).
		Strs("to", to).
		Str("subject", email.Subject).
		Str("message_id", sent.MessageID).
		Logger()

	if len(email.Cc) > 0 {
		cc := make([]string, 0, len(email.Cc))
		for _, a := range email.Cc {
			cc = append(cc, a.String())
		}
		logger = logger.With().Strs("cc", cc).Logger()
	}
	if len(email.Attachments) > 0 {
		logger = logger.With().Int("attachments", len(email.Attachments)).Logger()
	}

	logger.Info().Msg("Sending email")

	if email.Text != "" {
		logger.Info().Msgf("Text body:\n%s", email.Text)
	}
	if email.HTML != "" {
		logger.Info().Msgf("HTML body:\n%s", email.HTML)
	}

	return nil
}

// NullTransport discards every message
type NullTransport struct{}

// NewNullTransport creates a NullTransport
func NewNullTransport() *NullTransport {
	return &NullTransport{}
}

func (t *NullTransport) String() string {
	return "null://"
}

// Send discards the message
func (t *NullTransport) Send(ctx context.Context, email *mime.Email, envelope *mime.Envelope) (*SentMessage, error) {
	return Deliver(ctx, t, email, envelope)
}

// DoSend implements Sender
func (t *NullTransport) DoSend(_ context.Context, _ *SentMessage) error {
	return nil
}

// NativeFactory builds the log and null transports
type NativeFactory struct{}

// Supports implements Factory
func (NativeFactory) Supports(dsn Dsn) bool {
	return dsn.Scheme == "null" || SchemeSupported(dsn, logSchemes)
}

// Create implements Factory
func (f NativeFactory) Create(dsn Dsn) (Transport, error) {
	switch dsn.Scheme {
	case "log":
		return NewLogTransport(), nil
	case "null":
		return NewNullTransport(), nil
	default:
		return nil, NewUnsupportedSchemeError(dsn, "native", []string{"log", "null"})
	}
}
