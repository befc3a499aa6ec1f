// Package transport defines mail transports, the DSN they are configured
// from, and the shared delivery path (envelope resolution, logging, tracing).
package transport

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pixelvide/teneo-mailer/pkg/httpclient"
	"github.com/pixelvide/teneo-mailer/pkg/mime"
)

const tracerName = "github.com/pixelvide/teneo-mailer/pkg/transport"

// ErrNoMessage is returned when Send is called with a nil email
var ErrNoMessage = errors.New("no message to send")

// Transport sends email messages
type Transport interface {
	// Send delivers the email. When envelope is nil it is derived from the email.
	Send(ctx context.Context, email *mime.Email, envelope *mime.Envelope) (*SentMessage, error)
	// String identifies the transport for logs, e.g. "teneo+api://tlsrelay.teneo.be"
	String() string
}

// SentMessage is the evidence of a successful send
type SentMessage struct {
	Email     *mime.Email
	Envelope  *mime.Envelope
	MessageID string
	Transport string
	// Response is set by API transports
	Response httpclient.Response
}

// NewSentMessage prepares a SentMessage. The id defaults to the email's
// Message-ID header, or a generated one using the sender's domain.
func NewSentMessage(email *mime.Email, envelope *mime.Envelope) *SentMessage {
	sent := &SentMessage{Email: email, Envelope: envelope}

	if h, ok := email.Headers.Get("Message-ID"); ok {
		sent.MessageID = strings.Trim(h.Body, "<>")
	} else {
		domain := "localhost"
		if at := strings.LastIndex(envelope.Sender.Email, "@"); at >= 0 {
			domain = envelope.Sender.Email[at+1:]
		}
		sent.MessageID = uuid.NewString() + "@" + domain
	}

	return sent
}

// SetMessageID records the identifier assigned by the remote side.
// An empty id keeps the current one.
func (m *SentMessage) SetMessageID(id string) {
	if id == "" {
		return
	}
	m.MessageID = id
}

// Sender is the capability a concrete transport implements; Deliver handles the rest
type Sender interface {
	String() string
	DoSend(ctx context.Context, sent *SentMessage) error
}

// APISender is implemented by transports that send through an HTTP API
type APISender interface {
	String() string
	DoSendAPI(ctx context.Context, sent *SentMessage, email *mime.Email, envelope *mime.Envelope) (httpclient.Response, error)
}

type apiSender struct {
	APISender
}

func (a apiSender) DoSend(ctx context.Context, sent *SentMessage) error {
	resp, err := a.DoSendAPI(ctx, sent, sent.Email, sent.Envelope)
	if err != nil {
		return err
	}
	sent.Response = resp
	return nil
}

// API adapts an APISender to a Sender
func API(s APISender) Sender {
	return apiSender{APISender: s}
}

// Deliver resolves the envelope, then runs the sender inside a span with logging
func Deliver(ctx context.Context, s Sender, email *mime.Email, envelope *mime.Envelope) (*SentMessage, error) {
	if email == nil {
		return nil, ErrNoMessage
	}

	var err error
	if envelope == nil {
		envelope, err = mime.EnvelopeFromEmail(email)
	} else {
		err = envelope.Validate()
	}
	if err != nil {
		return nil, err
	}

	name := s.String()
	sent := NewSentMessage(email, envelope)
	sent.Transport = name

	ctx, span := otel.Tracer(tracerName).Start(ctx, "mail.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("mail.transport", name),
			attribute.Int("mail.recipients", len(envelope.Recipients)),
		),
	)
	defer span.End()

	logger := zerolog.Ctx(ctx).With().
		Str("transport", name).
		Str("from", envelope.Sender.Email).
		Int("recipients", len(envelope.Recipients)).
		Logger()

	logger.Debug().Str("subject", email.Subject).Msg("Sending email")

	if err := s.DoSend(ctx, sent); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().Err(err).Msg("Email sending failed")
		return nil, err
	}

	span.SetAttributes(attribute.String("mail.message_id", sent.MessageID))
	logger.Info().Str("message_id", sent.MessageID).Msg("Email sent")

	return sent, nil
}
