package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/pixelvide/teneo-mailer/pkg/mime"
)

var smtpSchemes = []string{"smtp", "smtps"}

// SMTPTransport sends messages with net/smtp.
// smtps, or port 465, uses implicit TLS; smtp upgrades with STARTTLS when offered.
type SMTPTransport struct {
	host      string
	port      int
	username  string
	password  string
	implicit  bool
	verifyTLS bool
}

// NewSMTPTransport creates an SMTPTransport
func NewSMTPTransport(host string, port int, username, password string, implicitTLS bool) *SMTPTransport {
	if port == 0 {
		port = 25
		if implicitTLS {
			port = 465
		}
	}
	return &SMTPTransport{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		implicit:  implicitTLS || port == 465,
		verifyTLS: true,
	}
}

func (t *SMTPTransport) String() string {
	scheme := "smtp"
	if t.implicit {
		scheme = "smtps"
	}
	return fmt.Sprintf("%s://%s", scheme, Endpoint(t.host, t.port))
}

// Send delivers the message over SMTP
func (t *SMTPTransport) Send(ctx context.Context, email *mime.Email, envelope *mime.Envelope) (*SentMessage, error) {
	return Deliver(ctx, t, email, envelope)
}

// DoSend implements Sender
func (t *SMTPTransport) DoSend(ctx context.Context, sent *SentMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(sent.Email.Attachments) > 0 {
		return NewTransportError(ErrUnsupportedFeature, "SMTP transport does not support attachments.", nil)
	}

	body := buildSMTPBody(sent)

	var auth smtp.Auth
	if t.username != "" && t.password != "" {
		auth = smtp.PlainAuth("", t.username, t.password, t.host)
	}

	recipients := make([]string, 0, len(sent.Envelope.Recipients))
	for _, r := range sent.Envelope.Recipients {
		recipients = append(recipients, r.Email)
	}

	if t.implicit {
		return t.sendWithImplicitTLS(ctx, auth, sent.Envelope.Sender.Email, recipients, []byte(body))
	}

	// smtp.SendMail handles STARTTLS automatically if the server supports it
	if err := smtp.SendMail(Endpoint(t.host, t.port), auth, sent.Envelope.Sender.Email, recipients, []byte(body)); err != nil {
		return NewTransportError(ErrUnreachable, fmt.Sprintf("Could not send email via %s.", t), err)
	}
	return nil
}

func (t *SMTPTransport) sendWithImplicitTLS(ctx context.Context, auth smtp.Auth, from string, to []string, msg []byte) error {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: !t.verifyTLS, //nolint:gosec // controlled by the verify_tls dsn option
		ServerName:         t.host,
	}

	dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: 30 * time.Second}, Config: tlsConfig}
	conn, err := dialer.DialContext(ctx, "tcp", Endpoint(t.host, t.port))
	if err != nil {
		return NewTransportError(ErrUnreachable, fmt.Sprintf("Could not reach %s.", t), err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() {
		_ = client.Quit()
	}()

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return nil
}

func sanitizeHeader(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r", ""), "\n", "")
}

// buildSMTPBody renders headers and a single body part. HTML wins over text.
func buildSMTPBody(sent *SentMessage) string {
	email := sent.Email
	headers := make([]string, 0, 8)

	for _, h := range email.AllHeaders() {
		if strings.EqualFold(h.Name, "Message-ID") || strings.EqualFold(h.Name, "Content-Type") {
			continue
		}
		headers = append(headers, fmt.Sprintf("%s: %s", sanitizeHeader(h.Name), sanitizeHeader(h.Body)))
	}
	headers = append(headers, fmt.Sprintf("Message-ID: <%s>", sanitizeHeader(sent.MessageID)))
	headers = append(headers, "MIME-Version: 1.0")

	contentType, body := "text/plain", email.Text
	if email.HTML != "" {
		contentType, body = "text/html", email.HTML
	}
	headers = append(headers, fmt.Sprintf("Content-Type: %s; charset=UTF-8", contentType))

	return fmt.Sprintf("%s\r\n\r\n%s", strings.Join(headers, "\r\n"), body)
}

// SMTPFactory builds SMTP transports from smtp:// and smtps:// DSNs
type SMTPFactory struct{}

// Supports implements Factory
func (SMTPFactory) Supports(dsn Dsn) bool {
	return SchemeSupported(dsn, smtpSchemes)
}

// Create implements Factory
func (f SMTPFactory) Create(dsn Dsn) (Transport, error) {
	if !f.Supports(dsn) {
		return nil, NewUnsupportedSchemeError(dsn, "smtp", smtpSchemes)
	}

	host := dsn.Host
	if host == DefaultHost {
		host = "localhost"
	}

	t := NewSMTPTransport(host, dsn.Port, dsn.User, dsn.Password, dsn.Scheme == "smtps")
	t.verifyTLS = dsn.BoolOption("verify_tls", true)
	return t, nil
}
