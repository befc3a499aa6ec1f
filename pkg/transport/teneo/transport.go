// Package teneo implements the Teneo transactional mail API transport.
//
// A message becomes one JSON POST to https://<host>[:<port>]/api/v1/send.json.
// Certificate and host verification are off by default; enable them with
// WithTLSVerification or the verify_tls=1 DSN option.
package teneo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pixelvide/teneo-mailer/pkg/httpclient"
	"github.com/pixelvide/teneo-mailer/pkg/mime"
	"github.com/pixelvide/teneo-mailer/pkg/transport"
)

// DefaultHost is the production relay
const DefaultHost = "tlsrelay.teneo.be"

const sendPath = "/api/v1/send.json"

// APITransport sends messages through the Teneo HTTP API.
// Configuration is fixed at construction, so concurrent sends are safe.
type APITransport struct {
	username  string
	password  string
	host      string
	port      int
	verifyTLS bool
	client    httpclient.Client
}

// Option configures an APITransport
type Option func(*APITransport)

// WithHost overrides the relay host. An empty host keeps the default.
func WithHost(host string) Option {
	return func(t *APITransport) {
		t.host = host
	}
}

// WithPort sets an explicit port. 0 means the scheme default.
func WithPort(port int) Option {
	return func(t *APITransport) {
		t.port = port
	}
}

// WithTLSVerification turns certificate and host verification on or off
func WithTLSVerification(enabled bool) Option {
	return func(t *APITransport) {
		t.verifyTLS = enabled
	}
}

// WithHTTPClient sets the HTTP client
func WithHTTPClient(client httpclient.Client) Option {
	return func(t *APITransport) {
		if client != nil {
			t.client = client
		}
	}
}

// NewAPITransport creates an APITransport
func NewAPITransport(username, password string, opts ...Option) *APITransport {
	t := &APITransport{
		username: username,
		password: password,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		t.client = httpclient.New(httpclient.DefaultTimeout)
	}
	return t
}

func (t *APITransport) String() string {
	return fmt.Sprintf("teneo+api://%s", t.endpoint())
}

func (t *APITransport) endpoint() string {
	host := t.host
	if host == "" {
		host = DefaultHost
	}
	return transport.Endpoint(host, t.port)
}

// Send delivers the email. When envelope is nil it is derived from the email.
func (t *APITransport) Send(ctx context.Context, email *mime.Email, envelope *mime.Envelope) (*transport.SentMessage, error) {
	return transport.Deliver(ctx, transport.API(t), email, envelope)
}

// DoSendAPI performs the single HTTP attempt and records the returned message id
func (t *APITransport) DoSendAPI(ctx context.Context, sent *transport.SentMessage, email *mime.Email, envelope *mime.Envelope) (httpclient.Response, error) {
	if len(email.Attachments) > 0 {
		return nil, transport.NewTransportError(transport.ErrUnsupportedFeature,
			"Teneo api does not support attachments.", nil)
	}

	payload, err := BuildPayload(t.username, t.password, email, envelope)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Request(ctx, http.MethodPost, "https://"+t.endpoint()+sendPath, httpclient.Options{
		VerifyPeer: t.verifyTLS,
		VerifyHost: t.verifyTLS,
		JSON:       payload,
	})
	if err != nil {
		return nil, transport.NewHTTPTransportError(transport.ErrUnreachable,
			"Could not reach the remote Teneo server.", nil, 0, err)
	}

	messageID, err := interpretResponse(resp)
	if err != nil {
		return nil, err
	}

	sent.SetMessageID(messageID)
	return resp, nil
}
