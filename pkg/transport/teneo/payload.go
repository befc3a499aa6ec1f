package teneo

import (
	"strings"

	"github.com/pixelvide/teneo-mailer/pkg/mime"
)

// Payload is the body of POST /api/v1/send.json
type Payload struct {
	Username string           `json:"username"`
	Password string           `json:"password"`
	Messages []MessagePayload `json:"messages"`
}

// MessagePayload describes one message. Empty bodies and subject are sent as null.
type MessagePayload struct {
	MailClass string            `json:"mailclass"`
	HTML      *string           `json:"html"`
	Text      *string           `json:"text"`
	Subject   *string           `json:"subject"`
	To        []AddressPayload  `json:"to"`
	FromEmail string            `json:"from_email"`
	Headers   map[string]string `json:"headers"`
	FromName  string            `json:"from_name,omitempty"`
}

// AddressPayload is a recipient entry
type AddressPayload struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// BuildPayload builds the request body. The API username is always qualified
// with the production host, whatever endpoint the transport talks to.
func BuildPayload(username, password string, email *mime.Email, envelope *mime.Envelope) (*Payload, error) {
	msg, err := buildMessagePayload(username, email, envelope)
	if err != nil {
		return nil, err
	}

	return &Payload{
		Username: username + "@" + DefaultHost,
		Password: password,
		Messages: []MessagePayload{msg},
	}, nil
}

func buildMessagePayload(username string, email *mime.Email, envelope *mime.Envelope) (MessagePayload, error) {
	mailClass, err := MailClass(username)
	if err != nil {
		return MessagePayload{}, err
	}

	to := make([]AddressPayload, 0, len(email.To))
	for _, a := range email.To {
		to = append(to, addressPayload(a))
	}

	return MessagePayload{
		MailClass: mailClass,
		HTML:      nullable(email.HTML),
		Text:      nullable(email.Text),
		Subject:   nullable(email.Subject),
		To:        to,
		FromEmail: envelope.Sender.Email,
		Headers:   forwardedHeaders(email.Headers.All()),
		FromName:  envelope.Sender.Name,
	}, nil
}

func addressPayload(a mime.Address) AddressPayload {
	return AddressPayload{Email: a.Email, Name: a.Name}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IsForwardedHeader reports whether a header is passed through to the API:
// plain text headers named X-* or List-*.
func IsForwardedHeader(name string, kind mime.HeaderKind, _ string) bool {
	if kind != mime.Unstructured {
		return false
	}
	return strings.HasPrefix(name, "X-") || strings.HasPrefix(name, "List-")
}

func forwardedHeaders(headers []mime.Header) map[string]string {
	result := make(map[string]string)
	for _, h := range headers {
		if IsForwardedHeader(h.Name, h.Kind, h.Body) {
			result[h.Name] = h.Body
		}
	}
	return result
}
