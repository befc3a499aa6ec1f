package transport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pixelvide/teneo-mailer/pkg/httpclient"
)

var (
	// ErrInvalidDsn is returned when a DSN string cannot be parsed
	ErrInvalidDsn = errors.New("invalid mailer dsn")

	// ErrUnsupportedScheme is returned when no factory handles the DSN scheme
	ErrUnsupportedScheme = errors.New("unsupported mailer scheme")

	// ErrIncompleteDsn is returned when the DSN lacks a value the transport needs
	ErrIncompleteDsn = errors.New("incomplete mailer dsn")

	// ErrUnsupportedFeature is returned when the message uses something the transport cannot send
	ErrUnsupportedFeature = errors.New("unsupported mail feature")

	// ErrUnreachable is returned when the remote server could not be reached
	ErrUnreachable = errors.New("remote server unreachable")

	// ErrHTTPStatus is returned for an unexpected HTTP status code
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrDecoding is returned when the response body is not valid JSON
	ErrDecoding = errors.New("undecodable response")

	// ErrUnsuccessfulResponse is returned when the API reports overall failure
	ErrUnsuccessfulResponse = errors.New("unsuccessful response")

	// ErrMessageRejected is returned when the API rejects the message
	ErrMessageRejected = errors.New("message rejected")
)

// TransportError is a failure to send a message.
// Kind is one of the Err* sentinels and is matched with errors.Is.
type TransportError struct {
	Kind    error
	Message string
	Err     error
}

// NewTransportError creates a TransportError
func NewTransportError(kind error, message string, cause error) *TransportError {
	return &TransportError{Kind: kind, Message: message, Err: cause}
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// HTTPTransportError is a TransportError that carries the HTTP response for inspection.
// Response is nil when the server was never reached.
type HTTPTransportError struct {
	TransportError
	Response   httpclient.Response
	StatusCode int
}

// NewHTTPTransportError creates an HTTPTransportError
func NewHTTPTransportError(kind error, message string, resp httpclient.Response, statusCode int, cause error) *HTTPTransportError {
	return &HTTPTransportError{
		TransportError: TransportError{Kind: kind, Message: message, Err: cause},
		Response:       resp,
		StatusCode:     statusCode,
	}
}

// NewUnsupportedSchemeError builds the error returned by factories for a scheme they do not handle
func NewUnsupportedSchemeError(dsn Dsn, mailer string, supported []string) error {
	if mailer == "" || len(supported) == 0 {
		return fmt.Errorf("%w: the %q scheme is not supported", ErrUnsupportedScheme, dsn.Scheme)
	}

	quoted := make([]string, len(supported))
	for i, s := range supported {
		quoted[i] = `"` + s + `"`
	}

	return NewTransportError(ErrUnsupportedScheme, fmt.Sprintf(
		"The %q scheme is not supported; supported schemes for mailer %q are: %s.",
		dsn.Scheme, mailer, strings.Join(quoted, ", "),
	), nil)
}

// NewIncompleteDsnError builds the error for a DSN that lacks a required value
func NewIncompleteDsnError(message string) error {
	return NewTransportError(ErrIncompleteDsn, message, nil)
}
