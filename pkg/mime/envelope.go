package mime

import "errors"

var (
	// ErrNoSender is returned when neither Sender nor From is set
	ErrNoSender = errors.New("unable to determine the envelope sender")
	// ErrNoRecipients is returned when To, Cc and Bcc are all empty
	ErrNoRecipients = errors.New("an envelope must have at least one recipient")
)

// Envelope holds the addresses used for the actual transmission.
// It may differ from the message's declared From/To headers.
type Envelope struct {
	Sender     Address
	Recipients []Address
}

// NewEnvelope creates an Envelope and validates it
func NewEnvelope(sender Address, recipients []Address) (*Envelope, error) {
	env := &Envelope{Sender: sender, Recipients: recipients}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

// EnvelopeFromEmail derives the envelope from the message headers.
// The sender is the Sender header when set, otherwise the first From address.
// Recipients are To, Cc and Bcc in that order.
func EnvelopeFromEmail(email *Email) (*Envelope, error) {
	var sender Address
	switch {
	case email.Sender != nil && !email.Sender.IsZero():
		sender = *email.Sender
	case len(email.From) > 0:
		sender = email.From[0]
	}

	recipients := make([]Address, 0, len(email.To)+len(email.Cc)+len(email.Bcc))
	recipients = append(recipients, email.To...)
	recipients = append(recipients, email.Cc...)
	recipients = append(recipients, email.Bcc...)

	return NewEnvelope(sender, recipients)
}

// Validate checks the envelope can be used for sending
func (e *Envelope) Validate() error {
	if e.Sender.IsZero() {
		return ErrNoSender
	}
	if len(e.Recipients) == 0 {
		return ErrNoRecipients
	}
	return nil
}
