// Package mime holds the message model consumed by the mail transports.
//
// It does not build MIME bodies; it only describes an already composed
// message: addresses, subject, text and HTML bodies, headers and attachments.
package mime

// Attachment is a file attached to an email
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Email represents a composed email message
type Email struct {
	From        []Address
	Sender      *Address
	ReplyTo     []Address
	To          []Address
	Cc          []Address
	Bcc         []Address
	Subject     string
	Text        string
	HTML        string
	Headers     Headers
	Attachments []Attachment
}

// NewEmail creates an empty Email
func NewEmail() *Email {
	return &Email{}
}

// SetFrom replaces the From addresses
func (e *Email) SetFrom(addrs ...Address) *Email {
	e.From = addrs
	return e
}

// AddTo appends recipients
func (e *Email) AddTo(addrs ...Address) *Email {
	e.To = append(e.To, addrs...)
	return e
}

// AddCc appends carbon copy recipients
func (e *Email) AddCc(addrs ...Address) *Email {
	e.Cc = append(e.Cc, addrs...)
	return e
}

// AddBcc appends blind carbon copy recipients
func (e *Email) AddBcc(addrs ...Address) *Email {
	e.Bcc = append(e.Bcc, addrs...)
	return e
}

// SetSubject sets the subject line
func (e *Email) SetSubject(subject string) *Email {
	e.Subject = subject
	return e
}

// SetText sets the plain text body
func (e *Email) SetText(body string) *Email {
	e.Text = body
	return e
}

// SetHTML sets the HTML body
func (e *Email) SetHTML(body string) *Email {
	e.HTML = body
	return e
}

// Attach adds an attachment
func (e *Email) Attach(content []byte, filename, contentType string) *Email {
	e.Attachments = append(e.Attachments, Attachment{
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
	})
	return e
}

// AllHeaders returns the message headers, including those derived from the
// address and subject fields, followed by the custom headers.
func (e *Email) AllHeaders() []Header {
	var h Headers
	if len(e.From) > 0 {
		h.AddMailboxList("From", e.From...)
	}
	if e.Sender != nil {
		h.Add(Header{Name: "Sender", Kind: Mailbox, Body: e.Sender.String()})
	}
	if len(e.ReplyTo) > 0 {
		h.AddMailboxList("Reply-To", e.ReplyTo...)
	}
	if len(e.To) > 0 {
		h.AddMailboxList("To", e.To...)
	}
	if len(e.Cc) > 0 {
		h.AddMailboxList("Cc", e.Cc...)
	}
	if e.Subject != "" {
		h.AddText("Subject", e.Subject)
	}
	return append(h.All(), e.Headers.All()...)
}
