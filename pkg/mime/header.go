package mime

import "strings"

// HeaderKind describes how a header body is structured
type HeaderKind int

const (
	// Unstructured is a free text header (Subject, X-Mailer, List-Unsubscribe...)
	Unstructured HeaderKind = iota
	// MailboxList holds a list of addresses (From, To, Cc...)
	MailboxList
	// Mailbox holds a single address (Sender)
	Mailbox
	// Date holds an RFC 5322 date
	Date
	// Identification holds message ids (Message-ID, In-Reply-To, References)
	Identification
	// Path holds a return path
	Path
	// Parameterized holds a value with parameters (Content-Type)
	Parameterized
)

func (k HeaderKind) String() string {
	switch k {
	case Unstructured:
		return "unstructured"
	case MailboxList:
		return "mailbox-list"
	case Mailbox:
		return "mailbox"
	case Date:
		return "date"
	case Identification:
		return "identification"
	case Path:
		return "path"
	case Parameterized:
		return "parameterized"
	default:
		return "unknown"
	}
}

// Header is a single message header
type Header struct {
	Name string
	Kind HeaderKind
	Body string
}

// Headers is an ordered header collection. Names are matched case-insensitively.
type Headers struct {
	list []Header
}

// Add appends a header
func (h *Headers) Add(header Header) *Headers {
	h.list = append(h.list, header)
	return h
}

// AddText appends an unstructured header
func (h *Headers) AddText(name, body string) *Headers {
	return h.Add(Header{Name: name, Kind: Unstructured, Body: body})
}

// AddMailboxList appends an address list header
func (h *Headers) AddMailboxList(name string, addrs ...Address) *Headers {
	return h.Add(Header{Name: name, Kind: MailboxList, Body: FormatAddressList(addrs)})
}

// AddID appends an identification header
func (h *Headers) AddID(name, id string) *Headers {
	return h.Add(Header{Name: name, Kind: Identification, Body: "<" + strings.Trim(id, "<>") + ">"})
}

// Get returns the first header with the given name
func (h *Headers) Get(name string) (Header, bool) {
	if h == nil {
		return Header{}, false
	}
	for _, header := range h.list {
		if strings.EqualFold(header.Name, name) {
			return header, true
		}
	}
	return Header{}, false
}

// Has reports whether a header with the given name exists
func (h *Headers) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Remove drops every header with the given name
func (h *Headers) Remove(name string) {
	if h == nil {
		return
	}
	kept := h.list[:0]
	for _, header := range h.list {
		if !strings.EqualFold(header.Name, name) {
			kept = append(kept, header)
		}
	}
	h.list = kept
}

// All returns a copy of the headers in insertion order
func (h *Headers) All() []Header {
	if h == nil {
		return nil
	}
	out := make([]Header, len(h.list))
	copy(out, h.list)
	return out
}

// Len returns the number of headers
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.list)
}
