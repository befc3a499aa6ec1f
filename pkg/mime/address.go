package mime

import (
	"fmt"
	"net/mail"
	"strings"
)

// Address is an email address with an optional display name
type Address struct {
	Email string
	Name  string
}

// NewAddress creates an Address
func NewAddress(email, name string) Address {
	return Address{Email: email, Name: name}
}

// ParseAddress parses "foo@example.com" or "Foo <foo@example.com>"
func ParseAddress(input string) (Address, error) {
	addr, err := mail.ParseAddress(input)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", input, err)
	}
	return Address{Email: addr.Address, Name: addr.Name}, nil
}

// ParseAddressList parses a comma separated list of addresses
func ParseAddressList(input string) ([]Address, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	list, err := mail.ParseAddressList(input)
	if err != nil {
		return nil, fmt.Errorf("invalid address list %q: %w", input, err)
	}

	result := make([]Address, 0, len(list))
	for _, a := range list {
		result = append(result, Address{Email: a.Address, Name: a.Name})
	}
	return result, nil
}

// String renders the address in RFC 5322 form
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// IsZero reports whether the address has no email
func (a Address) IsZero() bool {
	return a.Email == ""
}

// FormatAddressList renders addresses as a comma separated header value
func FormatAddressList(addrs []Address) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}
