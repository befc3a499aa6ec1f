package teneo

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrMailClassNotFound is returned when the username carries no mail class token
var ErrMailClassNotFound = errors.New("username does not contain a mailclass-<name> token")

var mailClassPattern = regexp.MustCompile(`mailclass-([a-z0-9]+)`)

// MailClass extracts the mail class from a Teneo username.
// "mailclass-test" and "acme-mailclass-news2" yield "test" and "news2".
func MailClass(username string) (string, error) {
	m := mailClassPattern.FindStringSubmatch(username)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrMailClassNotFound, username)
	}
	return m[1], nil
}
