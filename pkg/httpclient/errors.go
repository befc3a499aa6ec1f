package httpclient

import "errors"

// ErrDecoding is returned by Response.Decode when the body is not valid JSON
var ErrDecoding = errors.New("response body is not valid JSON")
