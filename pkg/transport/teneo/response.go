package teneo

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pixelvide/teneo-mailer/pkg/httpclient"
	"github.com/pixelvide/teneo-mailer/pkg/transport"
)

// apiResponse is the body returned by send.json
type apiResponse struct {
	Success  any             `json:"success"`
	Messages []messageResult `json:"messages"`
}

type messageResult struct {
	Success   any `json:"success"`
	MessageID any `json:"message_id"`
	Error     any `json:"error"`
}

// interpretResponse turns the HTTP result into a message id or a typed error.
// Checks run in order and the first failing one wins. The id is empty when
// the API omits message_id.
func interpretResponse(resp httpclient.Response) (string, error) {
	statusCode, err := resp.StatusCode()
	if err != nil {
		return "", transport.NewHTTPTransportError(transport.ErrUnreachable,
			"Could not reach the remote Teneo server.", resp, 0, err)
	}

	if statusCode != 200 {
		return "", transport.NewHTTPTransportError(transport.ErrHTTPStatus,
			fmt.Sprintf("Unable to send an email (code %d).", statusCode), resp, statusCode, nil)
	}

	var result *apiResponse
	err = resp.Decode(&result)
	if err == nil && result == nil {
		err = fmt.Errorf("%w: response is not an object", httpclient.ErrDecoding)
	}
	if err != nil {
		content, contentErr := resp.Content()
		if contentErr != nil {
			err = errors.Join(err, contentErr)
		}
		return "", transport.NewHTTPTransportError(transport.ErrDecoding,
			fmt.Sprintf("Unable to send an email: %s (code %d).", content, statusCode), resp, statusCode, err)
	}

	if !truthy(result.Success) || len(result.Messages) == 0 {
		return "", transport.NewHTTPTransportError(transport.ErrUnsuccessfulResponse,
			"Unable to send an email (unsuccessful response).", resp, statusCode, nil)
	}

	first := result.Messages[0]
	if !truthy(first.Success) {
		reason := "Unknown error"
		if first.Error != nil {
			reason = stringValue(first.Error)
		}
		return "", transport.NewHTTPTransportError(transport.ErrMessageRejected,
			fmt.Sprintf("Unable to send an email: %s.", reason), resp, statusCode, nil)
	}

	return stringValue(first.MessageID), nil
}

// truthy applies loose boolean semantics to a decoded JSON value:
// null, false, 0, "", "0" and empty arrays or objects are false.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != "" && val != "0"
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
