package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"echo": body["name"]})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNetClient_InsecureRequest(t *testing.T) {
	server := newJSONServer(t)

	// Default transport does not trust the test certificate.
	client := New(5 * time.Second)

	resp, err := client.Request(context.Background(), http.MethodPost, server.URL, Options{
		JSON: map[string]string{"name": "teneo"},
	})
	require.NoError(t, err)

	code, err := resp.StatusCode()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)

	var decoded map[string]string
	require.NoError(t, resp.Decode(&decoded))
	assert.Equal(t, "teneo", decoded["echo"])
}

func TestNetClient_VerifiedRequestRejectsUnknownCertificate(t *testing.T) {
	server := newJSONServer(t)
	client := New(5 * time.Second)

	_, err := client.Request(context.Background(), http.MethodPost, server.URL, Options{
		VerifyPeer: true,
		VerifyHost: true,
		JSON:       map[string]string{"name": "teneo"},
	})
	assert.Error(t, err)
}

func TestNetClient_VerifiedRequestWithTrustedCertificate(t *testing.T) {
	server := newJSONServer(t)
	client := NewFromClient(server.Client())

	resp, err := client.Request(context.Background(), http.MethodPost, server.URL, Options{
		VerifyPeer: true,
		VerifyHost: true,
		JSON:       map[string]string{"name": "teneo"},
	})
	require.NoError(t, err)

	code, _ := resp.StatusCode()
	assert.Equal(t, http.StatusOK, code)
}

func TestNetClient_CancelledContext(t *testing.T) {
	server := newJSONServer(t)
	client := New(5 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Request(ctx, http.MethodPost, server.URL, Options{JSON: map[string]string{}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBufferedResponse_Decode(t *testing.T) {
	resp := &BufferedResponse{Status: 200, Body: []byte(";invalid0json}")}

	var v map[string]any
	err := resp.Decode(&v)
	assert.ErrorIs(t, err, ErrDecoding)

	content, err := resp.Content()
	assert.NoError(t, err)
	assert.Equal(t, ";invalid0json}", content)
}
