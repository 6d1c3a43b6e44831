// Package transport performs the raw HTTP exchanges of the payment
// protocol. Bodies and headers are handed back untouched so the
// verification layer sees exactly the bytes the merchant signed.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds requests made by the default HTTP client.
const DefaultTimeout = 30 * time.Second

// Response is the raw outcome of one exchange: status code, body bytes and
// response headers, before any decoding or verification.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Doer performs one HTTP exchange. Implementations must return the body
// bytes exactly as received.
type Doer interface {
	Do(ctx context.Context, method, url string, header http.Header, body []byte) (*Response, error)
}

// HTTPTransport is the net/http backed Doer.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps client into a Doer. A nil client gets a default
// one bounded by DefaultTimeout.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	return &HTTPTransport{client: client}
}

// Do sends one request and reads the full response body.
func (t *HTTPTransport) Do(ctx context.Context, method, url string, header http.Header, body []byte) (*Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Header:     resp.Header,
	}, nil
}
