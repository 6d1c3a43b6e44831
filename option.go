package paypro

import (
	"net/http"
	"time"

	"github.com/vitwit/paypro/logger"
	"github.com/vitwit/paypro/metrics"
	"github.com/vitwit/paypro/transport"
)

type Option func(*Client)

func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = r
	}
}

// WithTimeout bounds each request made by the default HTTP client. It has
// no effect when a custom transport or HTTP client is supplied.
func WithTimeout(t time.Duration) Option {
	return func(c *Client) {
		c.timeout = t
	}
}

// WithHTTPClient sends all requests through the given HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.transport = transport.NewHTTPTransport(h)
	}
}

// WithTransport replaces the HTTP layer entirely.
func WithTransport(d transport.Doer) Option {
	return func(c *Client) {
		c.transport = d
	}
}
