// Package paypro implements the client side of the JSON payment protocol,
// version 2: a four-step negotiation with a merchant in which every
// response must carry a valid digest and secp256k1 signature from a
// pre-trusted identity before its payload reaches the caller.
package paypro

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vitwit/paypro/logger"
	"github.com/vitwit/paypro/metrics"
	"github.com/vitwit/paypro/transport"
	"github.com/vitwit/paypro/trust"
	"github.com/vitwit/paypro/types"
	"github.com/vitwit/paypro/utils"
	"github.com/vitwit/paypro/verification"
)

// Operation names used in logs and metrics.
const (
	opFetchOptions    = "fetch_options"
	opSelectOption    = "select_option"
	opPreviewUnsigned = "preview_unsigned"
	opSubmitSigned    = "submit_signed"
)

// Client negotiates payments with merchants. Every response passes the
// signed-response trust checks unless the client was built with
// NewInsecure.
type Client struct {
	verifier  *verification.Verifier
	transport transport.Doer
	logger    logger.Logger
	metrics   metrics.Recorder
	timeout   time.Duration
}

// New creates a Client that trusts exactly the given keys, keyed by the
// x-identity value each merchant sends.
func New(keys map[string]types.TrustedKey, opts ...Option) (*Client, error) {
	store, err := trust.NewStore(keys)
	if err != nil {
		return nil, err
	}

	c := newClient(opts)
	c.verifier = verification.New(store)
	return c, nil
}

// NewInsecure creates a Client that skips all response verification. For
// diagnostics against test merchants only; never use it with real money.
func NewInsecure(opts ...Option) *Client {
	c := newClient(opts)
	c.verifier = verification.NewInsecure()
	return c
}

// NewFromConfig creates a Client from a parsed Config, wiring up the
// logger and metrics recorder it asks for. Options apply on top.
func NewFromConfig(config *types.Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, &types.Error{
			Code:    types.ErrConfigError,
			Message: "config is required",
		}
	}

	base := make([]Option, 0, len(opts)+3)
	if config.LogLevel != "" {
		base = append(base, WithLogger(logger.NewZapLogger(config.LogLevel)))
	}
	if config.EnableMetrics {
		base = append(base, WithMetrics(metrics.NewPrometheusRecorder()))
	}
	if config.RequestTimeout > 0 {
		base = append(base, WithTimeout(config.RequestTimeout))
	}

	return New(config.TrustedKeys, append(base, opts...)...)
}

func newClient(opts []Option) *Client {
	c := &Client{
		logger:  logger.NoopLogger{},
		metrics: metrics.NoopRecorder{},
		timeout: transport.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		c.transport = transport.NewHTTPTransport(&http.Client{Timeout: c.timeout})
	}

	return c
}

// Insecure reports whether this client skips response verification.
func (c *Client) Insecure() bool {
	return c.verifier.Insecure()
}

// FetchOptions asks the merchant which chains and currencies it accepts.
// paymentURL may be a direct https URL or a wallet URI like
// "bitcoin:?r=https://merchant.example/i/Xyz9k".
func (c *Client) FetchOptions(ctx context.Context, paymentURL string) (*types.VerifiedResult, error) {
	target, err := resolvePaymentURL(paymentURL)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Accept", types.MIMEPaymentOptions)
	header.Set(types.HeaderVersion, types.ProtocolVersion)

	return c.roundTrip(ctx, opFetchOptions, "", http.MethodGet, target, header, nil)
}

// SelectOption tells the merchant which chain and optional currency the
// payer picked and fetches the exact payment terms for it.
func (c *Client) SelectOption(ctx context.Context, paymentURL, chain, currency string) (*types.VerifiedResult, error) {
	if paymentURL == "" {
		return nil, types.NewError(types.ErrInvalidArgument, "payment url is required")
	}

	selection := &types.OptionSelection{Chain: chain, Currency: currency}
	if err := selection.Validate(); err != nil {
		return nil, &types.Error{
			Code:    types.ErrInvalidArgument,
			Message: err.Error(),
		}
	}

	body, err := json.Marshal(selection)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidArgument, "cannot encode option selection: %v", err)
	}

	return c.roundTrip(ctx, opSelectOption, chain, http.MethodPost, paymentURL, postHeader(types.MIMEPaymentRequest), body)
}

// PreviewUnsigned sends the unsigned transactions to the merchant so it
// can check amounts and fees before the payer signs anything.
func (c *Client) PreviewUnsigned(ctx context.Context, paymentURL, chain, currency string, txs []types.Transaction) (*types.VerifiedResult, error) {
	return c.submit(ctx, opPreviewUnsigned, types.MIMEPaymentVerification, paymentURL, chain, currency, txs)
}

// SubmitSigned submits the fully signed transactions, completing the
// payment. Call it only after PreviewUnsigned succeeded: merchants may
// reject or, worse, partially broadcast unvetted payments.
func (c *Client) SubmitSigned(ctx context.Context, paymentURL, chain, currency string, txs []types.Transaction) (*types.VerifiedResult, error) {
	return c.submit(ctx, opSubmitSigned, types.MIMEPayment, paymentURL, chain, currency, txs)
}

func (c *Client) submit(ctx context.Context, op, contentType, paymentURL, chain, currency string, txs []types.Transaction) (*types.VerifiedResult, error) {
	if paymentURL == "" {
		return nil, types.NewError(types.ErrInvalidArgument, "payment url is required")
	}

	submission := &types.PaymentSubmission{
		Chain:        chain,
		Currency:     currency,
		Transactions: txs,
	}
	if err := submission.Validate(); err != nil {
		return nil, &types.Error{
			Code:    types.ErrInvalidArgument,
			Message: err.Error(),
		}
	}

	body, err := json.Marshal(submission)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidArgument, "cannot encode payment submission: %v", err)
	}

	return c.roundTrip(ctx, op, chain, http.MethodPost, paymentURL, postHeader(contentType), body)
}

// roundTrip performs one exchange and runs the response through the
// verifier. Verification errors propagate to the caller unchanged.
func (c *Client) roundTrip(ctx context.Context, op, chain, method, requestURL string, header http.Header, body []byte) (*types.VerifiedResult, error) {
	start := time.Now()
	labels := map[string]string{"chain": chain}

	c.logger.Debug("sending payment protocol request", map[string]any{
		"operation": op,
		"method":    method,
		"url":       requestURL,
	})

	resp, err := c.transport.Do(ctx, method, requestURL, header, body)
	if err != nil {
		c.metrics.IncCounter("transport_failure", labels)
		c.logger.Error("payment protocol request failed", map[string]any{
			"operation": op,
			"url":       requestURL,
			"error":     err.Error(),
		})
		return nil, &types.Error{
			Code:    types.ErrTransportError,
			Message: fmt.Sprintf("request to %s failed: %v", requestURL, err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.IncCounter("transport_failure", labels)
		return nil, &types.Error{
			Code:    types.ErrTransportError,
			Message: fmt.Sprintf("%s returned status %d", requestURL, resp.StatusCode),
			Data: map[string]interface{}{
				"statusCode": resp.StatusCode,
				"body":       string(resp.Body),
			},
		}
	}

	result, err := c.verifier.Verify(requestURL, resp.Body, resp.Header)
	if err != nil {
		c.metrics.IncCounter("verification_failure", labels)
		c.logger.Error("response verification failed", map[string]any{
			"operation": op,
			"url":       requestURL,
			"error":     err.Error(),
		})
		return nil, err
	}

	c.metrics.IncCounter(op, labels)
	c.metrics.ObserveLatency(op, time.Since(start), labels)

	c.logger.Info("payment protocol response verified", map[string]any{
		"operation": op,
		"url":       requestURL,
		"verified":  result.Verified(),
	})

	return result, nil
}

// postHeader builds the headers every negotiation POST carries.
func postHeader(contentType string) http.Header {
	header := http.Header{}
	header.Set("Content-Type", contentType)
	header.Set(types.HeaderVersion, types.ProtocolVersion)
	return header
}

// resolvePaymentURL accepts either a direct http(s) URL or a wallet URI
// whose r query parameter carries the payment url.
func resolvePaymentURL(paymentURL string) (string, error) {
	if paymentURL == "" {
		return "", types.NewError(types.ErrInvalidArgument, "payment url is required")
	}

	if u, err := url.Parse(paymentURL); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return paymentURL, nil
	}

	return utils.PaymentURLFromURI(paymentURL)
}
