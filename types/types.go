package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ProtocolVersion is the payment protocol revision this client speaks,
// sent in the x-paypro-version header on every request.
const ProtocolVersion = "2"

// Header names of the signed-response trust protocol.
const (
	HeaderVersion       = "x-paypro-version"
	HeaderDigest        = "digest"
	HeaderSignature     = "signature"
	HeaderSignatureType = "x-signature-type"
	HeaderIdentity      = "x-identity"
)

// SignatureTypeECC is the only signature scheme this client accepts:
// secp256k1 ECDSA over the SHA-256 digest of the response body.
const SignatureTypeECC = "ecc"

// MIME types that select the negotiation step on the wire.
const (
	MIMEPaymentOptions      = "application/payment-options"
	MIMEPaymentRequest      = "application/payment-request"
	MIMEPaymentVerification = "application/payment-verification"
	MIMEPayment             = "application/payment"
)

// Chain identifiers commonly offered by merchants. The protocol treats
// chains as opaque strings, so any value a merchant offers works.
const (
	ChainBTC   = "BTC"
	ChainBCH   = "BCH"
	ChainETH   = "ETH"
	ChainXRP   = "XRP"
	ChainDOGE  = "DOGE"
	ChainLTC   = "LTC"
	ChainMATIC = "MATIC"
)

// Currencies commonly offered on the account-based chains, where one chain
// carries several tokens. Opaque to the protocol, like chains.
const (
	CurrencyUSDC = "USDC"
	CurrencyGUSD = "GUSD"
	CurrencyUSDP = "USDP"
	CurrencyBUSD = "BUSD"
	CurrencyDAI  = "DAI"
	CurrencyWBTC = "WBTC"
)

// TrustedKey is one entry of the trusted-key table: a merchant identity
// pinned to its secp256k1 public key and the domains it may sign for.
type TrustedKey struct {
	// Identity is the value the merchant sends in the x-identity header.
	// When keys are loaded from JSON, the map key fills this in.
	Identity string `json:"identity,omitempty"`

	// Owner is a human-readable label for the key holder.
	Owner string `json:"owner,omitempty"`

	// PublicKey is the hex-encoded secp256k1 public key, compressed or
	// uncompressed.
	PublicKey string `json:"publicKey" validate:"required,hexadecimal"`

	// Domains lists the hostnames this key is allowed to sign responses
	// for. Matching is exact and case-insensitive; an empty list means the
	// key never authorizes anything.
	Domains []string `json:"domains"`

	// Networks optionally notes which merchant networks the key belongs to
	// (for example "main" or "test"). Informational only.
	Networks []string `json:"networks,omitempty"`
}

// VerifiedResult is a merchant response that passed the trust checks.
type VerifiedResult struct {
	// RequestURL is the URL the response was fetched from.
	RequestURL string `json:"requestUrl"`

	// Data is the decoded JSON document of the response body.
	Data map[string]interface{} `json:"data"`

	// Raw holds the exact body bytes the digest and signature were checked
	// against.
	Raw []byte `json:"-"`

	// Key is the trusted key that signed the response. It is nil when
	// verification was bypassed by an insecure client.
	Key *TrustedKey `json:"key,omitempty"`
}

// Verified reports whether the response actually passed signature
// verification rather than being waved through by an insecure client.
func (r *VerifiedResult) Verified() bool {
	return r.Key != nil
}

// Decode unmarshals the raw response body into v.
func (r *VerifiedResult) Decode(v interface{}) error {
	return json.Unmarshal(r.Raw, v)
}

// OptionSelection is the body of a payment-request POST: the chain and
// optional currency the payer picked from the offered options.
type OptionSelection struct {
	Chain    string `json:"chain" validate:"required"`
	Currency string `json:"currency,omitempty"`
}

// Validate checks that the OptionSelection contains all required fields.
func (s *OptionSelection) Validate() error {
	if s.Chain == "" {
		return fmt.Errorf("chain is required")
	}
	return nil
}

// Transaction is one serialized transaction exchanged during payment
// verification and submission.
type Transaction struct {
	// Tx is the hex-encoded serialized transaction, unsigned when sent for
	// verification and fully signed when submitted.
	Tx string `json:"tx" validate:"required"`

	// WeightedSize is the size the transaction will have once signatures
	// are attached. Merchants use it to check the proposed fee.
	WeightedSize int `json:"weightedSize,omitempty"`
}

// PaymentSubmission is the body of payment-verification and payment POSTs.
type PaymentSubmission struct {
	Chain        string        `json:"chain" validate:"required"`
	Currency     string        `json:"currency,omitempty"`
	Transactions []Transaction `json:"transactions" validate:"required,min=1,dive"`
}

// Validate checks that the PaymentSubmission contains all required fields.
func (p *PaymentSubmission) Validate() error {
	if p.Chain == "" {
		return fmt.Errorf("chain is required")
	}

	if len(p.Transactions) == 0 {
		return fmt.Errorf("at least one transaction is required")
	}

	for i, tx := range p.Transactions {
		if tx.Tx == "" {
			return fmt.Errorf("transactions[%d].tx is required", i)
		}
	}

	return nil
}

// Config contains global configuration for the payment client.
type Config struct {
	// TrustedKeys maps x-identity header values to their key records.
	TrustedKeys map[string]TrustedKey `json:"trustedKeys" validate:"required,dive"`

	RequestTimeout time.Duration `json:"requestTimeout,omitempty"`
	LogLevel       string        `json:"logLevel,omitempty"`
	EnableMetrics  bool          `json:"enableMetrics,omitempty"`
}
