package utils

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/vitwit/paypro/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ParsePaymentOptions parses and validates a payment-options response body.
func ParsePaymentOptions(data []byte) (*types.PaymentOptionsResponse, error) {
	var resp types.PaymentOptionsResponse

	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &types.Error{
			Code:    types.ErrMalformedResponseBody,
			Message: fmt.Sprintf("failed to parse payment options: %v", err),
		}
	}

	if err := validate.Struct(&resp); err != nil {
		return nil, &types.Error{
			Code:    types.ErrMalformedResponseBody,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}

	return &resp, nil
}

// ParsePaymentRequest parses and validates a payment-request response body.
func ParsePaymentRequest(data []byte) (*types.PaymentRequestResponse, error) {
	var resp types.PaymentRequestResponse

	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &types.Error{
			Code:    types.ErrMalformedResponseBody,
			Message: fmt.Sprintf("failed to parse payment request: %v", err),
		}
	}

	if err := validate.Struct(&resp); err != nil {
		return nil, &types.Error{
			Code:    types.ErrMalformedResponseBody,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}

	return &resp, nil
}

// ParsePaymentACK parses a payment acknowledgement response body.
func ParsePaymentACK(data []byte) (*types.PaymentACK, error) {
	var ack types.PaymentACK

	if err := json.Unmarshal(data, &ack); err != nil {
		return nil, &types.Error{
			Code:    types.ErrMalformedResponseBody,
			Message: fmt.Sprintf("failed to parse payment ack: %v", err),
		}
	}

	return &ack, nil
}

// ParseTrustedKeys parses a trusted-key table from JSON, keyed by the
// x-identity value each merchant sends.
func ParseTrustedKeys(data []byte) (map[string]types.TrustedKey, error) {
	var keys map[string]types.TrustedKey

	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, &types.Error{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("failed to parse trusted keys: %v", err),
		}
	}

	for identity, key := range keys {
		if !IsHexString(key.PublicKey) {
			return nil, &types.Error{
				Code:    types.ErrConfigError,
				Message: fmt.Sprintf("trusted key %q: publicKey must be a hex string", identity),
			}
		}
	}

	return keys, nil
}

// ParseConfig parses the client Config from JSON.
func ParseConfig(data []byte) (*types.Config, error) {
	var config types.Config

	if err := json.Unmarshal(data, &config); err != nil {
		return nil, &types.Error{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("failed to parse config: %v", err),
		}
	}

	if err := validate.Struct(&config); err != nil {
		return nil, &types.Error{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}

	return &config, nil
}

// PaymentURLFromURI extracts the payment protocol URL from a BIP-72 style
// wallet URI such as "bitcoin:?r=https://merchant.example/i/Xyz9k".
func PaymentURLFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", &types.Error{
			Code:    types.ErrInvalidPaymentURL,
			Message: fmt.Sprintf("cannot parse payment uri: %v", err),
		}
	}

	r := u.Query().Get("r")
	if r == "" {
		return "", &types.Error{
			Code:    types.ErrInvalidPaymentURL,
			Message: fmt.Sprintf("payment uri %q carries no payment url", uri),
		}
	}

	return r, nil
}
