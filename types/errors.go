package types

import (
	"errors"
	"fmt"
)

// Error is the typed error every operation returns: a stable machine code,
// a human-readable message, and optional diagnostic data.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

// NewError builds an Error with a formatted message.
func NewError(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode extracts the code from err, or "" when err carries no Error.
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries an Error with the given code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// Common error codes
const (
	// Configuration and argument problems, detected before any request.
	ErrConfigError     = "CONFIG_ERROR"
	ErrInvalidArgument = "INVALID_ARGUMENT"

	// Request construction and transport.
	ErrInvalidPaymentURL = "INVALID_PAYMENT_URL"
	ErrTransportError    = "TRANSPORT_ERROR"

	// Response body decoding.
	ErrMalformedResponseBody = "MALFORMED_RESPONSE_BODY"

	// Signed-response trust checks, in the order they run.
	ErrInvalidRequestURL        = "INVALID_REQUEST_URL"
	ErrMissingSignatureType     = "MISSING_SIGNATURE_TYPE"
	ErrUnsupportedSignatureType = "UNSUPPORTED_SIGNATURE_TYPE"
	ErrMissingSignature         = "MISSING_SIGNATURE"
	ErrInvalidSignatureHeader   = "INVALID_SIGNATURE_HEADER"
	ErrMissingIdentity          = "MISSING_IDENTITY"
	ErrInvalidIdentityHeader    = "INVALID_IDENTITY_HEADER"
	ErrUnknownSigner            = "UNKNOWN_SIGNER"
	ErrMissingDigest            = "MISSING_DIGEST"
	ErrInvalidDigestHeader      = "INVALID_DIGEST_HEADER"
	ErrDigestMismatch           = "DIGEST_MISMATCH"
	ErrDomainNotAuthorized      = "DOMAIN_NOT_AUTHORIZED"
	ErrSignatureInvalid         = "SIGNATURE_INVALID"
)
