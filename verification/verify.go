// Package verification implements the signed-response trust checks every
// merchant response must pass before its payload is surfaced.
package verification

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vitwit/paypro/trust"
	"github.com/vitwit/paypro/types"
	"github.com/vitwit/paypro/utils"
)

// Verifier checks merchant responses against a trust store. The zero value
// is not usable; construct one with New or NewInsecure.
type Verifier struct {
	store      *trust.Store
	skipVerify bool

	// verifySig is swappable in tests.
	verifySig func(publicKey, hash, signature []byte) bool
}

// New returns a Verifier that enforces the full trust protocol against the
// given store.
func New(store *trust.Store) *Verifier {
	return &Verifier{
		store:     store,
		verifySig: utils.VerifyECC,
	}
}

// NewInsecure returns a Verifier that decodes response bodies without any
// digest, identity or signature checks. For diagnostics against test
// merchants only.
func NewInsecure() *Verifier {
	return &Verifier{skipVerify: true}
}

// Insecure reports whether this verifier skips the trust checks.
func (v *Verifier) Insecure() bool {
	return v.skipVerify
}

// Verify runs the trust checks on one response. requestURL is the URL the
// response came from, body the exact bytes received, header the response
// headers. Checks run in a fixed order and the first failure wins.
func (v *Verifier) Verify(requestURL string, body []byte, header http.Header) (*types.VerifiedResult, error) {
	if requestURL == "" || len(body) == 0 || header == nil {
		return nil, &types.Error{
			Code:    types.ErrInvalidArgument,
			Message: "request url, response body and response headers are required",
		}
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &types.Error{
			Code:    types.ErrMalformedResponseBody,
			Message: fmt.Sprintf("response body is not a JSON document: %v", err),
		}
	}

	result := &types.VerifiedResult{
		RequestURL: requestURL,
		Data:       data,
		Raw:        append([]byte(nil), body...),
	}

	if v.skipVerify {
		return result, nil
	}

	host := utils.HostOf(requestURL)
	if host == "" {
		return nil, types.NewError(types.ErrInvalidRequestURL, "request url %q has no hostname", requestURL)
	}

	sigType, err := headerValue(header, types.HeaderSignatureType, types.ErrMissingSignatureType, types.ErrUnsupportedSignatureType)
	if err != nil {
		return nil, err
	}
	if sigType != types.SignatureTypeECC {
		return nil, types.NewError(types.ErrUnsupportedSignatureType, "unsupported signature type %q", sigType)
	}

	sigHex, err := headerValue(header, types.HeaderSignature, types.ErrMissingSignature, types.ErrInvalidSignatureHeader)
	if err != nil {
		return nil, err
	}

	identity, err := headerValue(header, types.HeaderIdentity, types.ErrMissingIdentity, types.ErrInvalidIdentityHeader)
	if err != nil {
		return nil, err
	}

	key, ok := v.store.Lookup(identity)
	if !ok {
		return nil, types.NewError(types.ErrUnknownSigner, "response signed by unknown identity %q", identity)
	}

	digest, err := headerValue(header, types.HeaderDigest, types.ErrMissingDigest, types.ErrInvalidDigestHeader)
	if err != nil {
		return nil, err
	}

	want := utils.DigestHash(digest)
	got := utils.Sha256Hex(body)
	if !utils.DigestEqual(want, got) {
		return nil, &types.Error{
			Code:    types.ErrDigestMismatch,
			Message: "digest header does not match the response body hash",
			Data:    map[string]interface{}{"header": want, "computed": got},
		}
	}

	if !key.AuthorizedFor(host) {
		return nil, types.NewError(types.ErrDomainNotAuthorized, "identity %q is not authorized to sign responses for %q", identity, host)
	}

	signature, err := utils.DecodeHex(sigHex)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidSignatureHeader, "signature header is not valid hex: %v", err)
	}

	if !v.verifySig(key.PublicKey, utils.Sha256(body), signature) {
		return nil, types.NewError(types.ErrSignatureInvalid, "response signature verification failed for identity %q", identity)
	}

	record := key.Record
	result.Key = &record
	return result, nil
}

// headerValue fetches a required single-valued response header. missingCode
// is returned when it is absent, repeatedCode when it appears more than
// once.
func headerValue(h http.Header, name, missingCode, repeatedCode string) (string, error) {
	values := h.Values(name)

	switch len(values) {
	case 0:
		return "", types.NewError(missingCode, "required response header %q is missing", name)
	case 1:
		return values[0], nil
	default:
		return "", types.NewError(repeatedCode, "response header %q must appear exactly once, got %d values", name, len(values))
	}
}
