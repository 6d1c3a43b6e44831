package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/ethereum/go-ethereum/crypto"
)

// Sha256 returns the SHA-256 digest of data.
func Sha256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// Sha256Hex returns the lowercase hex SHA-256 digest of data.
func Sha256Hex(data []byte) string {
	return hex.EncodeToString(Sha256(data))
}

// DigestEqual compares two hex digests in constant time. Case differences
// are ignored so uppercase merchant digests still match.
func DigestEqual(a, b string) bool {
	x := []byte(strings.ToLower(a))
	y := []byte(strings.ToLower(b))

	if len(x) != len(y) {
		return false
	}

	return subtle.ConstantTimeCompare(x, y) == 1
}

// DecodeHex decodes a hex string, tolerating an optional 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string: %w", err)
	}

	return b, nil
}

// ParsePublicKey parses a compressed or uncompressed secp256k1 public key.
func ParsePublicKey(b []byte) (*btcec.PublicKey, error) {
	return btcec.ParsePubKey(b)
}

// VerifyECC reports whether signature is a valid secp256k1 ECDSA signature
// over hash by the given public key. DER and compact r||s encodings are
// both accepted; a trailing recovery byte on a compact signature is
// dropped before verification.
func VerifyECC(publicKey, hash, signature []byte) bool {
	if len(publicKey) == 0 || len(hash) == 0 || len(signature) == 0 {
		return false
	}

	if sig, err := btcecdsa.ParseDERSignature(signature); err == nil {
		pub, err := btcec.ParsePubKey(publicKey)
		if err != nil {
			return false
		}
		return sig.Verify(hash, pub)
	}

	if n := len(signature); n == 64 || n == 65 {
		return crypto.VerifySignature(publicKey, hash, signature[:64])
	}

	return false
}
