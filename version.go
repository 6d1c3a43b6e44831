package paypro

import "github.com/vitwit/paypro/types"

// Version information
const (
	Version         = "1.0.0"
	ProtocolVersion = types.ProtocolVersion
)

// GetVersion returns version information
func GetVersion() map[string]interface{} {
	return map[string]interface{}{
		"library_version":  Version,
		"protocol_version": ProtocolVersion,
		"signature_types":  []string{types.SignatureTypeECC},
	}
}
