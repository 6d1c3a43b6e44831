// Package trust holds the immutable table of merchant signing keys the
// client accepts responses from.
package trust

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vitwit/paypro/types"
	"github.com/vitwit/paypro/utils"
)

// Key is one validated store entry: the original record, its decoded
// public key, and a domain set prepared for case-insensitive lookups.
type Key struct {
	Record    types.TrustedKey
	PublicKey []byte

	domains map[string]struct{}
}

// AuthorizedFor reports whether this key may sign responses served from
// the given hostname. Matching is exact and case-insensitive; a key with
// no domains authorizes nothing.
func (k *Key) AuthorizedFor(host string) bool {
	if host == "" {
		return false
	}

	_, ok := k.domains[strings.ToLower(host)]
	return ok
}

// Store is an immutable identity-to-key table. Rotating keys means
// building a new Store and a new client around it; nothing mutates an
// existing one.
type Store struct {
	keys map[string]*Key
}

// NewStore validates every record and builds the lookup table. The map key
// is the identity the record is filed under and is copied into the record.
func NewStore(keys map[string]types.TrustedKey) (*Store, error) {
	if len(keys) == 0 {
		return nil, &types.Error{
			Code:    types.ErrConfigError,
			Message: "at least one trusted key is required",
		}
	}

	s := &Store{keys: make(map[string]*Key, len(keys))}

	for identity, record := range keys {
		if identity == "" {
			return nil, &types.Error{
				Code:    types.ErrConfigError,
				Message: "trusted key identity must not be empty",
			}
		}

		pub, err := utils.DecodeHex(record.PublicKey)
		if err != nil {
			return nil, &types.Error{
				Code:    types.ErrConfigError,
				Message: fmt.Sprintf("trusted key %q: %v", identity, err),
			}
		}

		if _, err := utils.ParsePublicKey(pub); err != nil {
			return nil, &types.Error{
				Code:    types.ErrConfigError,
				Message: fmt.Sprintf("trusted key %q: not a valid secp256k1 public key: %v", identity, err),
			}
		}

		record.Identity = identity
		record.Domains = append([]string(nil), record.Domains...)
		record.Networks = append([]string(nil), record.Networks...)

		k := &Key{
			Record:    record,
			PublicKey: pub,
			domains:   make(map[string]struct{}, len(record.Domains)),
		}
		for _, d := range record.Domains {
			k.domains[strings.ToLower(d)] = struct{}{}
		}

		s.keys[identity] = k
	}

	return s, nil
}

// Lookup returns the key filed under identity. Callers must treat the
// returned Key as read-only.
func (s *Store) Lookup(identity string) (*Key, bool) {
	k, ok := s.keys[identity]
	return k, ok
}

// Len returns the number of keys in the store.
func (s *Store) Len() int {
	return len(s.keys)
}

// Identities returns all identities in the store, sorted.
func (s *Store) Identities() []string {
	ids := make([]string, 0, len(s.keys))
	for id := range s.keys {
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids
}
