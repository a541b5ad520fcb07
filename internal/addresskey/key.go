// Package addresskey derives the cache key for a destination address.
package addresskey

import (
	"encoding/base64"
	"fmt"

	"github.com/sdko-org/vertical-padding/internal/padding"
)

// Key identifies a cached building. It is the unpadded base64url encoding of
// the raw address bytes, so distinct addresses never share a key.
type Key string

func (k Key) String() string {
	return string(k)
}

// KeyFor returns the key for an address. The address is used as given; no
// trimming or case folding is applied.
func KeyFor(address string) (Key, error) {
	if address == "" {
		return "", fmt.Errorf("%w: address required", padding.ErrInvalidInput)
	}
	return Key(base64.RawURLEncoding.EncodeToString([]byte(address))), nil
}
