package internal

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// SecureHash computes the request signature the gateway recomputes on its
// side: field names are sorted bytewise ascending, the values of non-empty
// fields are concatenated in that order with no separator, and the result
// is HMAC-SHA256 over the concatenation, hex encoded.
//
// The canonicalization must match the gateway exactly; a divergence does
// not fail locally, it fails authentication on the gateway side.
func SecureHash(fields map[string]string, key string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var input []byte
	for _, name := range names {
		if len(fields[name]) > 0 {
			input = append(input, fields[name]...)
		}
	}

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(input)
	return hex.EncodeToString(mac.Sum(nil))
}
