// Package cid validates content identifiers before they are used to build
// chain filters or storage gateway URLs. Identifiers arrive from untrusted
// callers, so anything that does not match one of the two accepted encodings
// is rejected outright.
package cid

const (
	// CIDv0: base58btc-encoded sha2-256 multihash, always "Qm" + 44 characters.
	v0Length = 46

	// CIDv1: base32 lowercase, "b" multibase prefix, 59 characters for a
	// sha2-256 payload.
	v1Length = 59
)

// base58btc alphabet, excludes 0, O, I and l.
func isBase58Char(c byte) bool {
	switch {
	case c >= '1' && c <= '9':
		return true
	case c >= 'A' && c <= 'H', c >= 'J' && c <= 'N', c >= 'P' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'k', c >= 'm' && c <= 'z':
		return true
	}
	return false
}

// RFC 4648 base32 lowercase without padding.
func isBase32Char(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '2' && c <= '7')
}

// IsValid reports whether s is a well-formed content identifier in either of
// the two accepted encodings.
func IsValid(s string) bool {
	switch len(s) {
	case v0Length:
		if s[0] != 'Q' || s[1] != 'm' {
			return false
		}
		for i := 2; i < len(s); i++ {
			if !isBase58Char(s[i]) {
				return false
			}
		}
		return true
	case v1Length:
		if s[0] != 'b' {
			return false
		}
		for i := 1; i < len(s); i++ {
			if !isBase32Char(s[i]) {
				return false
			}
		}
		return true
	}
	return false
}
