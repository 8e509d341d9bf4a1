package session

import (
	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

// walletClaimPaths are the claim locations checked for a wallet address, in
// fixed priority order. The first non-empty match wins. The auth provider
// moved the claim between releases, so all historical locations remain
// supported.
var walletClaimPaths = [][]string{
	{"wallet_address"},
	{"user_metadata", "wallet_address"},
	{"app_metadata", "wallet_address"},
	{"sub"},
}

func (v *Verifier) verifyJWT(token string) (records.Pubkey, error) {
	if len(v.jwtSecret) == 0 {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "federated auth not configured")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Newf("unexpected signing method %q", t.Method.Alg())
		}
		return v.jwtSecret, nil
	}, jwt.WithTimeFunc(v.now), jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "invalid federated token")
	}

	for _, path := range walletClaimPaths {
		value, ok := lookupClaim(map[string]any(claims), path)
		if !ok || value == "" {
			continue
		}
		wallet, err := records.ParsePubkey(value)
		if err != nil {
			// a non-address value at this location (e.g. an opaque user id in
			// "sub") is not a match, not a failure
			continue
		}
		return wallet, nil
	}

	return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "no wallet claim in federated token")
}

func lookupClaim(claims map[string]any, path []string) (string, bool) {
	current := any(claims)
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = node[key]
		if !ok {
			return "", false
		}
	}
	value, ok := current.(string)
	return value, ok
}
