// Package session verifies proof-of-wallet-ownership credentials. Two token
// families are accepted because the platform migrated auth providers: a
// legacy wallet-signed session token and a federated-auth JWT carrying a
// wallet claim. Verification always fails closed: any malformed, expired or
// mis-signed token yields an empty wallet, never a panic.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

// MaxClockSkew bounds replay of wallet-signed session tokens. Tokens whose
// signed timestamp is farther than this from server time are rejected
// regardless of signature validity.
const MaxClockSkew = 5 * time.Minute

type Config struct {
	// JWTSecret is the shared HS256 secret of the federated auth provider.
	JWTSecret string `mapstructure:"jwt_secret"`
}

type Verifier struct {
	jwtSecret []byte

	// now is swappable for tests.
	now func() time.Time
}

func NewVerifier(cfg Config) *Verifier {
	return &Verifier{
		jwtSecret: []byte(cfg.JWTSecret),
		now:       time.Now,
	}
}

// Verify validates the credential and returns the authenticated wallet.
// The error is always errs.AuthRequired (wrapped with internal detail);
// callers must not branch on the failure reason.
func (v *Verifier) Verify(ctx context.Context, token string) (records.Pubkey, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "empty credential")
	}

	switch strings.Count(token, ".") {
	case 1:
		return v.verifyLegacyToken(token)
	case 2:
		return v.verifyJWT(token)
	default:
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "unrecognized credential format")
	}
}
