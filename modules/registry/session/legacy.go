package session

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

// legacyPayload is the signed body of a wallet-issued session token:
// base64url(payload JSON) + "." + base64url(ed25519 signature), signed by
// the wallet's own key over the raw payload bytes.
type legacyPayload struct {
	Wallet   string `json:"wallet"`
	IssuedAt int64  `json:"issued_at"`
	Nonce    string `json:"nonce"`
}

func (v *Verifier) verifyLegacyToken(token string) (records.Pubkey, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "malformed session token")
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "session token payload encoding")
	}
	signature, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "session token signature encoding")
	}
	if len(signature) != ed25519.SignatureSize {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "session token signature size")
	}

	var payload legacyPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "session token payload json")
	}

	wallet, err := records.ParsePubkey(payload.Wallet)
	if err != nil {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "session token wallet")
	}

	// recency gate before the signature check: replay of an old token is
	// rejected even if the signature still verifies
	issuedAt := payload.IssuedAt
	now := v.now().Unix()
	if issuedAt > now+int64(MaxClockSkew.Seconds()) || issuedAt < now-int64(MaxClockSkew.Seconds()) {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "session token outside skew window")
	}

	if !ed25519.Verify(ed25519.PublicKey(wallet[:]), payloadBytes, signature) {
		return records.Pubkey{}, errors.Wrap(errs.AuthRequired, "session token signature mismatch")
	}

	return wallet, nil
}
