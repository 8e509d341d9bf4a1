package session

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "unit-test-jwt-secret"

func newTestVerifier(t *testing.T, now time.Time) *Verifier {
	t.Helper()
	v := NewVerifier(Config{JWTSecret: testJWTSecret})
	v.now = func() time.Time { return now }
	return v
}

func newWalletKey(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey, string) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv, base58.Encode(pub)
}

func signLegacyToken(t *testing.T, priv ed25519.PrivateKey, wallet string, issuedAt time.Time) string {
	t.Helper()
	payload, err := json.Marshal(legacyPayload{
		Wallet:   wallet,
		IssuedAt: issuedAt.Unix(),
		Nonce:    "n-1",
	})
	require.NoError(t, err)
	sig := ed25519.Sign(priv, payload)
	return base64.RawURLEncoding.EncodeToString(payload) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func TestVerifyLegacyToken(t *testing.T) {
	now := time.Unix(1_720_000_000, 0)
	ctx := context.Background()

	_, priv, wallet := newWalletKey(t)

	t.Run("valid token", func(t *testing.T) {
		v := newTestVerifier(t, now)
		got, err := v.Verify(ctx, signLegacyToken(t, priv, wallet, now))
		require.NoError(t, err)
		assert.Equal(t, wallet, got.String())
	})

	t.Run("bearer prefix stripped", func(t *testing.T) {
		v := newTestVerifier(t, now)
		got, err := v.Verify(ctx, "Bearer "+signLegacyToken(t, priv, wallet, now))
		require.NoError(t, err)
		assert.Equal(t, wallet, got.String())
	})

	t.Run("six minutes old is rejected despite valid signature", func(t *testing.T) {
		v := newTestVerifier(t, now)
		_, err := v.Verify(ctx, signLegacyToken(t, priv, wallet, now.Add(-6*time.Minute)))
		assert.Error(t, err)
	})

	t.Run("six minutes in the future is rejected", func(t *testing.T) {
		v := newTestVerifier(t, now)
		_, err := v.Verify(ctx, signLegacyToken(t, priv, wallet, now.Add(6*time.Minute)))
		assert.Error(t, err)
	})

	t.Run("just inside the skew window passes", func(t *testing.T) {
		v := newTestVerifier(t, now)
		_, err := v.Verify(ctx, signLegacyToken(t, priv, wallet, now.Add(-4*time.Minute)))
		assert.NoError(t, err)
	})

	t.Run("signature by another key", func(t *testing.T) {
		_, otherPriv, _ := newWalletKey(t)
		v := newTestVerifier(t, now)
		_, err := v.Verify(ctx, signLegacyToken(t, otherPriv, wallet, now))
		assert.Error(t, err)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token := signLegacyToken(t, priv, wallet, now)
		v := newTestVerifier(t, now)
		_, err := v.Verify(ctx, "A"+token[1:])
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		v := newTestVerifier(t, now)
		for _, token := range []string{"", ".", "a.b", "not a token", "a.b.c.d"} {
			_, err := v.Verify(ctx, token)
			assert.Errorf(t, err, "token %q", token)
		}
	})
}

func signJWT(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyJWT(t *testing.T) {
	now := time.Unix(1_720_000_000, 0)
	ctx := context.Background()
	_, _, wallet := newWalletKey(t)
	exp := now.Add(time.Hour).Unix()

	t.Run("top-level wallet claim", func(t *testing.T) {
		v := newTestVerifier(t, now)
		token := signJWT(t, jwt.MapClaims{"wallet_address": wallet, "exp": exp}, testJWTSecret)
		got, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, wallet, got.String())
	})

	t.Run("user_metadata claim", func(t *testing.T) {
		v := newTestVerifier(t, now)
		token := signJWT(t, jwt.MapClaims{
			"user_metadata": map[string]any{"wallet_address": wallet},
			"exp":           exp,
		}, testJWTSecret)
		got, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, wallet, got.String())
	})

	t.Run("app_metadata claim", func(t *testing.T) {
		v := newTestVerifier(t, now)
		token := signJWT(t, jwt.MapClaims{
			"app_metadata": map[string]any{"wallet_address": wallet},
			"exp":          exp,
		}, testJWTSecret)
		got, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, wallet, got.String())
	})

	t.Run("sub fallback when it is an address", func(t *testing.T) {
		v := newTestVerifier(t, now)
		token := signJWT(t, jwt.MapClaims{"sub": wallet, "exp": exp}, testJWTSecret)
		got, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, wallet, got.String())
	})

	t.Run("priority order prefers top-level claim", func(t *testing.T) {
		_, _, otherWallet := newWalletKey(t)
		v := newTestVerifier(t, now)
		token := signJWT(t, jwt.MapClaims{
			"wallet_address": wallet,
			"user_metadata":  map[string]any{"wallet_address": otherWallet},
			"exp":            exp,
		}, testJWTSecret)
		got, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, wallet, got.String())
	})

	t.Run("opaque sub with no wallet claim", func(t *testing.T) {
		v := newTestVerifier(t, now)
		token := signJWT(t, jwt.MapClaims{"sub": "auth0|12345", "exp": exp}, testJWTSecret)
		_, err := v.Verify(ctx, token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		v := newTestVerifier(t, now)
		token := signJWT(t, jwt.MapClaims{"wallet_address": wallet, "exp": now.Add(-time.Minute).Unix()}, testJWTSecret)
		_, err := v.Verify(ctx, token)
		assert.Error(t, err)
	})

	t.Run("missing exp rejected", func(t *testing.T) {
		v := newTestVerifier(t, now)
		token := signJWT(t, jwt.MapClaims{"wallet_address": wallet}, testJWTSecret)
		_, err := v.Verify(ctx, token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		v := newTestVerifier(t, now)
		token := signJWT(t, jwt.MapClaims{"wallet_address": wallet, "exp": exp}, "wrong-secret")
		_, err := v.Verify(ctx, token)
		assert.Error(t, err)
	})

	t.Run("alg none rejected", func(t *testing.T) {
		v := newTestVerifier(t, now)
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"wallet_address": wallet}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = v.Verify(ctx, token)
		assert.Error(t, err)
	})
}
