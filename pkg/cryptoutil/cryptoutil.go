// Package cryptoutil derives per-content keys and opens encrypted payloads.
// Keys are derived deterministically from a server-held master secret, so no
// per-content key storage exists.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"golang.org/x/crypto/hkdf"
)

const keyLen = 32 // AES-256

type Keyring struct {
	master []byte
}

// NewKeyring parses the hex-encoded master secret.
func NewKeyring(masterHex string) (*Keyring, error) {
	master, err := hex.DecodeString(masterHex)
	if err != nil {
		return nil, errors.Wrap(errs.InvalidArgument, "master key is not valid hex")
	}
	if len(master) < keyLen {
		return nil, errors.Wrapf(errs.InvalidArgument, "master key too short: %d bytes", len(master))
	}
	return &Keyring{master: master}, nil
}

// ContentKey derives the AES-256 key for one content identifier. The same
// cid always yields the same key.
func (k *Keyring) ContentKey(cid string) ([]byte, error) {
	reader := hkdf.New(sha256.New, k.master, nil, []byte("content-key:"+cid))
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, errors.Wrap(err, "hkdf expand")
	}
	return key, nil
}

// Open decrypts an AES-256-GCM payload. A tag mismatch returns an error and
// no plaintext, never partial output.
func Open(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "aes cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "gcm mode")
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.Wrapf(errs.InvalidArgument, "nonce size %d, want %d", len(nonce), gcm.NonceSize())
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt")
	}
	return plaintext, nil
}

// Seal encrypts with AES-256-GCM. The upload path lives elsewhere; this
// exists for the platform's operational tooling and for tests.
func Seal(key, nonce, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "aes cipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "gcm mode")
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.Wrapf(errs.InvalidArgument, "nonce size %d, want %d", len(nonce), gcm.NonceSize())
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}
