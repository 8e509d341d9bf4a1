package cryptoutil

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMasterHex = "8f3a2b1c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f8"

func TestKeyring(t *testing.T) {
	t.Run("derivation is deterministic", func(t *testing.T) {
		kr, err := NewKeyring(testMasterHex)
		require.NoError(t, err)

		k1, err := kr.ContentKey("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG")
		require.NoError(t, err)
		k2, err := kr.ContentKey("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG")
		require.NoError(t, err)
		assert.Equal(t, k1, k2)
		assert.Len(t, k1, 32)
	})

	t.Run("different cids yield different keys", func(t *testing.T) {
		kr, err := NewKeyring(testMasterHex)
		require.NoError(t, err)

		k1, err := kr.ContentKey("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG")
		require.NoError(t, err)
		k2, err := kr.ContentKey("QmPZ9gcCEpqKTo6aq61g2nXGUhM4iCL3ewB6LDXZCtioEB")
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("invalid hex rejected", func(t *testing.T) {
		_, err := NewKeyring("zz")
		assert.Error(t, err)
	})

	t.Run("short master rejected", func(t *testing.T) {
		_, err := NewKeyring("8f3a2b1c")
		assert.Error(t, err)
	})
}

func TestSealOpen(t *testing.T) {
	kr, err := NewKeyring(testMasterHex)
	require.NoError(t, err)
	key, err := kr.ContentKey("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG")
	require.NoError(t, err)

	nonce := make([]byte, 12)
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	plaintext := []byte(strings.Repeat("creator content ", 64))

	t.Run("round trip", func(t *testing.T) {
		ciphertext, err := Seal(key, nonce, plaintext)
		require.NoError(t, err)
		got, err := Open(key, nonce, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	})

	t.Run("tag mismatch yields no plaintext", func(t *testing.T) {
		ciphertext, err := Seal(key, nonce, plaintext)
		require.NoError(t, err)
		ciphertext[0] ^= 0xff
		got, err := Open(key, nonce, ciphertext)
		assert.Error(t, err)
		assert.Nil(t, got)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		ciphertext, err := Seal(key, nonce, plaintext)
		require.NoError(t, err)
		otherKey, err := kr.ContentKey("QmPZ9gcCEpqKTo6aq61g2nXGUhM4iCL3ewB6LDXZCtioEB")
		require.NoError(t, err)
		_, err = Open(otherKey, nonce, ciphertext)
		assert.Error(t, err)
	})

	t.Run("wrong nonce size", func(t *testing.T) {
		_, err := Open(key, []byte{1, 2, 3}, []byte{4, 5, 6})
		assert.Error(t, err)
	})
}
