package records

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorBoundsChecks(t *testing.T) {
	t.Run("read past end", func(t *testing.T) {
		c := NewCursor([]byte{1, 2, 3})
		_, err := c.ReadU64()
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.TruncatedRecord)
	})

	t.Run("empty buffer", func(t *testing.T) {
		c := NewCursor(nil)
		_, err := c.ReadU8()
		assert.ErrorIs(t, err, errs.TruncatedRecord)
	})

	t.Run("sequential reads accumulate offset", func(t *testing.T) {
		buf := []byte{0x2a, 0x01, 0x00, 0x00, 0x00, 0xff}
		c := NewCursor(buf)

		v8, err := c.ReadU8()
		require.NoError(t, err)
		assert.Equal(t, uint8(0x2a), v8)

		v32, err := c.ReadU32()
		require.NoError(t, err)
		assert.Equal(t, uint32(1), v32)

		assert.Equal(t, 1, c.Remaining())
	})

	t.Run("little endian u64", func(t *testing.T) {
		buf := binary.LittleEndian.AppendUint64(nil, 0xdeadbeef)
		v, err := NewCursor(buf).ReadU64()
		require.NoError(t, err)
		assert.Equal(t, uint64(0xdeadbeef), v)
	})

	t.Run("bool rejects values above one", func(t *testing.T) {
		_, err := NewCursor([]byte{2}).ReadBool()
		assert.ErrorIs(t, err, errs.InvalidEnumValue)
	})

	t.Run("string with truncated body", func(t *testing.T) {
		buf := binary.LittleEndian.AppendUint32(nil, 10)
		buf = append(buf, 'a', 'b')
		_, err := NewCursor(buf).ReadString()
		assert.ErrorIs(t, err, errs.TruncatedRecord)
	})

	t.Run("string with invalid utf-8", func(t *testing.T) {
		buf := binary.LittleEndian.AppendUint32(nil, 2)
		buf = append(buf, 0xff, 0xfe)
		_, err := NewCursor(buf).ReadString()
		assert.ErrorIs(t, err, errs.InvalidUTF8)
	})

	t.Run("string length cap", func(t *testing.T) {
		buf := binary.LittleEndian.AppendUint32(nil, maxStringLen+1)
		_, err := NewCursor(buf).ReadString()
		assert.ErrorIs(t, err, errs.InvalidRecord)
	})

	t.Run("discriminator mismatch", func(t *testing.T) {
		buf := make([]byte, 8)
		err := NewCursor(buf).ExpectDiscriminator(discriminator("ContentRecord"))
		assert.ErrorIs(t, err, errs.InvalidRecord)
	})
}

func TestDiscriminatorDerivation(t *testing.T) {
	sum := sha256.Sum256([]byte("account:ContentRecord"))
	assert.Equal(t, [8]byte(sum[:8]), contentDiscriminator)
}

// decodeAny tries the decoder matching each record kind; used by the
// truncation property below.
func TestTruncatedPrefixesAlwaysFail(t *testing.T) {
	wallet := testPubkey(0x01)
	creator := testPubkey(0x02)

	type testcase struct {
		name   string
		full   []byte
		decode func([]byte) error
	}
	testcases := []testcase{
		{
			name: "content record",
			full: (&ContentRecord{
				Creator:     creator,
				ContentCID:  "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
				MetadataCID: "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
				Visibility:  VisibilityNFTOnly,
			}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeContentRecord(b); return err },
		},
		{
			name: "ecosystem subscription",
			full: (&EcosystemSubscription{
				Subscriber: wallet,
				StreamID:   creator,
				StartedAt:  1700000000,
				IsActive:   true,
			}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeEcosystemSubscription(b); return err },
		},
		{
			name: "patron subscription",
			full: (&CreatorPatronSubscription{
				Subscriber: wallet,
				Creator:    creator,
				Tier:       2,
				StreamID:   wallet,
				StartedAt:  1700000000,
				IsActive:   true,
			}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeCreatorPatronSubscription(b); return err },
		},
		{
			name:   "bundle",
			full:   (&Bundle{Creator: creator}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeBundle(b); return err },
		},
		{
			name: "bundle item",
			full: (&BundleItem{
				BundleRef:  creator,
				ContentCID: "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
			}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeBundleItem(b); return err },
		},
		{
			name:   "bundle collection",
			full:   (&BundleCollection{BundleRef: creator, CollectionAsset: wallet}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeBundleCollection(b); return err },
		},
		{
			name: "asset record",
			full: (&AssetRecord{
				Owner:         wallet,
				AuthorityType: AuthorityCollection,
				Authority:     creator,
				Name:          "Creator Pass #1",
				URI:           "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
			}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeAssetRecord(b); return err },
		},
		{
			name: "reward pool",
			full: (&RewardPool{
				ContentRef: creator,
				PoolState:  PoolState{TotalDeposited: 100, TotalWeight: 3},
			}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeRewardPool(b); return err },
		},
		{
			name:   "global holder pool",
			full:   (&GlobalHolderPool{PoolState: PoolState{TotalDeposited: 100}}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeGlobalHolderPool(b); return err },
		},
		{
			name:   "creator dist pool",
			full:   (&CreatorDistPool{Creator: creator}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeCreatorDistPool(b); return err },
		},
		{
			name:   "nft position",
			full:   (&NftPosition{Asset: wallet, Pool: creator, Weight: 5}).Marshal(),
			decode: func(b []byte) error { _, err := DecodeNftPosition(b); return err },
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			// sanity: the full buffer decodes
			require.NoError(t, tc.decode(tc.full))

			for n := 0; n < len(tc.full); n++ {
				err := tc.decode(tc.full[:n])
				require.Errorf(t, err, "prefix of length %d must not decode", n)
				assert.Truef(t,
					errors.Is(err, errs.TruncatedRecord) || errors.Is(err, errs.InvalidRecord),
					"prefix of length %d: unexpected error kind %v", n, err)
			}
		})
	}
}
