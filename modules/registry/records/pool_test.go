package records

import (
	"testing"

	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// accFor returns the scaled accumulator a pool would carry after depositing
// the given amount across totalWeight.
func accFor(deposited, totalWeight uint64) uint128.Uint128 {
	return uint128.From64(deposited).Mul64(RewardScale).Div64(totalWeight)
}

func TestPoolPendingFor(t *testing.T) {
	t.Run("single holder takes whole pool", func(t *testing.T) {
		pool := PoolState{
			TotalDeposited:     1_000_000,
			TotalWeight:        1,
			AccRewardPerWeight: accFor(1_000_000, 1),
		}
		assert.Equal(t, uint64(1_000_000), pool.PendingFor(1, uint128.Zero))
	})

	t.Run("weighted split", func(t *testing.T) {
		pool := PoolState{
			TotalDeposited:     900,
			TotalWeight:        9,
			AccRewardPerWeight: accFor(900, 9),
		}
		assert.Equal(t, uint64(100), pool.PendingFor(1, uint128.Zero))
		assert.Equal(t, uint64(500), pool.PendingFor(5, uint128.Zero))
	})

	t.Run("reward debt subtracts prior claims", func(t *testing.T) {
		pool := PoolState{
			TotalDeposited:     200,
			TotalClaimed:       100,
			TotalWeight:        1,
			AccRewardPerWeight: accFor(200, 1),
		}
		debt := accFor(100, 1) // claimed the first 100 already
		assert.Equal(t, uint64(100), pool.PendingFor(1, debt))
	})

	t.Run("zero weight has nothing pending", func(t *testing.T) {
		pool := PoolState{TotalDeposited: 100, TotalWeight: 10, AccRewardPerWeight: accFor(100, 10)}
		assert.Equal(t, uint64(0), pool.PendingFor(0, uint128.Zero))
	})

	t.Run("debt above accrual clamps to zero", func(t *testing.T) {
		pool := PoolState{TotalDeposited: 100, TotalWeight: 1, AccRewardPerWeight: accFor(100, 1)}
		debt := accFor(200, 1)
		assert.Equal(t, uint64(0), pool.PendingFor(1, debt))
	})
}

// Sum of all holders' pending never exceeds deposited − claimed, regardless
// of how the weights slice the pool.
func TestPoolPendingSumInvariant(t *testing.T) {
	testcases := []struct {
		name      string
		deposited uint64
		claimed   uint64
		weights   []uint64
	}{
		{name: "thirds do not round up", deposited: 100, weights: []uint64{1, 1, 1}},
		{name: "sevenths", deposited: 1_000_000_007, weights: []uint64{1, 2, 3, 4, 5, 6, 7}},
		{name: "tiny pool many holders", deposited: 10, weights: []uint64{1, 1, 1, 1, 1, 1, 1}},
		{name: "partially claimed", deposited: 1000, claimed: 400, weights: []uint64{3, 5, 13}},
		{name: "single lamport", deposited: 1, weights: []uint64{1, 1}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			var totalWeight uint64
			for _, w := range tc.weights {
				totalWeight += w
			}
			pool := PoolState{
				TotalDeposited:     tc.deposited,
				TotalClaimed:       tc.claimed,
				TotalWeight:        totalWeight,
				AccRewardPerWeight: accFor(tc.deposited, totalWeight),
			}

			// per-NFT debt is weight × the accumulator snapshot taken when
			// the already-claimed portion was paid out
			debtPerWeight := accFor(tc.claimed, totalWeight)

			var sum uint64
			for _, w := range tc.weights {
				sum += pool.PendingFor(w, debtPerWeight.Mul64(w))
			}
			require.LessOrEqual(t, sum, pool.Remaining())
		})
	}
}

func TestPoolRoundTrip(t *testing.T) {
	pool := RewardPool{
		ContentRef: testPubkey(0x44),
		PoolState: PoolState{
			TotalDeposited:     5_000_000_000,
			TotalClaimed:       1_234,
			TotalWeight:        77,
			AccRewardPerWeight: accFor(5_000_000_000, 77),
		},
	}
	decoded, err := DecodeRewardPool(pool.Marshal())
	require.NoError(t, err)
	assert.Equal(t, &pool, decoded)

	global := GlobalHolderPool{
		PoolState:     PoolState{TotalDeposited: 10, TotalWeight: 2, AccRewardPerWeight: accFor(10, 2)},
		EscrowBalance: 999,
		Epoch:         42,
		LastSweptAt:   1717000000,
	}
	decodedGlobal, err := DecodeGlobalHolderPool(global.Marshal())
	require.NoError(t, err)
	assert.Equal(t, &global, decodedGlobal)

	position := NftPosition{
		Asset:      testPubkey(0x55),
		Pool:       testPubkey(0x66),
		Weight:     21,
		RewardDebt: uint128.New(123456789, 1),
		Claimed:    55,
	}
	decodedPosition, err := DecodeNftPosition(position.Marshal())
	require.NoError(t, err)
	assert.Equal(t, &position, decodedPosition)
}

func TestRarityFromWeight(t *testing.T) {
	assert.Equal(t, RarityCommon, RarityFromWeight(0))
	assert.Equal(t, RarityCommon, RarityFromWeight(1))
	assert.Equal(t, RarityUncommon, RarityFromWeight(2))
	assert.Equal(t, RarityUncommon, RarityFromWeight(5))
	assert.Equal(t, RarityRare, RarityFromWeight(6))
	assert.Equal(t, RarityRare, RarityFromWeight(20))
	assert.Equal(t, RarityEpic, RarityFromWeight(21))
	assert.Equal(t, RarityEpic, RarityFromWeight(100))
	assert.Equal(t, RarityLegendary, RarityFromWeight(101))
}
