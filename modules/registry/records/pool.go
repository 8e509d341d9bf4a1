package records

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
)

// RewardScale is the fixed-point multiplier of the running
// reward-per-weight accumulator. Shares are tracked as
// accRewardPerWeight = Σ (deposit × RewardScale / totalWeight), which keeps
// truncation loss below one lamport per claim regardless of how many small
// deposits the pool has seen.
const RewardScale = 1_000_000_000_000

var rewardScale128 = uint128.From64(RewardScale)

var (
	rewardPoolDiscriminator       = discriminator("RewardPool")
	globalHolderPoolDiscriminator = discriminator("GlobalHolderPool")
	creatorDistPoolDiscriminator  = discriminator("CreatorDistPool")
	nftPositionDiscriminator      = discriminator("NftPosition")
)

// PoolState is the accounting core shared by every reward pool.
type PoolState struct {
	TotalDeposited     uint64
	TotalClaimed       uint64
	TotalWeight        uint64
	AccRewardPerWeight uint128.Uint128 // scaled by RewardScale
}

// Remaining returns the unclaimed balance of the pool.
func (p PoolState) Remaining() uint64 {
	if p.TotalClaimed >= p.TotalDeposited {
		return 0
	}
	return p.TotalDeposited - p.TotalClaimed
}

// PendingFor computes the claimable amount for a holder with the given
// weight and reward debt. The result is clamped to the pool's remaining
// balance so rounding can never over-allocate.
func (p PoolState) PendingFor(weight uint64, rewardDebt uint128.Uint128) uint64 {
	if weight == 0 {
		return 0
	}
	accrued := p.AccRewardPerWeight.Mul64(weight)
	if accrued.Cmp(rewardDebt) <= 0 {
		return 0
	}
	pending := accrued.Sub(rewardDebt).Div(rewardScale128)
	if !pending.IsUint64() {
		return p.Remaining()
	}
	amount := pending.Uint64()
	if remaining := p.Remaining(); amount > remaining {
		return remaining
	}
	return amount
}

func (c *Cursor) readPoolState() (PoolState, error) {
	var (
		st  PoolState
		err error
	)
	if st.TotalDeposited, err = c.ReadU64(); err != nil {
		return st, errors.Wrap(err, "total_deposited")
	}
	if st.TotalClaimed, err = c.ReadU64(); err != nil {
		return st, errors.Wrap(err, "total_claimed")
	}
	if st.TotalWeight, err = c.ReadU64(); err != nil {
		return st, errors.Wrap(err, "total_weight")
	}
	if st.AccRewardPerWeight, err = c.ReadU128(); err != nil {
		return st, errors.Wrap(err, "acc_reward_per_weight")
	}
	return st, nil
}

func (w *writer) poolState(st PoolState) {
	w.u64(st.TotalDeposited)
	w.u64(st.TotalClaimed)
	w.u64(st.TotalWeight)
	w.u128(st.AccRewardPerWeight)
}

// RewardPool is the per-content direct pool funded by primary-sale proceeds.
type RewardPool struct {
	ContentRef Pubkey
	PoolState
}

func DecodeRewardPool(buf []byte) (*RewardPool, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(rewardPoolDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec RewardPool
		err error
	)
	if rec.ContentRef, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "content_ref")
	}
	if rec.PoolState, err = c.readPoolState(); err != nil {
		return nil, errors.WithStack(err)
	}
	return &rec, nil
}

func (r *RewardPool) Marshal() []byte {
	w := newWriter(rewardPoolDiscriminator)
	w.pubkey(r.ContentRef)
	w.poolState(r.PoolState)
	return w.bytes()
}

// GlobalHolderPool distributes ecosystem-subscription fees to all content
// NFT holders. Fees accumulate in escrow and are swept into the pool once
// per epoch; the swept balance is claimable continuously.
type GlobalHolderPool struct {
	PoolState
	EscrowBalance uint64
	Epoch         uint64
	LastSweptAt   int64
}

func DecodeGlobalHolderPool(buf []byte) (*GlobalHolderPool, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(globalHolderPoolDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec GlobalHolderPool
		err error
	)
	if rec.PoolState, err = c.readPoolState(); err != nil {
		return nil, errors.WithStack(err)
	}
	if rec.EscrowBalance, err = c.ReadU64(); err != nil {
		return nil, errors.Wrap(err, "escrow_balance")
	}
	if rec.Epoch, err = c.ReadU64(); err != nil {
		return nil, errors.Wrap(err, "epoch")
	}
	if rec.LastSweptAt, err = c.ReadI64(); err != nil {
		return nil, errors.Wrap(err, "last_swept_at")
	}
	return &rec, nil
}

func (r *GlobalHolderPool) Marshal() []byte {
	w := newWriter(globalHolderPoolDiscriminator)
	w.poolState(r.PoolState)
	w.u64(r.EscrowBalance)
	w.u64(r.Epoch)
	w.i64(r.LastSweptAt)
	return w.bytes()
}

// CreatorDistPool distributes one creator's patron-subscription fees to
// holders of that creator's NFTs, on the same epoch cadence as the global
// pool.
type CreatorDistPool struct {
	Creator Pubkey
	PoolState
	EscrowBalance uint64
	Epoch         uint64
	LastSweptAt   int64
}

func DecodeCreatorDistPool(buf []byte) (*CreatorDistPool, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(creatorDistPoolDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec CreatorDistPool
		err error
	)
	if rec.Creator, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "creator")
	}
	if rec.PoolState, err = c.readPoolState(); err != nil {
		return nil, errors.WithStack(err)
	}
	if rec.EscrowBalance, err = c.ReadU64(); err != nil {
		return nil, errors.Wrap(err, "escrow_balance")
	}
	if rec.Epoch, err = c.ReadU64(); err != nil {
		return nil, errors.Wrap(err, "epoch")
	}
	if rec.LastSweptAt, err = c.ReadI64(); err != nil {
		return nil, errors.Wrap(err, "last_swept_at")
	}
	return &rec, nil
}

func (r *CreatorDistPool) Marshal() []byte {
	w := newWriter(creatorDistPoolDiscriminator)
	w.pubkey(r.Creator)
	w.poolState(r.PoolState)
	w.u64(r.EscrowBalance)
	w.u64(r.Epoch)
	w.i64(r.LastSweptAt)
	return w.bytes()
}

// NftPosition is the per-NFT, per-pool claim state. RewardDebt is the scaled
// accumulator snapshot taken at the last claim (or at position creation), so
// pending = weight × accRewardPerWeight − rewardDebt.
type NftPosition struct {
	Asset      Pubkey
	Pool       Pubkey
	Weight     uint64
	RewardDebt uint128.Uint128 // scaled by RewardScale
	Claimed    uint64
}

func DecodeNftPosition(buf []byte) (*NftPosition, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(nftPositionDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec NftPosition
		err error
	)
	if rec.Asset, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "asset")
	}
	if rec.Pool, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "pool")
	}
	if rec.Weight, err = c.ReadU64(); err != nil {
		return nil, errors.Wrap(err, "weight")
	}
	if rec.RewardDebt, err = c.ReadU128(); err != nil {
		return nil, errors.Wrap(err, "reward_debt")
	}
	if rec.Claimed, err = c.ReadU64(); err != nil {
		return nil, errors.Wrap(err, "claimed")
	}
	return &rec, nil
}

func (r *NftPosition) Marshal() []byte {
	w := newWriter(nftPositionDiscriminator)
	w.pubkey(r.Asset)
	w.pubkey(r.Pool)
	w.u64(r.Weight)
	w.u128(r.RewardDebt)
	w.u64(r.Claimed)
	return w.bytes()
}
