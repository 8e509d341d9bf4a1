package entity

import (
	"time"

	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

// PerNftReward is the claimable breakdown for one NFT inside a position.
type PerNftReward struct {
	Asset   records.Pubkey
	Weight  uint64
	Rarity  records.RarityTier
	Pending uint64 // lamports
}

// RewardPosition is the computed claimable view for one content or bundle
// the wallet holds NFTs of. Never persisted; recomputed on each query from
// pool state and per-NFT positions.
type RewardPosition struct {
	PositionID string // content CID or bundle address
	Pending    uint64 // lamports
	NftCount   int
	PerNft     []PerNftReward

	// Escrow is the pool's fee balance waiting for the next epoch sweep.
	// Shown so holders can see rewards in flight; excluded from Pending
	// and from claim batches.
	Escrow uint64
}

// ClaimBatchStatus is the ledger state of a batched claim.
type ClaimBatchStatus string

const (
	ClaimBatchPending   ClaimBatchStatus = "pending"
	ClaimBatchSubmitted ClaimBatchStatus = "submitted"
	ClaimBatchFailed    ClaimBatchStatus = "failed"
)

// ClaimPosition is one position inside a claim batch.
type ClaimPosition struct {
	PositionID string
	Amount     uint64
	NftAssets  []records.Pubkey
}

// ClaimBatch is an aggregated claim covering many positions. It is recorded
// in the ledger before the payout request is handed to the wallet for
// signing; either every position is included or the whole batch is rejected.
type ClaimBatch struct {
	ID        string
	Wallet    records.Pubkey
	Total     uint64
	Status    ClaimBatchStatus
	Positions []ClaimPosition

	// Signature is the payout transaction signature, set on submit.
	Signature string
	// FailureReason is set when a submitted payout did not land.
	FailureReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}
