package entity

import (
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

// PoolKind tells which reward source an on-chain pool account belongs to.
type PoolKind string

const (
	// PoolKindDirect is a per-content pool funded by primary-sale proceeds.
	PoolKindDirect PoolKind = "direct"
	// PoolKindGlobal is the ecosystem-subscription pool for all holders.
	PoolKindGlobal PoolKind = "global"
	// PoolKindCreator is a per-creator patron-subscription pool.
	PoolKindCreator PoolKind = "creator"
)

// PoolAccount is a resolved reward pool: its accounting state plus enough
// identity to group claim positions for display.
type PoolAccount struct {
	Address records.Pubkey
	Kind    PoolKind
	State   records.PoolState

	ContentCID string         // direct pools
	Creator    records.Pubkey // creator pools

	// Escrow is the fee balance waiting for the next epoch sweep on
	// subscription-funded pools. Informational only, never claimable.
	Escrow uint64
}

// PoolBreakdown is the accounting snapshot of one reward pool.
type PoolBreakdown struct {
	Deposited   uint64
	Claimed     uint64
	Remaining   uint64
	TotalWeight uint64

	// Escrow and Epoch are set on swept (subscription-funded) pools only.
	Escrow uint64
	Epoch  uint64
}

// PoolStats aggregates every reward source feeding one content's holders.
// A nil pool means it does not exist on chain: not every content has a
// direct pool and not every creator has opened a distribution pool.
type PoolStats struct {
	ContentCID string
	Creator    records.Pubkey

	Direct      *PoolBreakdown
	Global      *PoolBreakdown
	CreatorDist *PoolBreakdown
}

// PositionID is the stable grouping key shown to clients and recorded in
// the claims ledger.
func (p *PoolAccount) PositionID() string {
	switch p.Kind {
	case PoolKindDirect:
		return p.ContentCID
	case PoolKindGlobal:
		return "global-holders"
	case PoolKindCreator:
		return "creator:" + p.Creator.String()
	}
	return p.Address.String()
}
