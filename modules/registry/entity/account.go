package entity

import (
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

// WalletAsset is an NFT asset account together with its address. The address
// is needed for reward-position joins, the record for ownership checks.
type WalletAsset struct {
	Address records.Pubkey
	Record  *records.AssetRecord
}

// BundleItemAccount is a bundle item account with its address.
type BundleItemAccount struct {
	Address records.Pubkey
	Record  *records.BundleItem
}
