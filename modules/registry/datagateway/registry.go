package datagateway

import (
	"context"

	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

// RegistryDataGateway reads decoded registry accounts from the chain. All
// lookups return errs.NotFound when the account does not exist and
// errs.Unavailable on transport failure; decode failures propagate their
// decode error kind.
type RegistryDataGateway interface {
	// GetContentByCID resolves the content record whose content_cid equals cid.
	GetContentByCID(ctx context.Context, cid string) (*records.ContentRecord, error)

	// GetEcosystemSubscription resolves the wallet's ecosystem subscription, if any.
	GetEcosystemSubscription(ctx context.Context, wallet records.Pubkey) (*records.EcosystemSubscription, error)

	// GetPatronSubscription resolves the wallet's patron subscription to the creator, if any.
	GetPatronSubscription(ctx context.Context, wallet, creator records.Pubkey) (*records.CreatorPatronSubscription, error)

	// IsStreamFunded reports whether the payment stream backing a
	// subscription is still funded. The funding rule lives in the payment
	// program; this side treats it as an opaque predicate.
	IsStreamFunded(ctx context.Context, streamID records.Pubkey) (bool, error)

	// GetWalletAssets lists every NFT asset account owned by the wallet.
	GetWalletAssets(ctx context.Context, wallet records.Pubkey) ([]entity.WalletAsset, error)

	// GetBundleItemsByContentCID lists bundle items referencing the content.
	GetBundleItemsByContentCID(ctx context.Context, cid string) ([]entity.BundleItemAccount, error)

	// GetBundleCollection resolves the NFT collection registered for a bundle.
	GetBundleCollection(ctx context.Context, bundleRef records.Pubkey) (*records.BundleCollection, error)
}

// RewardDataGateway reads reward pool state from the chain.
type RewardDataGateway interface {
	GetRewardPoolByContent(ctx context.Context, contentCID string) (*records.RewardPool, error)
	GetGlobalHolderPool(ctx context.Context) (*records.GlobalHolderPool, error)
	GetCreatorDistPool(ctx context.Context, creator records.Pubkey) (*records.CreatorDistPool, error)

	// GetPoolAccount resolves the pool at address into its concrete kind.
	// Direct pools come back with their content cid resolved.
	GetPoolAccount(ctx context.Context, pool records.Pubkey) (*entity.PoolAccount, error)

	// GetNftPositions lists the per-pool claim positions of one NFT asset.
	GetNftPositions(ctx context.Context, asset records.Pubkey) ([]*records.NftPosition, error)
}
