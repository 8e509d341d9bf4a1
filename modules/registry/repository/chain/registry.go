package chain

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/datagateway"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
	"github.com/solstream-labs/creator-gateway/pkg/logger"
	"github.com/solstream-labs/creator-gateway/pkg/logger/slogx"
)

var _ datagateway.RegistryDataGateway = (*Repository)(nil)

func (r *Repository) GetContentByCID(ctx context.Context, cid string) (*records.ContentRecord, error) {
	account, err := r.scanOne(ctx, r.cfg.RegistryProgram,
		discFilter("ContentRecord"),
		stringFilter(contentCIDOffset, cid),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	content, err := records.DecodeContentRecord(account.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "content account %s", account.Address)
	}
	return content, nil
}

// getContentAddress resolves the account address holding a content record.
// Reward pools reference content by address, not cid.
func (r *Repository) getContentAddress(ctx context.Context, cid string) (records.Pubkey, error) {
	account, err := r.scanOne(ctx, r.cfg.RegistryProgram,
		discFilter("ContentRecord"),
		stringFilter(contentCIDOffset, cid),
	)
	if err != nil {
		return records.Pubkey{}, errors.WithStack(err)
	}
	address, err := records.ParsePubkey(account.Address)
	if err != nil {
		return records.Pubkey{}, errors.Wrapf(err, "content account address %q", account.Address)
	}
	return address, nil
}

func (r *Repository) GetEcosystemSubscription(ctx context.Context, wallet records.Pubkey) (*records.EcosystemSubscription, error) {
	account, err := r.scanOne(ctx, r.cfg.RegistryProgram,
		discFilter("EcosystemSubscription"),
		keyFilter(firstKeyOffset, wallet),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sub, err := records.DecodeEcosystemSubscription(account.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "subscription account %s", account.Address)
	}
	return sub, nil
}

func (r *Repository) GetPatronSubscription(ctx context.Context, wallet, creator records.Pubkey) (*records.CreatorPatronSubscription, error) {
	account, err := r.scanOne(ctx, r.cfg.RegistryProgram,
		discFilter("CreatorPatronSubscription"),
		keyFilter(firstKeyOffset, wallet),
		keyFilter(secondKeyOffset, creator),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sub, err := records.DecodeCreatorPatronSubscription(account.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "subscription account %s", account.Address)
	}
	return sub, nil
}

// IsStreamFunded checks the payment stream account. The payment program
// closes a stream account when its deposit runs out, so existence is the
// funding signal.
func (r *Repository) IsStreamFunded(ctx context.Context, streamID records.Pubkey) (bool, error) {
	_, err := r.client.GetAccountBytes(ctx, streamID.String())
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return false, nil
		}
		return false, errors.WithStack(err)
	}
	return true, nil
}

func (r *Repository) GetWalletAssets(ctx context.Context, wallet records.Pubkey) ([]entity.WalletAsset, error) {
	accounts, err := r.scan(ctx, r.cfg.NftProgram,
		discFilter("AssetRecord"),
		keyFilter(firstKeyOffset, wallet),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	assets := make([]entity.WalletAsset, 0, len(accounts))
	for _, account := range accounts {
		record, err := records.DecodeAssetRecord(account.Data)
		if err != nil {
			// one malformed NFT must not hide the rest of the wallet
			logger.WarnContext(ctx, "skipping undecodable asset account",
				slogx.String("account", account.Address), slogx.Error(err))
			continue
		}
		address, err := records.ParsePubkey(account.Address)
		if err != nil {
			continue
		}
		assets = append(assets, entity.WalletAsset{Address: address, Record: record})
	}
	return assets, nil
}

func (r *Repository) GetBundleItemsByContentCID(ctx context.Context, cid string) ([]entity.BundleItemAccount, error) {
	accounts, err := r.scan(ctx, r.cfg.RegistryProgram,
		discFilter("BundleItem"),
		stringFilter(contentCIDOffset, cid),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	items := make([]entity.BundleItemAccount, 0, len(accounts))
	for _, account := range accounts {
		record, err := records.DecodeBundleItem(account.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "bundle item account %s", account.Address)
		}
		address, err := records.ParsePubkey(account.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "bundle item address %q", account.Address)
		}
		items = append(items, entity.BundleItemAccount{Address: address, Record: record})
	}
	return items, nil
}

func (r *Repository) GetBundleCollection(ctx context.Context, bundleRef records.Pubkey) (*records.BundleCollection, error) {
	account, err := r.scanOne(ctx, r.cfg.RegistryProgram,
		discFilter("BundleCollection"),
		keyFilter(firstKeyOffset, bundleRef),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	collection, err := records.DecodeBundleCollection(account.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "bundle collection account %s", account.Address)
	}
	return collection, nil
}
