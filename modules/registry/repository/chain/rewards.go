package chain

import (
	"bytes"
	"context"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/datagateway"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

var _ datagateway.RewardDataGateway = (*Repository)(nil)

func (r *Repository) GetRewardPoolByContent(ctx context.Context, contentCID string) (*records.RewardPool, error) {
	contentAddress, err := r.getContentAddress(ctx, contentCID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	account, err := r.scanOne(ctx, r.cfg.RewardsProgram,
		discFilter("RewardPool"),
		keyFilter(firstKeyOffset, contentAddress),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	pool, err := records.DecodeRewardPool(account.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "reward pool account %s", account.Address)
	}
	return pool, nil
}

// GetGlobalHolderPool resolves the singleton ecosystem pool. The rewards
// program guarantees at most one such account exists.
func (r *Repository) GetGlobalHolderPool(ctx context.Context) (*records.GlobalHolderPool, error) {
	account, err := r.scanOne(ctx, r.cfg.RewardsProgram, discFilter("GlobalHolderPool"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	pool, err := records.DecodeGlobalHolderPool(account.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "global pool account %s", account.Address)
	}
	return pool, nil
}

func (r *Repository) GetCreatorDistPool(ctx context.Context, creator records.Pubkey) (*records.CreatorDistPool, error) {
	account, err := r.scanOne(ctx, r.cfg.RewardsProgram,
		discFilter("CreatorDistPool"),
		keyFilter(firstKeyOffset, creator),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	pool, err := records.DecodeCreatorDistPool(account.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "creator pool account %s", account.Address)
	}
	return pool, nil
}

// GetPoolAccount fetches the pool at address and classifies it by its
// discriminator. Direct pools have their content cid resolved so callers
// get a display-ready position identity.
func (r *Repository) GetPoolAccount(ctx context.Context, pool records.Pubkey) (*entity.PoolAccount, error) {
	data, err := r.client.GetAccountBytes(ctx, pool.String())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(data) < 8 {
		return nil, errors.Wrapf(errs.TruncatedRecord, "pool account %s", pool)
	}

	disc := data[:8]
	switch {
	case matchesDiscriminator(disc, "RewardPool"):
		rewardPool, err := records.DecodeRewardPool(data)
		if err != nil {
			return nil, errors.Wrapf(err, "pool account %s", pool)
		}
		contentCID, err := r.contentCIDByAddress(ctx, rewardPool.ContentRef)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return &entity.PoolAccount{
			Address:    pool,
			Kind:       entity.PoolKindDirect,
			State:      rewardPool.PoolState,
			ContentCID: contentCID,
		}, nil
	case matchesDiscriminator(disc, "GlobalHolderPool"):
		globalPool, err := records.DecodeGlobalHolderPool(data)
		if err != nil {
			return nil, errors.Wrapf(err, "pool account %s", pool)
		}
		return &entity.PoolAccount{
			Address: pool,
			Kind:    entity.PoolKindGlobal,
			State:   globalPool.PoolState,
			Escrow:  globalPool.EscrowBalance,
		}, nil
	case matchesDiscriminator(disc, "CreatorDistPool"):
		creatorPool, err := records.DecodeCreatorDistPool(data)
		if err != nil {
			return nil, errors.Wrapf(err, "pool account %s", pool)
		}
		return &entity.PoolAccount{
			Address: pool,
			Kind:    entity.PoolKindCreator,
			State:   creatorPool.PoolState,
			Creator: creatorPool.Creator,
			Escrow:  creatorPool.EscrowBalance,
		}, nil
	default:
		return nil, errors.Wrapf(errs.InvalidRecord, "account %s is not a reward pool", pool)
	}
}

func matchesDiscriminator(got []byte, kind string) bool {
	want := records.AccountDiscriminator(kind)
	return bytes.Equal(got, want[:])
}

func (r *Repository) contentCIDByAddress(ctx context.Context, address records.Pubkey) (string, error) {
	data, err := r.client.GetAccountBytes(ctx, address.String())
	if err != nil {
		return "", errors.WithStack(err)
	}
	content, err := records.DecodeContentRecord(data)
	if err != nil {
		return "", errors.Wrapf(err, "content account %s", address)
	}
	return content.ContentCID, nil
}

func (r *Repository) GetNftPositions(ctx context.Context, asset records.Pubkey) ([]*records.NftPosition, error) {
	accounts, err := r.scan(ctx, r.cfg.RewardsProgram,
		discFilter("NftPosition"),
		keyFilter(firstKeyOffset, asset),
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	positions := make([]*records.NftPosition, 0, len(accounts))
	for _, account := range accounts {
		position, err := records.DecodeNftPosition(account.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "position account %s", account.Address)
		}
		positions = append(positions, position)
	}
	return positions, nil
}
