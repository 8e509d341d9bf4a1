package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/cid"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
	"golang.org/x/sync/errgroup"
)

const pendingRewardsConcurrency = 8

// poolCache memoizes pool account lookups for one query. Many NFTs share
// the same pools, so without the cache a large wallet would re-fetch the
// global pool per NFT.
type poolCache struct {
	dg datagatewayReward

	mu    sync.Mutex
	pools map[records.Pubkey]*entity.PoolAccount
}

type datagatewayReward interface {
	GetPoolAccount(ctx context.Context, pool records.Pubkey) (*entity.PoolAccount, error)
}

func newPoolCache(dg datagatewayReward) *poolCache {
	return &poolCache{dg: dg, pools: make(map[records.Pubkey]*entity.PoolAccount)}
}

func (c *poolCache) get(ctx context.Context, pool records.Pubkey) (*entity.PoolAccount, error) {
	c.mu.Lock()
	cached, ok := c.pools[pool]
	c.mu.Unlock()
	if ok {
		if cached == nil {
			return nil, errors.Wrapf(errs.NotFound, "pool %s", pool)
		}
		return cached, nil
	}

	account, err := c.dg.GetPoolAccount(ctx, pool)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			c.mu.Lock()
			c.pools[pool] = nil
			c.mu.Unlock()
		}
		return nil, errors.WithStack(err)
	}

	c.mu.Lock()
	c.pools[pool] = account
	c.mu.Unlock()
	return account, nil
}

// pendingEntry is one NFT's claimable share of one pool.
type pendingEntry struct {
	positionID string
	asset      records.Pubkey
	weight     uint64
	pending    uint64
	escrow     uint64
}

// PendingRewards computes the wallet's claimable rewards across every pool
// its NFTs participate in. Read-only: pool accumulators are post-sweep
// snapshots, so Pending is claimable immediately. Escrow balances waiting
// for the next epoch sweep are reported per position but never claimable.
func (u *Usecase) PendingRewards(ctx context.Context, wallet records.Pubkey) ([]entity.RewardPosition, error) {
	assets, err := u.registryDg.GetWalletAssets(ctx, wallet)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(assets) == 0 {
		return []entity.RewardPosition{}, nil
	}

	cache := newPoolCache(u.rewardDg)

	var (
		mu      sync.Mutex
		entries []pendingEntry
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(pendingRewardsConcurrency)
	for _, asset := range assets {
		asset := asset
		group.Go(func() error {
			assetEntries, err := u.pendingForAsset(groupCtx, cache, asset.Address)
			if err != nil {
				return errors.Wrapf(err, "asset %s", asset.Address)
			}
			mu.Lock()
			entries = append(entries, assetEntries...)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}

	return groupPositions(entries), nil
}

func (u *Usecase) pendingForAsset(ctx context.Context, cache *poolCache, asset records.Pubkey) ([]pendingEntry, error) {
	positions, err := u.rewardDg.GetNftPositions(ctx, asset)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}

	var entries []pendingEntry
	for _, pos := range positions {
		pool, err := cache.get(ctx, pos.Pool)
		if err != nil {
			// a position pointing at a closed pool has nothing left
			// to claim
			if errors.Is(err, errs.NotFound) {
				continue
			}
			return nil, errors.WithStack(err)
		}
		entries = append(entries, pendingEntry{
			positionID: pool.PositionID(),
			asset:      asset,
			weight:     pos.Weight,
			pending:    pool.State.PendingFor(pos.Weight, pos.RewardDebt),
			escrow:     pool.Escrow,
		})
	}
	return entries, nil
}

// PoolStats reports the funding state of every reward source feeding the
// content's holders: its direct pool, the global holder pool and the
// creator's distribution pool. A pool that does not exist on chain is
// omitted rather than treated as a failure.
func (u *Usecase) PoolStats(ctx context.Context, contentCID string) (*entity.PoolStats, error) {
	if !cid.IsValid(contentCID) {
		return nil, errors.Wrapf(errs.InvalidArgument, "content id %q", contentCID)
	}
	content, err := u.registryDg.GetContentByCID(ctx, contentCID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats := &entity.PoolStats{ContentCID: contentCID, Creator: content.Creator}

	direct, err := u.rewardDg.GetRewardPoolByContent(ctx, contentCID)
	switch {
	case err == nil:
		stats.Direct = poolBreakdown(direct.PoolState, 0, 0)
	case !errors.Is(err, errs.NotFound):
		return nil, errors.WithStack(err)
	}

	global, err := u.rewardDg.GetGlobalHolderPool(ctx)
	switch {
	case err == nil:
		stats.Global = poolBreakdown(global.PoolState, global.EscrowBalance, global.Epoch)
	case !errors.Is(err, errs.NotFound):
		return nil, errors.WithStack(err)
	}

	creatorPool, err := u.rewardDg.GetCreatorDistPool(ctx, content.Creator)
	switch {
	case err == nil:
		stats.CreatorDist = poolBreakdown(creatorPool.PoolState, creatorPool.EscrowBalance, creatorPool.Epoch)
	case !errors.Is(err, errs.NotFound):
		return nil, errors.WithStack(err)
	}

	return stats, nil
}

func poolBreakdown(state records.PoolState, escrow, epoch uint64) *entity.PoolBreakdown {
	return &entity.PoolBreakdown{
		Deposited:   state.TotalDeposited,
		Claimed:     state.TotalClaimed,
		Remaining:   state.Remaining(),
		TotalWeight: state.TotalWeight,
		Escrow:      escrow,
		Epoch:       epoch,
	}
}

// groupPositions folds per-pool entries into client-facing positions: one
// position per pool identity, one PerNft row per NFT within it, both in
// deterministic order.
func groupPositions(entries []pendingEntry) []entity.RewardPosition {
	type nftKey struct {
		position string
		asset    records.Pubkey
	}
	perNft := make(map[nftKey]*entity.PerNftReward)
	order := make(map[string][]nftKey)
	// escrow is a property of the pool, not of the NFT, so it is recorded
	// once per position instead of summed per entry
	escrow := make(map[string]uint64)
	for _, e := range entries {
		escrow[e.positionID] = e.escrow
		key := nftKey{position: e.positionID, asset: e.asset}
		if existing, ok := perNft[key]; ok {
			existing.Pending += e.pending
			continue
		}
		perNft[key] = &entity.PerNftReward{
			Asset:   e.asset,
			Weight:  e.weight,
			Rarity:  records.RarityFromWeight(e.weight),
			Pending: e.pending,
		}
		order[e.positionID] = append(order[e.positionID], key)
	}

	positions := make([]entity.RewardPosition, 0, len(order))
	for positionID, keys := range order {
		pos := entity.RewardPosition{PositionID: positionID, Escrow: escrow[positionID]}
		for _, key := range keys {
			nft := perNft[key]
			pos.Pending += nft.Pending
			pos.NftCount++
			pos.PerNft = append(pos.PerNft, *nft)
		}
		sort.Slice(pos.PerNft, func(i, j int) bool {
			return pos.PerNft[i].Asset.String() < pos.PerNft[j].Asset.String()
		})
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].PositionID < positions[j].PositionID
	})
	return positions
}
