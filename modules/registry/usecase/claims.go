package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

func parseWallet(s string) (records.Pubkey, error) {
	pk, err := records.ParsePubkey(s)
	if err != nil {
		return records.Pubkey{}, errors.Wrapf(errs.InvalidArgument, "wallet %q", s)
	}
	return pk, nil
}

// BuildClaimBatch aggregates the caller's requested positions into one
// persisted claim batch. All-or-nothing: every requested position must
// resolve against current pool state with pending > 0 or the whole batch is
// rejected.
func (u *Usecase) BuildClaimBatch(ctx context.Context, token string, positionIDs []string) (*entity.ClaimBatch, error) {
	wallet, err := u.verifier.Verify(ctx, token)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return u.buildClaimBatch(ctx, wallet, positionIDs)
}

// BuildClaimBatchForWallet builds a batch on behalf of another wallet. Only
// configured operator wallets may call it; the payout still goes to the
// target wallet, the operator just fronts the transaction.
func (u *Usecase) BuildClaimBatchForWallet(ctx context.Context, token string, wallet records.Pubkey, positionIDs []string) (*entity.ClaimBatch, error) {
	operator, err := u.verifier.Verify(ctx, token)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, ok := u.admins[operator]; !ok {
		return nil, errors.Wrapf(errs.Forbidden, "wallet %s is not an operator", operator)
	}
	return u.buildClaimBatch(ctx, wallet, positionIDs)
}

func (u *Usecase) buildClaimBatch(ctx context.Context, wallet records.Pubkey, positionIDs []string) (*entity.ClaimBatch, error) {
	if len(positionIDs) == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "no positions requested")
	}
	if duplicated := lo.FindDuplicates(positionIDs); len(duplicated) > 0 {
		return nil, errors.Wrapf(errs.InvalidArgument, "duplicate position %q", duplicated[0])
	}

	positions, err := u.PendingRewards(ctx, wallet)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	byID := lo.SliceToMap(positions, func(p entity.RewardPosition) (string, entity.RewardPosition) {
		return p.PositionID, p
	})

	now := time.Now().UTC()
	batch := &entity.ClaimBatch{
		ID:        uuid.NewString(),
		Wallet:    wallet,
		Status:    entity.ClaimBatchPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, id := range positionIDs {
		pos, ok := byID[id]
		if !ok {
			return nil, errors.Wrapf(errs.NotFound, "position %q", id)
		}
		if pos.Pending == 0 {
			return nil, errors.Wrapf(errs.InvalidArgument, "position %q has nothing to claim", id)
		}
		batch.Positions = append(batch.Positions, entity.ClaimPosition{
			PositionID: id,
			Amount:     pos.Pending,
			NftAssets: lo.Map(pos.PerNft, func(nft entity.PerNftReward, _ int) records.Pubkey {
				return nft.Asset
			}),
		})
		batch.Total += pos.Pending
	}

	if err := u.claimsDg.CreateClaimBatch(ctx, batch); err != nil {
		return nil, errors.Wrap(err, "persist claim batch")
	}
	return batch, nil
}

// GetClaimBatch returns one ledger batch; callers may only read their own
// batches unless they are an operator.
func (u *Usecase) GetClaimBatch(ctx context.Context, token, id string) (*entity.ClaimBatch, error) {
	wallet, err := u.verifier.Verify(ctx, token)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	batch, err := u.claimsDg.GetClaimBatch(ctx, id)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if batch.Wallet != wallet {
		if _, ok := u.admins[wallet]; !ok {
			return nil, errors.Wrapf(errs.Forbidden, "batch %s belongs to another wallet", id)
		}
	}
	return batch, nil
}

// ListClaimBatches returns the caller's recent batches, newest first.
func (u *Usecase) ListClaimBatches(ctx context.Context, token string, limit int32) ([]*entity.ClaimBatch, error) {
	wallet, err := u.verifier.Verify(ctx, token)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	batches, err := u.claimsDg.GetClaimBatchesByWallet(ctx, wallet, limit)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return batches, nil
}

// MarkClaimSubmitted records the payout signature after the wallet signed
// and sent the aggregate transaction.
func (u *Usecase) MarkClaimSubmitted(ctx context.Context, token, id, signature string) error {
	if err := u.authorizeBatchTransition(ctx, token, id); err != nil {
		return errors.WithStack(err)
	}
	if signature == "" {
		return errors.Wrap(errs.InvalidArgument, "empty signature")
	}
	return errors.WithStack(u.claimsDg.MarkBatchSubmitted(ctx, id, signature))
}

// MarkClaimFailed records a failed payout attempt so the positions become
// claimable again in a later batch.
func (u *Usecase) MarkClaimFailed(ctx context.Context, token, id, reason string) error {
	if err := u.authorizeBatchTransition(ctx, token, id); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(u.claimsDg.MarkBatchFailed(ctx, id, reason))
}

func (u *Usecase) authorizeBatchTransition(ctx context.Context, token, id string) error {
	wallet, err := u.verifier.Verify(ctx, token)
	if err != nil {
		return errors.WithStack(err)
	}
	batch, err := u.claimsDg.GetClaimBatch(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}
	if batch.Wallet != wallet {
		if _, ok := u.admins[wallet]; !ok {
			return errors.Wrapf(errs.Forbidden, "batch %s belongs to another wallet", id)
		}
	}
	if batch.Status != entity.ClaimBatchPending {
		return errors.Wrapf(errs.InvalidArgument, "batch %s is %s, not pending", id, batch.Status)
	}
	return nil
}
