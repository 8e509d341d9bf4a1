package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

const insertClaimBatch = `
INSERT INTO registry_claim_batches (id, wallet, total, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

const insertClaimPosition = `
INSERT INTO registry_claim_positions (batch_id, position_id, amount, nft_assets)
VALUES ($1, $2, $3, $4)
`

const selectClaimBatch = `
SELECT id, wallet, total, status, COALESCE(signature, ''), COALESCE(failure_reason, ''), created_at, updated_at
FROM registry_claim_batches
WHERE id = $1
`

const selectClaimBatchesByWallet = `
SELECT id, wallet, total, status, COALESCE(signature, ''), COALESCE(failure_reason, ''), created_at, updated_at
FROM registry_claim_batches
WHERE wallet = $1
ORDER BY created_at DESC
LIMIT $2
`

const selectClaimPositions = `
SELECT batch_id, position_id, amount, nft_assets
FROM registry_claim_positions
WHERE batch_id = ANY($1)
ORDER BY position_id
`

const updateBatchSubmitted = `
UPDATE registry_claim_batches
SET status = 'submitted', signature = $2, updated_at = now()
WHERE id = $1 AND status = 'pending'
`

const updateBatchFailed = `
UPDATE registry_claim_batches
SET status = 'failed', failure_reason = $2, updated_at = now()
WHERE id = $1 AND status = 'pending'
`

func (r *Repository) CreateClaimBatch(ctx context.Context, batch *entity.ClaimBatch) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, insertClaimBatch,
		batch.ID,
		batch.Wallet.String(),
		int64(batch.Total),
		string(batch.Status),
		batch.CreatedAt,
		batch.UpdatedAt,
	); err != nil {
		return errors.Wrap(err, "insert batch")
	}

	for _, position := range batch.Positions {
		assets := make([]string, 0, len(position.NftAssets))
		for _, asset := range position.NftAssets {
			assets = append(assets, asset.String())
		}
		if _, err := tx.Exec(ctx, insertClaimPosition,
			batch.ID,
			position.PositionID,
			int64(position.Amount),
			assets,
		); err != nil {
			return errors.Wrapf(err, "insert position %q", position.PositionID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}

func (r *Repository) GetClaimBatch(ctx context.Context, id string) (*entity.ClaimBatch, error) {
	row := r.db.QueryRow(ctx, selectClaimBatch, id)
	batch, err := scanClaimBatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(errs.NotFound, "batch %s", id)
		}
		return nil, errors.WithStack(err)
	}

	if err := r.attachPositions(ctx, []*entity.ClaimBatch{batch}); err != nil {
		return nil, errors.WithStack(err)
	}
	return batch, nil
}

func (r *Repository) GetClaimBatchesByWallet(ctx context.Context, wallet records.Pubkey, limit int32) ([]*entity.ClaimBatch, error) {
	rows, err := r.db.Query(ctx, selectClaimBatchesByWallet, wallet.String(), limit)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var batches []*entity.ClaimBatch
	for rows.Next() {
		batch, err := scanClaimBatch(rows)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := r.attachPositions(ctx, batches); err != nil {
		return nil, errors.WithStack(err)
	}
	return batches, nil
}

func (r *Repository) MarkBatchSubmitted(ctx context.Context, id string, signature string) error {
	tag, err := r.db.Exec(ctx, updateBatchSubmitted, id, signature)
	if err != nil {
		return errors.WithStack(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.InvalidArgument, "batch %s is not pending", id)
	}
	return nil
}

func (r *Repository) MarkBatchFailed(ctx context.Context, id string, reason string) error {
	tag, err := r.db.Exec(ctx, updateBatchFailed, id, reason)
	if err != nil {
		return errors.WithStack(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(errs.InvalidArgument, "batch %s is not pending", id)
	}
	return nil
}

func scanClaimBatch(row pgx.Row) (*entity.ClaimBatch, error) {
	var (
		batch  entity.ClaimBatch
		wallet string
		total  int64
		status string
	)
	if err := row.Scan(
		&batch.ID,
		&wallet,
		&total,
		&status,
		&batch.Signature,
		&batch.FailureReason,
		&batch.CreatedAt,
		&batch.UpdatedAt,
	); err != nil {
		return nil, errors.WithStack(err)
	}

	pk, err := records.ParsePubkey(wallet)
	if err != nil {
		return nil, errors.Wrapf(err, "stored wallet %q", wallet)
	}
	batch.Wallet = pk
	batch.Total = uint64(total)
	batch.Status = entity.ClaimBatchStatus(status)
	return &batch, nil
}

// attachPositions loads the positions of all batches in one query.
func (r *Repository) attachPositions(ctx context.Context, batches []*entity.ClaimBatch) error {
	if len(batches) == 0 {
		return nil
	}
	ids := make([]string, 0, len(batches))
	byID := make(map[string]*entity.ClaimBatch, len(batches))
	for _, batch := range batches {
		ids = append(ids, batch.ID)
		byID[batch.ID] = batch
	}

	rows, err := r.db.Query(ctx, selectClaimPositions, ids)
	if err != nil {
		return errors.WithStack(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			batchID    string
			positionID string
			amount     int64
			assets     []string
		)
		if err := rows.Scan(&batchID, &positionID, &amount, &assets); err != nil {
			return errors.WithStack(err)
		}

		position := entity.ClaimPosition{
			PositionID: positionID,
			Amount:     uint64(amount),
		}
		for _, asset := range assets {
			pk, err := records.ParsePubkey(asset)
			if err != nil {
				return errors.Wrapf(err, "stored asset %q", asset)
			}
			position.NftAssets = append(position.NftAssets, pk)
		}
		if batch, ok := byID[batchID]; ok {
			batch.Positions = append(batch.Positions, position)
		}
	}
	return errors.WithStack(rows.Err())
}
