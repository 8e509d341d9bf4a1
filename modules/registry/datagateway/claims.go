package datagateway

import (
	"context"

	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

// ClaimsDataGateway persists the claim ledger. CreateClaimBatch writes the
// batch header and every position in one transaction; a batch is never
// visible with a subset of its positions.
type ClaimsDataGateway interface {
	CreateClaimBatch(ctx context.Context, batch *entity.ClaimBatch) error
	GetClaimBatch(ctx context.Context, id string) (*entity.ClaimBatch, error)
	GetClaimBatchesByWallet(ctx context.Context, wallet records.Pubkey, limit int32) ([]*entity.ClaimBatch, error)

	// MarkBatchSubmitted transitions pending -> submitted with the chain
	// signature of the payout transaction.
	MarkBatchSubmitted(ctx context.Context, id string, signature string) error

	// MarkBatchFailed transitions pending -> failed.
	MarkBatchFailed(ctx context.Context, id string, reason string) error
}
