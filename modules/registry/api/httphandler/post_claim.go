package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/solstream-labs/creator-gateway/common"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
)

type postClaimRequest struct {
	Positions []string `json:"positions"`

	// Wallet lets an operator build a batch for another wallet. Regular
	// callers leave it empty and claim for themselves.
	Wallet string `json:"wallet"`
}

func (r postClaimRequest) Validate() error {
	var errList []error
	if len(r.Positions) == 0 {
		errList = append(errList, errors.New("'positions' must not be empty"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type claimPosition struct {
	PositionId string   `json:"positionId"`
	Amount     uint64   `json:"amount"`
	AmountSol  string   `json:"amountSol"`
	NftAssets  []string `json:"nftAssets"`
}

type claimBatchResult struct {
	Id            string          `json:"id"`
	Wallet        string          `json:"wallet"`
	Total         uint64          `json:"total"`
	TotalSol      string          `json:"totalSol"`
	Status        string          `json:"status"`
	Signature     string          `json:"signature,omitempty"`
	FailureReason string          `json:"failureReason,omitempty"`
	Positions     []claimPosition `json:"positions"`
	CreatedAt     int64           `json:"createdAt"`
	UpdatedAt     int64           `json:"updatedAt"`
}

type postClaimResponse = common.HttpResponse[claimBatchResult]

func toClaimBatchResult(batch *entity.ClaimBatch) claimBatchResult {
	return claimBatchResult{
		Id:            batch.ID,
		Wallet:        batch.Wallet.String(),
		Total:         batch.Total,
		TotalSol:      solAmount(batch.Total),
		Status:        string(batch.Status),
		Signature:     batch.Signature,
		FailureReason: batch.FailureReason,
		Positions: lo.Map(batch.Positions, func(pos entity.ClaimPosition, _ int) claimPosition {
			return claimPosition{
				PositionId: pos.PositionID,
				Amount:     pos.Amount,
				AmountSol:  solAmount(pos.Amount),
				NftAssets: lo.Map(pos.NftAssets, func(asset records.Pubkey, _ int) string {
					return asset.String()
				}),
			}
		}),
		CreatedAt: batch.CreatedAt.Unix(),
		UpdatedAt: batch.UpdatedAt.Unix(),
	}
}

// PostClaim builds and persists an aggregate claim batch for the caller's
// pending positions.
func (h *HttpHandler) PostClaim(ctx *fiber.Ctx) error {
	var req postClaimRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	token := ctx.Get(fiber.HeaderAuthorization)

	var (
		batch *entity.ClaimBatch
		err   error
	)
	if req.Wallet != "" {
		wallet, parseErr := records.ParsePubkey(req.Wallet)
		if parseErr != nil {
			return errors.Wrapf(errs.InvalidArgument, "wallet %q", req.Wallet)
		}
		batch, err = h.usecase.BuildClaimBatchForWallet(ctx.UserContext(), token, wallet, req.Positions)
	} else {
		batch, err = h.usecase.BuildClaimBatch(ctx.UserContext(), token, req.Positions)
	}
	if err != nil {
		return errors.Wrap(err, "error during BuildClaimBatch")
	}

	result := toClaimBatchResult(batch)
	resp := postClaimResponse{Result: &result}
	return errors.WithStack(ctx.Status(fiber.StatusCreated).JSON(resp))
}
