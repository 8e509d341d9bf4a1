package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/solstream-labs/creator-gateway/common"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
)

type getClaimBatchesRequest struct {
	Limit int32 `query:"limit"`
}

type getClaimBatchesResult struct {
	Batches []claimBatchResult `json:"batches"`
}

type getClaimBatchesResponse = common.HttpResponse[getClaimBatchesResult]

// GetClaimBatches lists the caller's recent claim batches.
func (h *HttpHandler) GetClaimBatches(ctx *fiber.Ctx) error {
	var req getClaimBatchesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}

	token := ctx.Get(fiber.HeaderAuthorization)
	batches, err := h.usecase.ListClaimBatches(ctx.UserContext(), token, req.Limit)
	if err != nil {
		return errors.Wrap(err, "error during ListClaimBatches")
	}

	resp := getClaimBatchesResponse{
		Result: &getClaimBatchesResult{
			Batches: lo.Map(batches, func(batch *entity.ClaimBatch, _ int) claimBatchResult {
				return toClaimBatchResult(batch)
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type postClaimSubmittedRequest struct {
	Id        string `params:"id"`
	Signature string `json:"signature"`
}

func (r postClaimSubmittedRequest) Validate() error {
	var errList []error
	if r.Signature == "" {
		errList = append(errList, errors.New("'signature' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

// PostClaimSubmitted records the payout transaction signature once the
// wallet has signed and sent the batch.
func (h *HttpHandler) PostClaimSubmitted(ctx *fiber.Ctx) error {
	var req postClaimSubmittedRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	token := ctx.Get(fiber.HeaderAuthorization)
	if err := h.usecase.MarkClaimSubmitted(ctx.UserContext(), token, req.Id, req.Signature); err != nil {
		return errors.Wrap(err, "error during MarkClaimSubmitted")
	}
	return errors.WithStack(ctx.SendStatus(fiber.StatusNoContent))
}

type postClaimFailedRequest struct {
	Id     string `params:"id"`
	Reason string `json:"reason"`
}

// PostClaimFailed reopens a batch whose payout did not land.
func (h *HttpHandler) PostClaimFailed(ctx *fiber.Ctx) error {
	var req postClaimFailedRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}

	token := ctx.Get(fiber.HeaderAuthorization)
	if err := h.usecase.MarkClaimFailed(ctx.UserContext(), token, req.Id, req.Reason); err != nil {
		return errors.Wrap(err, "error during MarkClaimFailed")
	}
	return errors.WithStack(ctx.SendStatus(fiber.StatusNoContent))
}
