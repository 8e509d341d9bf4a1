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

type getPendingRewardsRequest struct {
	Wallet string `params:"wallet"`
}

type perNftReward struct {
	Asset      string `json:"asset"`
	Weight     uint64 `json:"weight"`
	Rarity     string `json:"rarity"`
	Pending    uint64 `json:"pending"`
	PendingSol string `json:"pendingSol"`
}

type rewardPosition struct {
	PositionId string         `json:"positionId"`
	Pending    uint64         `json:"pending"`
	PendingSol string         `json:"pendingSol"`
	Escrow     uint64         `json:"escrow"`
	EscrowSol  string         `json:"escrowSol"`
	NftCount   int            `json:"nftCount"`
	PerNft     []perNftReward `json:"perNft"`
}

type getPendingRewardsResult struct {
	Wallet    string           `json:"wallet"`
	Total     uint64           `json:"total"`
	TotalSol  string           `json:"totalSol"`
	Positions []rewardPosition `json:"positions"`
}

type getPendingRewardsResponse = common.HttpResponse[getPendingRewardsResult]

func (h *HttpHandler) GetPendingRewards(ctx *fiber.Ctx) error {
	var req getPendingRewardsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	wallet, err := records.ParsePubkey(req.Wallet)
	if err != nil {
		return errors.Wrapf(errs.InvalidArgument, "wallet %q", req.Wallet)
	}

	positions, err := h.usecase.PendingRewards(ctx.UserContext(), wallet)
	if err != nil {
		return errors.Wrap(err, "error during PendingRewards")
	}

	var total uint64
	for _, pos := range positions {
		total += pos.Pending
	}

	resp := getPendingRewardsResponse{
		Result: &getPendingRewardsResult{
			Wallet:   wallet.String(),
			Total:    total,
			TotalSol: solAmount(total),
			Positions: lo.Map(positions, func(pos entity.RewardPosition, _ int) rewardPosition {
				return rewardPosition{
					PositionId: pos.PositionID,
					Pending:    pos.Pending,
					PendingSol: solAmount(pos.Pending),
					Escrow:     pos.Escrow,
					EscrowSol:  solAmount(pos.Escrow),
					NftCount:   pos.NftCount,
					PerNft: lo.Map(pos.PerNft, func(nft entity.PerNftReward, _ int) perNftReward {
						return perNftReward{
							Asset:      nft.Asset.String(),
							Weight:     nft.Weight,
							Rarity:     string(nft.Rarity),
							Pending:    nft.Pending,
							PendingSol: solAmount(nft.Pending),
						}
					}),
				}
			}),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
