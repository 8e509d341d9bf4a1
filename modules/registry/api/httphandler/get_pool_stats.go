package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/solstream-labs/creator-gateway/common"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
)

type getPoolStatsRequest struct {
	Cid string `params:"cid"`
}

type poolFunding struct {
	Deposited    uint64 `json:"deposited"`
	DepositedSol string `json:"depositedSol"`
	Claimed      uint64 `json:"claimed"`
	Remaining    uint64 `json:"remaining"`
	RemainingSol string `json:"remainingSol"`
	TotalWeight  uint64 `json:"totalWeight"`
	Escrow       uint64 `json:"escrow"`
	Epoch        uint64 `json:"epoch"`
}

type getPoolStatsResult struct {
	ContentCid  string       `json:"contentCid"`
	Creator     string       `json:"creator"`
	Direct      *poolFunding `json:"direct"`
	Global      *poolFunding `json:"global"`
	CreatorDist *poolFunding `json:"creatorDist"`
}

type getPoolStatsResponse = common.HttpResponse[getPoolStatsResult]

func (h *HttpHandler) GetPoolStats(ctx *fiber.Ctx) error {
	var req getPoolStatsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}

	stats, err := h.usecase.PoolStats(ctx.UserContext(), req.Cid)
	if err != nil {
		return errors.Wrap(err, "error during PoolStats")
	}

	resp := getPoolStatsResponse{
		Result: &getPoolStatsResult{
			ContentCid:  stats.ContentCID,
			Creator:     stats.Creator.String(),
			Direct:      toPoolFunding(stats.Direct),
			Global:      toPoolFunding(stats.Global),
			CreatorDist: toPoolFunding(stats.CreatorDist),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

func toPoolFunding(pool *entity.PoolBreakdown) *poolFunding {
	if pool == nil {
		return nil
	}
	return &poolFunding{
		Deposited:    pool.Deposited,
		DepositedSol: solAmount(pool.Deposited),
		Claimed:      pool.Claimed,
		Remaining:    pool.Remaining,
		RemainingSol: solAmount(pool.Remaining),
		TotalWeight:  pool.TotalWeight,
		Escrow:       pool.Escrow,
		Epoch:        pool.Epoch,
	}
}
