package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/solstream-labs/creator-gateway/common"
	"github.com/solstream-labs/creator-gateway/common/errs"
)

type getCheckAccessRequest struct {
	Cid    string `params:"cid"`
	Wallet string `query:"wallet"`
}

func (r getCheckAccessRequest) Validate() error {
	var errList []error
	if r.Wallet == "" {
		errList = append(errList, errors.New("'wallet' is required"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getCheckAccessResult struct {
	Allowed bool `json:"allowed"`
}

type getCheckAccessResponse = common.HttpResponse[getCheckAccessResult]

// GetCheckAccess answers whether a wallet would be granted access, without
// a session. Clients use it to pick lock icons before the user signs in.
func (h *HttpHandler) GetCheckAccess(ctx *fiber.Ctx) error {
	var req getCheckAccessRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	allowed, err := h.usecase.CheckAccess(ctx.UserContext(), req.Wallet, req.Cid)
	if err != nil {
		return errors.Wrap(err, "error during CheckAccess")
	}

	resp := getCheckAccessResponse{
		Result: &getCheckAccessResult{Allowed: allowed},
	}
	return errors.WithStack(ctx.JSON(resp))
}
