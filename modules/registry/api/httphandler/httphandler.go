package httphandler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/solstream-labs/creator-gateway/modules/registry/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
	}
}

// Mount registers the module's routes on the given router.
func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1")

	r.Get("/content/access", h.GetContentAccess)
	r.Get("/content/:cid/check", h.GetCheckAccess)
	r.Get("/rewards/pending/:wallet", h.GetPendingRewards)
	r.Get("/rewards/pools/:cid", h.GetPoolStats)
	r.Post("/rewards/claim", h.PostClaim)
	r.Get("/rewards/claims", h.GetClaimBatches)
	r.Post("/rewards/claim/:id/submitted", h.PostClaimSubmitted)
	r.Post("/rewards/claim/:id/failed", h.PostClaimFailed)

	return nil
}

// solDecimals is the number of decimal places in one SOL (1 SOL = 1e9
// lamports).
const solDecimals = 9

// solAmount renders a lamport amount as a decimal SOL string.
func solAmount(lamports uint64) string {
	return decimal.New(int64(lamports), -solDecimals).String()
}
