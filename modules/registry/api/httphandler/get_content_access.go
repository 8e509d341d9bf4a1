package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
)

type getContentAccessRequest struct {
	ContentCid string `query:"contentCid"`
	MetaCid    string `query:"metaCid"`
}

// GetContentAccess streams the (decrypted) content payload to an authorized
// caller. The response is never cacheable by shared caches: access depends
// on the caller's wallet.
func (h *HttpHandler) GetContentAccess(ctx *fiber.Ctx) error {
	var req getContentAccessRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}

	token := ctx.Get(fiber.HeaderAuthorization)
	payload, err := h.usecase.FetchContent(ctx.UserContext(), token, req.ContentCid, req.MetaCid)
	if err != nil {
		return errors.Wrap(err, "error during FetchContent")
	}

	ctx.Set(fiber.HeaderCacheControl, "private, no-store")
	if payload.ContentType != "" {
		ctx.Set(fiber.HeaderContentType, payload.ContentType)
	} else {
		ctx.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	if payload.FileName != "" {
		ctx.Set(fiber.HeaderContentDisposition, `inline; filename="`+payload.FileName+`"`)
	}
	return errors.WithStack(ctx.Send(payload.Data))
}
