package listingevents

import (
	lesvc "yardsale-board/internal/application/listingevents"
	"yardsale-board/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *lesvc.Service
}

// GET /api/admin/listings/:id/events
func (h *Handlers) GetListingEvents(c *fiber.Ctx) error {
	listingID := c.Params("id")
	events, err := h.Service.GetListingEvents(c.UserContext(), listingID)
	if err != nil {
		log.Error().Err(err).Str("listing_id", listingID).Msg("ledger: list events failed")
		return response.Error(c, err.Error(), fiber.StatusInternalServerError)
	}
	return response.OK(c, fiber.Map{"events": events})
}

// GET /api/admin/payments?status=unmatched
func (h *Handlers) ListPayments(c *fiber.Ctx) error {
	payments, err := h.Service.ListPayments(c.UserContext(), c.Query("status"))
	if err != nil {
		log.Error().Err(err).Msg("ledger: list payments failed")
		return response.Error(c, err.Error(), fiber.StatusInternalServerError)
	}
	return response.OK(c, fiber.Map{"payments": payments})
}
