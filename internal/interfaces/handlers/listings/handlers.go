package listings

import (
	"bytes"
	"encoding/json"

	listsvc "yardsale-board/internal/application/listings"
	"yardsale-board/internal/infrastructure/metrics"
	"yardsale-board/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *listsvc.Service
}

// createListingRequest is the browser form payload. Coordinates stay raw so that only
// JSON numbers are accepted; anything else (strings, null) is stored as no location.
type createListingRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	TimeStart   string          `json:"timeStart"`
	TimeEnd     string          `json:"timeEnd"`
	Address     string          `json:"address"`
	Contact     string          `json:"contact"`
	PhotoURL    string          `json:"photoUrl"`
	Lat         json.RawMessage `json:"lat"`
	Lng         json.RawMessage `json:"lng"`
}

// GET /api/listings returns { listings }
func (h *Handlers) GetListings(c *fiber.Ctx) error {
	listings, err := h.Service.ListActive(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("listings: list failed")
		return response.FromError(c, err)
	}
	metrics.ActiveListings.Set(float64(len(listings)))
	return response.OK(c, fiber.Map{"listings": listings})
}

// POST /api/create-listing returns { ok, id }
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	var req createListingRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	id, err := h.Service.CreateListing(c.UserContext(), listsvc.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		TimeStart:   req.TimeStart,
		TimeEnd:     req.TimeEnd,
		Address:     req.Address,
		Contact:     req.Contact,
		PhotoURL:    req.PhotoURL,
		Lat:         jsonNumber(req.Lat),
		Lng:         jsonNumber(req.Lng),
	})
	if err != nil {
		if status := response.StatusFor(err); status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Msg("listings: create failed")
		}
		return response.FromError(c, err)
	}
	metrics.ListingsCreated.Inc()
	return response.OK(c, fiber.Map{"ok": true, "id": id})
}

func jsonNumber(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}
