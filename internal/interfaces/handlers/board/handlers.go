package board

import (
	"bytes"
	"html/template"
	"time"

	boardapp "yardsale-board/internal/application/board"
	listsvc "yardsale-board/internal/application/listings"
	"yardsale-board/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var pageTmpl = template.Must(template.New("board").Funcs(template.FuncMap{
	"price": boardapp.PriceLabel,
}).Parse(pageHTML))

// Handlers serves the board page and its client configuration.
type Handlers struct {
	Listings          *listsvc.Service
	MapCenter         boardapp.LatLng
	FeaturePriceCents int64
	SponsorPriceCents int64
	MapsAPIKey        string
	UploadsEnabled    bool
	// APIBase is the prefix the page's script calls, e.g. "/api".
	APIBase string
}

type pageData struct {
	View              boardapp.View
	MapsAPIKey        string
	FeaturePriceCents int64
	SponsorPriceCents int64
	UploadsEnabled    bool
	APIBase           string
	Notice            string
}

// GET /?q=&category=&date=
func (h *Handlers) Page(c *fiber.Ctx) error {
	listings, err := h.Listings.ListActive(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("board: list failed")
		return response.FromError(c, err)
	}
	snap := boardapp.NewSnapshot(listings, time.Now())
	filter := boardapp.Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Date:     c.Query("date"),
	}
	data := pageData{
		View: snap.View(filter, boardapp.ViewOptions{
			Center:            h.MapCenter,
			FeaturePriceCents: h.FeaturePriceCents,
		}),
		MapsAPIKey:        h.MapsAPIKey,
		FeaturePriceCents: h.FeaturePriceCents,
		SponsorPriceCents: h.SponsorPriceCents,
		UploadsEnabled:    h.UploadsEnabled,
		APIBase:           h.APIBase,
		Notice:            notice(c.Query("featured"), c.Query("sponsor")),
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		log.Error().Err(err).Msg("board: render failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func notice(featured, sponsor string) string {
	switch {
	case featured == "success":
		return "Thanks! Your listing will be featured as soon as the payment is confirmed."
	case featured == "cancel":
		return "Checkout canceled. Your listing was not featured."
	case sponsor == "success":
		return "Thanks for sponsoring local deals!"
	case sponsor == "cancel":
		return "Sponsorship checkout canceled."
	}
	return ""
}

// GET /api/config
func (h *Handlers) Config(c *fiber.Ctx) error {
	return response.OK(c, fiber.Map{
		"mapCenter":         h.MapCenter,
		"featurePriceCents": h.FeaturePriceCents,
		"sponsorPriceCents": h.SponsorPriceCents,
		"mapsApiKey":        h.MapsAPIKey,
		"uploadsEnabled":    h.UploadsEnabled,
	})
}
