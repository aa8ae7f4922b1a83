package payments

import (
	"encoding/json"
	"strings"

	paysvc "yardsale-board/internal/application/payments"
	"yardsale-board/internal/domain"
	"yardsale-board/internal/infrastructure/metrics"
	"yardsale-board/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *paysvc.Service
	SiteURL string
}

type checkoutRequest struct {
	ListingID   string `json:"listingId"`
	AmountCents *int64 `json:"amountCents"`
}

// origin is where checkout redirects back to: the caller's Origin header, else SITE_URL.
func (h *Handlers) origin(c *fiber.Ctx) string {
	if o := strings.TrimSpace(c.Get("Origin")); o != "" && o != "null" {
		return o
	}
	return h.SiteURL
}

// POST /api/create-checkout-session returns { url }
func (h *Handlers) CreateCheckoutSession(c *fiber.Ctx) error {
	var req checkoutRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
		}
	}
	in := paysvc.FeatureCheckoutInput{ListingID: req.ListingID, Origin: h.origin(c)}
	if req.AmountCents != nil {
		in.AmountCents = *req.AmountCents
	}

	url, err := h.Service.StartFeatureCheckout(c.UserContext(), in)
	if err != nil {
		metrics.CheckoutSessions.WithLabelValues(domain.PaymentKindFeature, "error").Inc()
		log.Warn().Err(err).Str("listing_id", req.ListingID).Msg("feature checkout failed")
		return response.FromError(c, err)
	}
	metrics.CheckoutSessions.WithLabelValues(domain.PaymentKindFeature, "created").Inc()
	return response.OK(c, fiber.Map{"url": url})
}

// POST /api/create-subscription returns { url }
func (h *Handlers) CreateSubscription(c *fiber.Ctx) error {
	url, err := h.Service.StartSponsorCheckout(c.UserContext(), h.origin(c))
	if err != nil {
		metrics.CheckoutSessions.WithLabelValues(domain.PaymentKindSponsor, "error").Inc()
		log.Warn().Err(err).Msg("sponsor checkout failed")
		return response.FromError(c, err)
	}
	metrics.CheckoutSessions.WithLabelValues(domain.PaymentKindSponsor, "created").Inc()
	return response.OK(c, fiber.Map{"url": url})
}

// POST /api/webhook takes the raw body and Stripe-Signature header. Anything past signature
// verification is answered 200 so Stripe does not redeliver.
func (h *Handlers) Webhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	sig := c.Get("Stripe-Signature")

	outcome, err := h.Service.HandlePaymentCompleted(c.UserContext(), rawBody, sig)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("rejected").Inc()
		log.Warn().Err(err).Bool("has_sig", sig != "").Int("bytes", len(rawBody)).Msg("Stripe webhook signature verification failed")
		return c.Status(fiber.StatusBadRequest).SendString("Webhook Error: " + err.Error())
	}
	metrics.WebhookEvents.WithLabelValues(outcome).Inc()
	return c.Status(fiber.StatusOK).SendString("ok")
}
