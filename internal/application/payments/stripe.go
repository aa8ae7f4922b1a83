package payments

import (
	"context"
	"encoding/json"
	"errors"

	"yardsale-board/internal/domain"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

var errStripeNotConfigured = errors.New("stripe is not configured")

// StripeCheckout creates Checkout Sessions with the Stripe API.
type StripeCheckout struct {
	api *client.API
}

// NewStripeCheckout returns a Checkout backed by the given secret key. An empty key
// yields a Checkout whose calls fail with a ProcessorError.
func NewStripeCheckout(secretKey string) *StripeCheckout {
	if secretKey == "" {
		return &StripeCheckout{}
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeCheckout{api: sc}
}

func (s *StripeCheckout) CreateFeatureSession(ctx context.Context, p FeatureSessionParams) (string, error) {
	if s.api == nil {
		return "", &domain.ProcessorError{Err: errStripeNotConfigured}
	}
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.Currency),
				UnitAmount: stripe.Int64(p.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(p.ProductName),
					Description: stripe.String(p.ProductDescription),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata(MetadataListingID, p.ListingID)

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", processorError(err)
	}
	return sess.URL, nil
}

// CreateSponsorSession creates the monthly price on the fly, then a subscription session.
func (s *StripeCheckout) CreateSponsorSession(ctx context.Context, p SponsorSessionParams) (string, error) {
	if s.api == nil {
		return "", &domain.ProcessorError{Err: errStripeNotConfigured}
	}
	priceParams := &stripe.PriceParams{
		UnitAmount: stripe.Int64(p.AmountCents),
		Currency:   stripe.String(p.Currency),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(p.ProductName),
		},
	}
	priceParams.Context = ctx
	pr, err := s.api.Prices.New(priceParams)
	if err != nil {
		return "", processorError(err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(pr.ID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.Context = ctx
	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", processorError(err)
	}
	return sess.URL, nil
}

// processorError keeps Stripe's human message; *stripe.Error.Error() is a JSON dump.
func processorError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return &domain.ProcessorError{Err: errors.New(se.Msg)}
	}
	return &domain.ProcessorError{Err: err}
}

// StripeVerifier checks the Stripe-Signature header (HMAC-SHA256, 5 minute tolerance).
type StripeVerifier struct {
	Secret string
}

func (v *StripeVerifier) Verify(payload []byte, sigHeader string) (*Event, error) {
	if v.Secret == "" || sigHeader == "" {
		return nil, errors.New("missing signature or secret")
	}
	ev, err := webhook.ConstructEventWithOptions(payload, sigHeader, v.Secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, err
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if out.Type != EventCheckoutCompleted || ev.Data == nil {
		return out, nil
	}
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
		log.Warn().Err(err).Str("event_id", ev.ID).Msg("Undecodable checkout session in verified event")
		return out, nil
	}
	out.Session = &CheckoutSession{
		ID:            cs.ID,
		Mode:          string(cs.Mode),
		PaymentStatus: string(cs.PaymentStatus),
		Currency:      string(cs.Currency),
		AmountTotal:   cs.AmountTotal,
		Metadata:      cs.Metadata,
		Raw:           ev.Data.Raw,
	}
	return out, nil
}
