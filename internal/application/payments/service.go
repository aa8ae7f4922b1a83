package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"yardsale-board/internal/domain"
	"yardsale-board/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const (
	EventCheckoutCompleted = "checkout.session.completed"
	ModePayment            = "payment"
	ModeSubscription       = "subscription"
	MetadataListingID      = "listingId"

	SponsorProductName = "Local Deals Sponsor"

	// OutcomeIgnored is returned for verified events that need no processing.
	OutcomeIgnored = "ignored"

	featureNameLength = 50
)

// ListingFeaturer is the part of the listing service the payment flow needs.
type ListingFeaturer interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	MarkFeatured(ctx context.Context, id string) (bool, error)
}

// Ledger records checkout activity for reconciliation. Optional.
type Ledger interface {
	RecordEvent(ctx context.Context, listingID, eventType string, data map[string]interface{}) error
	RecordPayment(ctx context.Context, p *domain.Payment) (bool, error)
}

// Checkout creates hosted checkout sessions and returns their redirect URL.
type Checkout interface {
	CreateFeatureSession(ctx context.Context, p FeatureSessionParams) (string, error)
	CreateSponsorSession(ctx context.Context, p SponsorSessionParams) (string, error)
}

// EventVerifier authenticates a webhook payload against its signature header.
type EventVerifier interface {
	Verify(payload []byte, sigHeader string) (*Event, error)
}

type FeatureSessionParams struct {
	ListingID          string
	ProductName        string
	ProductDescription string
	AmountCents        int64
	Currency           string
	SuccessURL         string
	CancelURL          string
}

type SponsorSessionParams struct {
	ProductName string
	AmountCents int64
	Currency    string
	SuccessURL  string
	CancelURL   string
}

// Event is a verified processor notification. Session is set for checkout completions.
type Event struct {
	ID      string
	Type    string
	Session *CheckoutSession
}

type CheckoutSession struct {
	ID            string
	Mode          string
	PaymentStatus string
	Currency      string
	AmountTotal   int64
	Metadata      map[string]string
	Raw           json.RawMessage
}

type Service struct {
	Listings          ListingFeaturer
	Checkout          Checkout
	Verifier          EventVerifier
	Ledger            Ledger
	Currency          string
	FeaturePriceCents int64
	SponsorPriceCents int64
}

type FeatureCheckoutInput struct {
	ListingID   string
	AmountCents int64
	Origin      string
}

// StartFeatureCheckout opens a one-time checkout for featuring a listing.
func (s *Service) StartFeatureCheckout(ctx context.Context, in FeatureCheckoutInput) (string, error) {
	listingID := strings.TrimSpace(in.ListingID)
	if listingID == "" {
		return "", domain.MissingField("listingId")
	}
	if in.AmountCents < 0 {
		return "", &domain.ValidationError{Field: "amountCents", Message: "amountCents must not be negative"}
	}
	amount := in.AmountCents
	if amount == 0 {
		amount = s.FeaturePriceCents
	}

	listing, err := s.Listings.GetListing(ctx, listingID)
	if err != nil {
		return "", err
	}

	date := listing.DateString()
	if date == "" {
		date = "your listing"
	}
	origin := strings.TrimRight(in.Origin, "/")
	url, err := s.Checkout.CreateFeatureSession(ctx, FeatureSessionParams{
		ListingID:          listingID,
		ProductName:        "Feature: " + validation.Truncate(listing.Title, featureNameLength),
		ProductDescription: "Featured pin for " + date,
		AmountCents:        amount,
		Currency:           s.currency(),
		SuccessURL:         origin + "/?featured=success",
		CancelURL:          origin + "/?featured=cancel",
	})
	if err != nil {
		return "", err
	}
	s.recordEvent(ctx, listingID, domain.EventFeatureCheckoutStarted, map[string]interface{}{"amount_cents": amount})
	return url, nil
}

// StartSponsorCheckout opens a monthly subscription checkout.
func (s *Service) StartSponsorCheckout(ctx context.Context, origin string) (string, error) {
	origin = strings.TrimRight(origin, "/")
	return s.Checkout.CreateSponsorSession(ctx, SponsorSessionParams{
		ProductName: SponsorProductName,
		AmountCents: s.SponsorPriceCents,
		Currency:    s.currency(),
		SuccessURL:  origin + "/?sponsor=success",
		CancelURL:   origin + "/?sponsor=cancel",
	})
}

// HandlePaymentCompleted verifies and applies a webhook delivery. The only error it
// returns wraps domain.ErrInvalidSignature; downstream failures are logged and reported
// through the outcome so the processor never retries a verified event.
func (s *Service) HandlePaymentCompleted(ctx context.Context, payload []byte, sigHeader string) (string, error) {
	if s.Verifier == nil {
		return "", fmt.Errorf("%w: no verifier configured", domain.ErrInvalidSignature)
	}
	ev, err := s.Verifier.Verify(payload, sigHeader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	if ev.Type != EventCheckoutCompleted || ev.Session == nil {
		return OutcomeIgnored, nil
	}

	sess := ev.Session
	switch {
	case sess.Mode == ModePayment && sess.Metadata[MetadataListingID] != "":
		listingID := sess.Metadata[MetadataListingID]
		outcome := s.applyFeature(ctx, listingID)
		s.recordPayment(ctx, ev, domain.PaymentKindFeature, &listingID, outcome)
		return outcome, nil
	case sess.Mode == ModeSubscription:
		s.recordPayment(ctx, ev, domain.PaymentKindSponsor, nil, domain.PaymentRecorded)
		return domain.PaymentRecorded, nil
	}
	return OutcomeIgnored, nil
}

func (s *Service) applyFeature(ctx context.Context, listingID string) string {
	changed, err := s.Listings.MarkFeatured(ctx, listingID)
	switch {
	case err == nil && changed:
		log.Info().Str("listing_id", listingID).Msg("Listing featured after payment")
		return domain.PaymentApplied
	case err == nil:
		return domain.PaymentAlreadyFeatured
	case isNotFound(err):
		log.Warn().Str("listing_id", listingID).Msg("Paid feature for unknown listing")
		return domain.PaymentUnmatched
	default:
		log.Error().Err(err).Str("listing_id", listingID).Msg("Failed to feature listing after payment")
		return domain.PaymentFailed
	}
}

func (s *Service) recordPayment(ctx context.Context, ev *Event, kind string, listingID *string, status string) {
	if s.Ledger == nil {
		return
	}
	sess := ev.Session
	_, err := s.Ledger.RecordPayment(ctx, &domain.Payment{
		StripeSessionID:  sess.ID,
		StripeEventID:    ev.ID,
		Mode:             sess.Mode,
		Kind:             kind,
		ListingID:        listingID,
		AmountTotalCents: sess.AmountTotal,
		Currency:         sess.Currency,
		Status:           status,
		RawSession:       datatypes.JSON(sess.Raw),
	})
	if err != nil {
		log.Warn().Err(err).Str("session_id", sess.ID).Msg("Failed to record payment")
	}
}

func (s *Service) recordEvent(ctx context.Context, listingID, eventType string, data map[string]interface{}) {
	if s.Ledger == nil {
		return
	}
	if err := s.Ledger.RecordEvent(ctx, listingID, eventType, data); err != nil {
		log.Warn().Err(err).Str("listing_id", listingID).Msg("Failed to record checkout event")
	}
}

func (s *Service) currency() string {
	if s.Currency == "" {
		return "usd"
	}
	return s.Currency
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrListingNotFound)
}
