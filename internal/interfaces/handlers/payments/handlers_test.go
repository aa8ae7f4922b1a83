package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	listsvc "yardsale-board/internal/application/listings"
	paysvc "yardsale-board/internal/application/payments"
	"yardsale-board/internal/domain"
	"yardsale-board/internal/infrastructure/kvstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_handler_test"

type fakeCheckout struct {
	feature paysvc.FeatureSessionParams
	sponsor paysvc.SponsorSessionParams
	err     error
}

func (f *fakeCheckout) CreateFeatureSession(ctx context.Context, p paysvc.FeatureSessionParams) (string, error) {
	f.feature = p
	if f.err != nil {
		return "", f.err
	}
	return "https://checkout.stripe.test/feature", nil
}

func (f *fakeCheckout) CreateSponsorSession(ctx context.Context, p paysvc.SponsorSessionParams) (string, error) {
	f.sponsor = p
	if f.err != nil {
		return "", f.err
	}
	return "https://checkout.stripe.test/sponsor", nil
}

type fixture struct {
	app      *fiber.App
	checkout *fakeCheckout
	listings *listsvc.Service
}

func setup(t *testing.T) *fixture {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ls := &listsvc.Service{Store: &kvstore.RedisStore{Rdb: rdb}, Location: time.UTC}
	checkout := &fakeCheckout{}
	h := &Handlers{
		Service: &paysvc.Service{
			Listings:          ls,
			Checkout:          checkout,
			Verifier:          &paysvc.StripeVerifier{Secret: webhookSecret},
			Currency:          "usd",
			FeaturePriceCents: 700,
			SponsorPriceCents: 2900,
		},
		SiteURL: "https://yardsales.example",
	}
	app := fiber.New()
	app.Post("/create-checkout-session", h.CreateCheckoutSession)
	app.Post("/create-subscription", h.CreateSubscription)
	app.Post("/webhook", h.Webhook)
	return &fixture{app: app, checkout: checkout, listings: ls}
}

func (f *fixture) createListing(t *testing.T) string {
	id, err := f.listings.CreateListing(context.Background(), listsvc.CreateListingInput{
		Title: "Moving Sale", Address: "12 Elm St", Category: "Garage Sale", Date: time.Now().Format(domain.DateLayout),
	})
	require.NoError(t, err)
	return id
}

func sign(payload []byte, secret string) string {
	ts := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "." + string(payload)))
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func completedEvent(t *testing.T, listingID string) []byte {
	b, err := json.Marshal(map[string]interface{}{
		"id":     "evt_1",
		"object": "event",
		"type":   "checkout.session.completed",
		"data": map[string]interface{}{"object": map[string]interface{}{
			"id":             "cs_1",
			"object":         "checkout.session",
			"mode":           "payment",
			"payment_status": "paid",
			"amount_total":   700,
			"currency":       "usd",
			"metadata":       map[string]string{"listingId": listingID},
		}},
	})
	require.NoError(t, err)
	return b
}

func do(t *testing.T, app *fiber.App, path string, body []byte, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func TestCreateCheckoutSession_UsesOriginHeader(t *testing.T) {
	f := setup(t)
	id := f.createListing(t)

	code, body := do(t, f.app, "/create-checkout-session", []byte(`{"listingId":"`+id+`","amountCents":700}`),
		map[string]string{"Origin": "https://preview.yardsales.example"})
	require.Equal(t, 200, code, body)
	assert.JSONEq(t, `{"url":"https://checkout.stripe.test/feature"}`, body)
	assert.Equal(t, "https://preview.yardsales.example/?featured=success", f.checkout.feature.SuccessURL)
	assert.Equal(t, int64(700), f.checkout.feature.AmountCents)
}

func TestCreateCheckoutSession_FallsBackToSiteURLAndDefaultAmount(t *testing.T) {
	f := setup(t)
	id := f.createListing(t)

	code, _ := do(t, f.app, "/create-checkout-session", []byte(`{"listingId":"`+id+`"}`), nil)
	require.Equal(t, 200, code)
	assert.Equal(t, "https://yardsales.example/?featured=cancel", f.checkout.feature.CancelURL)
	assert.Equal(t, int64(700), f.checkout.feature.AmountCents)
}

func TestCreateCheckoutSession_Errors(t *testing.T) {
	f := setup(t)

	code, body := do(t, f.app, "/create-checkout-session", []byte(`{}`), nil)
	assert.Equal(t, 400, code)
	assert.JSONEq(t, `{"error":"Missing required field: listingId"}`, body)

	code, body = do(t, f.app, "/create-checkout-session", []byte(`{"listingId":"nope"}`), nil)
	assert.Equal(t, 404, code)
	assert.JSONEq(t, `{"error":"Listing not found"}`, body)

	id := f.createListing(t)
	f.checkout.err = &domain.ProcessorError{Err: errors.New("Your card was declined.")}
	code, body = do(t, f.app, "/create-checkout-session", []byte(`{"listingId":"`+id+`"}`), nil)
	assert.Equal(t, 502, code)
	assert.JSONEq(t, `{"error":"Your card was declined."}`, body)
}

func TestCreateSubscription(t *testing.T) {
	f := setup(t)
	code, body := do(t, f.app, "/create-subscription", nil, nil)
	require.Equal(t, 200, code)
	assert.JSONEq(t, `{"url":"https://checkout.stripe.test/sponsor"}`, body)
	assert.Equal(t, int64(2900), f.checkout.sponsor.AmountCents)
	assert.Equal(t, "https://yardsales.example/?sponsor=success", f.checkout.sponsor.SuccessURL)
}

func TestWebhook_FeaturesListingAndIsIdempotent(t *testing.T) {
	f := setup(t)
	id := f.createListing(t)
	payload := completedEvent(t, id)

	for i := 0; i < 2; i++ {
		code, body := do(t, f.app, "/webhook", payload, map[string]string{"Stripe-Signature": sign(payload, webhookSecret)})
		require.Equal(t, 200, code)
		assert.Equal(t, "ok", body)
	}
	l, err := f.listings.GetListing(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, l.Featured)
}

func TestWebhook_InvalidSignature(t *testing.T) {
	f := setup(t)
	id := f.createListing(t)
	payload := completedEvent(t, id)

	code, body := do(t, f.app, "/webhook", payload, map[string]string{"Stripe-Signature": sign(payload, "whsec_wrong")})
	assert.Equal(t, 400, code)
	assert.Contains(t, body, "Webhook Error:")

	code, _ = do(t, f.app, "/webhook", payload, nil)
	assert.Equal(t, 400, code)

	l, err := f.listings.GetListing(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, l.Featured)
}

func TestWebhook_UnknownListingStillOK(t *testing.T) {
	f := setup(t)
	payload := completedEvent(t, "does-not-exist")
	code, body := do(t, f.app, "/webhook", payload, map[string]string{"Stripe-Signature": sign(payload, webhookSecret)})
	assert.Equal(t, 200, code)
	assert.Equal(t, "ok", body)
}
