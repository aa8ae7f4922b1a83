package listingevents

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	lesvc "yardsale-board/internal/application/listingevents"
	"yardsale-board/internal/domain"
	"yardsale-board/internal/middleware"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLETest(t *testing.T) (*fiber.App, *lesvc.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ListingEvent{}, &domain.Payment{}))
	svc := &lesvc.Service{DB: db}
	h := &Handlers{Service: svc}

	app := fiber.New()
	admin := app.Group("/admin", middleware.AdminKey("s3cret"))
	admin.Get("/listings/:id/events", h.GetListingEvents)
	admin.Get("/payments", h.ListPayments)
	return app, svc
}

func TestAdmin_RequiresKey(t *testing.T) {
	app, _ := setupLETest(t)
	for _, url := range []string{"/admin/payments", "/admin/payments?key=wrong", "/admin/listings/abc/events"} {
		resp, err := app.Test(httptest.NewRequest("GET", url, nil))
		require.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode, url)
	}
}

func TestGetListingEvents(t *testing.T) {
	app, svc := setupLETest(t)
	ctx := context.Background()
	require.NoError(t, svc.RecordEvent(ctx, "abc", domain.EventCreated, map[string]interface{}{"title": "Moving Sale"}))
	require.NoError(t, svc.RecordEvent(ctx, "abc", domain.EventFeatured, nil))
	require.NoError(t, svc.RecordEvent(ctx, "other", domain.EventCreated, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/listings/abc/events?key=s3cret", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Events []domain.ListingEvent `json:"events"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Events, 2)
	for _, e := range body.Events {
		assert.Equal(t, "abc", e.ListingID)
	}
}

func TestListPayments_FilterByStatus(t *testing.T) {
	app, svc := setupLETest(t)
	ctx := context.Background()
	id := "listing-1"
	_, err := svc.RecordPayment(ctx, &domain.Payment{StripeSessionID: "cs_1", StripeEventID: "evt_1", Mode: "payment", Kind: domain.PaymentKindFeature, ListingID: &id, Status: domain.PaymentApplied})
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, &domain.Payment{StripeSessionID: "cs_2", StripeEventID: "evt_2", Mode: "payment", Kind: domain.PaymentKindFeature, Status: domain.PaymentUnmatched})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/payments?key=s3cret&status=unmatched", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	var body struct {
		Payments []domain.Payment `json:"payments"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Payments, 1)
	assert.Equal(t, "cs_2", body.Payments[0].StripeSessionID)

	resp, err = app.Test(httptest.NewRequest("GET", "/admin/payments?key=s3cret", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Payments, 2)
}
