package board

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"yardsale-board/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPIServer serves the listings endpoints from an in-memory slice.
func fakeAPIServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	stored := []domain.Listing{{ID: "seed", Title: "Seed sale", Date: strp("2026-10-20")}}
	var fetches atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/listings", func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"listings": stored})
	})
	mux.HandleFunc("/api/create-listing", func(w http.ResponseWriter, r *http.Request) {
		var req CreateListingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		if req.Title == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Missing required field: title"}`))
			return
		}
		d := req.Date
		stored = append(stored, domain.Listing{ID: "new-id", Title: req.Title, Date: &d})
		_, _ = w.Write([]byte(`{"ok":true,"id":"new-id"}`))
	})
	mux.HandleFunc("/api/create-checkout-session", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ListingID   string `json:"listingId"`
			AmountCents int64  `json:"amountCents"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		if body.ListingID != "seed" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Listing not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"url":"https://checkout.example/feature"}`))
	})
	mux.HandleFunc("/api/create-subscription", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url":"https://checkout.example/sponsor"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &fetches
}

func TestClient_LoadAndCreateAndReload(t *testing.T) {
	srv, fetches := fakeAPIServer(t)
	c := NewClient(srv.URL + "/api/")
	ctx := context.Background()

	snap, err := Load(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())

	// re-filtering uses the snapshot only
	_ = snap.Apply(Filter{Query: "seed"})
	_ = snap.Apply(Filter{Query: "other"})
	assert.Equal(t, int32(1), fetches.Load())

	id, next, err := CreateAndReload(ctx, c, CreateListingRequest{Title: "Moving Sale", Address: "1 Main", Category: "Garage Sale", Date: "2026-10-19"})
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
	require.NotNil(t, next)
	assert.Equal(t, 2, next.Len())
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, int32(2), fetches.Load())
}

func TestClient_CreateErrorKeepsMessage(t *testing.T) {
	srv, fetches := fakeAPIServer(t)
	c := NewClient(srv.URL + "/api")

	_, snap, err := CreateAndReload(context.Background(), c, CreateListingRequest{})
	require.Error(t, err)
	assert.Nil(t, snap)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Missing required field: title", apiErr.Message)
	assert.Equal(t, int32(0), fetches.Load())
}

func TestClient_Checkouts(t *testing.T) {
	srv, _ := fakeAPIServer(t)
	c := NewClient(srv.URL + "/api")
	ctx := context.Background()

	url, err := c.StartFeatureCheckout(ctx, "seed", 700)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/feature", url)

	_, err = c.StartFeatureCheckout(ctx, "missing", 700)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	url, err = c.StartSponsorCheckout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/sponsor", url)
}
