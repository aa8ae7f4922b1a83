package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"yardsale-board/internal/domain"
)

// API is what the board needs from the listings backend.
type API interface {
	FetchListings(ctx context.Context) ([]domain.Listing, error)
	CreateListing(ctx context.Context, req CreateListingRequest) (string, error)
}

// CreateListingRequest is the create-listing body as the browser sends it.
type CreateListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	TimeStart   string   `json:"timeStart,omitempty"`
	TimeEnd     string   `json:"timeEnd,omitempty"`
	Address     string   `json:"address"`
	Contact     string   `json:"contact,omitempty"`
	PhotoURL    string   `json:"photoUrl,omitempty"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// APIError is a non-2xx response; Message is the server's { error } text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client calls the HTTP API, e.g. BaseURL "https://yardsales.example/api".
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	var out struct {
		Listings []domain.Listing `json:"listings"`
	}
	if err := c.do(ctx, http.MethodGet, "/listings", nil, &out); err != nil {
		return nil, err
	}
	return out.Listings, nil
}

func (c *Client) CreateListing(ctx context.Context, req CreateListingRequest) (string, error) {
	var out struct {
		OK bool   `json:"ok"`
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/create-listing", req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// StartFeatureCheckout returns the checkout URL to redirect the buyer to.
func (c *Client) StartFeatureCheckout(ctx context.Context, listingID string, amountCents int64) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	body := map[string]interface{}{"listingId": listingID, "amountCents": amountCents}
	if err := c.do(ctx, http.MethodPost, "/create-checkout-session", body, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) StartSponsorCheckout(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/create-subscription", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Load fetches a fresh snapshot.
func Load(ctx context.Context, api API) (*Snapshot, error) {
	listings, err := api.FetchListings(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(listings, time.Now()), nil
}

// CreateAndReload submits a listing and, on success, re-fetches. On failure the caller
// keeps its current snapshot.
func CreateAndReload(ctx context.Context, api API, req CreateListingRequest) (string, *Snapshot, error) {
	id, err := api.CreateListing(ctx, req)
	if err != nil {
		return "", nil, err
	}
	snap, err := Load(ctx, api)
	if err != nil {
		return id, nil, err
	}
	return id, snap, nil
}
