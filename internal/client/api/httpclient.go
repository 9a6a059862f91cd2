package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/herblock/herblock/internal/client/models"
	"github.com/herblock/herblock/internal/common"
)

const (
	// submitTimeout bounds a single submission round trip.
	submitTimeout = 30 * time.Second

	// pingTimeout keeps the reachability probe cheap.
	pingTimeout = 5 * time.Second
)

// HTTPClient talks JSON over HTTP to the ledger gateway. The session token
// obtained by Login is held in memory and attached to submissions; an
// offline-authenticated session has no token and cannot submit.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

// NewHTTPClient returns a client bound to baseURL (e.g.
// "http://localhost:8000/api").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: submitTimeout},
	}
}

type loginRequest struct {
	CollectorID string `json:"collector_id"`
	Pin         string `json:"pin"`
}

type loginResponse struct {
	Token     string `json:"token"`
	Collector struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Region string `json:"region"`
	} `json:"collector"`
}

type gpsPayload struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type submitRequest struct {
	ID          string     `json:"id"`
	ProductID   string     `json:"product_id"`
	Species     string     `json:"species"`
	GPS         gpsPayload `json:"gps"`
	CollectorID string     `json:"collector_id"`
	Quantity    float64    `json:"quantity"`
	Timestamp   string     `json:"timestamp"`
	Notes       string     `json:"notes,omitempty"`
}

type batchRequest struct {
	Collections []submitRequest `json:"collections"`
}

type batchResponse struct {
	Results []BatchItemResult `json:"results"`
}

func submitPayload(e *models.CollectionEvent) submitRequest {
	return submitRequest{
		ID:          e.ID,
		ProductID:   e.ProductID,
		Species:     e.Species,
		GPS:         gpsPayload{Lat: e.Lat, Lon: e.Lon},
		CollectorID: e.CollectorID,
		Quantity:    e.Quantity,
		Timestamp:   e.Timestamp.UTC().Format(time.RFC3339),
		Notes:       e.Notes,
	}
}

// Login exchanges collector id + PIN for a session. The token is retained
// for subsequent submissions.
func (c *HTTPClient) Login(ctx context.Context, collectorID string, pin []byte) (*Session, error) {
	var resp loginResponse
	status, err := c.postJSON(ctx, "/collector/login", loginRequest{CollectorID: collectorID, Pin: string(pin)}, &resp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: login status %d", ErrUnavailable, status)
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()

	return &Session{
		Token: resp.Token,
		Collector: models.Collector{
			ID:     resp.Collector.ID,
			Name:   resp.Collector.Name,
			Region: resp.Collector.Region,
		},
	}, nil
}

// Submit sends one collection event for validation.
//
// Classification is deliberately asymmetric: only a 2xx response with a
// well-formed body yields a verdict; every non-2xx status, transport error,
// timeout or decode failure maps to ErrUnavailable so the caller leaves the
// event pending. The gateway is idempotent per event id, so resubmitting
// after an ambiguous outcome is safe.
func (c *HTTPClient) Submit(ctx context.Context, event *models.CollectionEvent) (*SubmitResult, error) {
	if err := c.sessionUsable(); err != nil {
		return nil, err
	}

	var result SubmitResult
	status, err := c.postJSON(ctx, "/blockchain/collection", submitPayload(event), &result)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: submit status %d", ErrUnavailable, status)
	}
	return &result, nil
}

// SubmitBatch sends several events in one call, preserving slice order.
// A gateway without the batch endpoint yields ErrBatchUnsupported; a
// response that does not cover every submitted event is ambiguous and maps
// to ErrUnavailable.
func (c *HTTPClient) SubmitBatch(ctx context.Context, events []*models.CollectionEvent) ([]BatchItemResult, error) {
	if err := c.sessionUsable(); err != nil {
		return nil, err
	}

	req := batchRequest{Collections: make([]submitRequest, 0, len(events))}
	for _, e := range events {
		req.Collections = append(req.Collections, submitPayload(e))
	}

	var resp batchResponse
	status, err := c.postJSON(ctx, "/blockchain/batch-collection", req, &resp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
		return nil, ErrBatchUnsupported
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: batch status %d", ErrUnavailable, status)
	}
	if len(resp.Results) != len(events) {
		return nil, fmt.Errorf("%w: batch returned %d results for %d events", ErrUnavailable, len(resp.Results), len(events))
	}
	return resp.Results, nil
}

// Ping performs a cheap liveness probe against the gateway health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases resources held by the client.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// ClearSession drops the in-memory token, e.g. on logout.
func (c *HTTPClient) ClearSession() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// sessionUsable rejects submissions without a token (offline session) or
// with a token whose exp claim has already passed — no point burning a
// 30-second round trip on a request the gateway will refuse.
func (c *HTTPClient) sessionUsable() error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token == "" {
		return fmt.Errorf("%w: no active session", ErrUnauthorized)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque (non-JWT) tokens are the gateway's problem to verify.
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		return fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	return nil
}

// postJSON issues a POST with a JSON body and decodes a JSON response.
// Transport errors and undecodable 2xx bodies map to ErrUnavailable; the
// HTTP status is returned for the caller to classify.
func (c *HTTPClient) postJSON(ctx context.Context, path string, body any, out any) (int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("%w: encode request: %v", common.ErrorInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.token)
	}
	c.mu.Unlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
		}
	}
	return resp.StatusCode, nil
}
