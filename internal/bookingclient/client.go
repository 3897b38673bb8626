package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cineverse/booking-platform/api"
	"github.com/google/uuid"
)

// APIError is a non-2xx response decoded from the platform's error envelope.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// IsConflict reports whether err is a seat-contention rejection from the
// lock endpoint.
func IsConflict(err error) bool {
	apiErr, ok := err.(*APIError)

	return ok && apiErr.StatusCode == http.StatusConflict
}

// Client wraps the platform's HTTP API. Every method issues exactly one
// request; callers own any retry policy, and the booking flow deliberately
// has none.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore
}

func NewClient(baseURL string, store SessionStore) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		store:      store,
	}
}

// Login authenticates the user and saves the issued token to the session
// store.
func (c *Client) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	req := api.LoginRequest{Username: username, Password: password}

	var resp api.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp)
	if err != nil {
		return nil, err
	}

	session, err := c.store.Load()
	if err != nil {
		return nil, err
	}

	session.Token = resp.Token
	session.UserID = resp.UserID
	session.Username = resp.Username

	err = c.store.Save(session)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// LookupUserID resolves a username to its numeric id.
func (c *Client) LookupUserID(ctx context.Context, username string) (int, error) {
	var resp api.UserLookupResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/user/"+username, nil, &resp)
	if err != nil {
		return 0, err
	}

	return resp.Id, nil
}

func (c *Client) GetShow(ctx context.Context, showID int) (*api.ShowResponse, error) {
	var resp api.ShowResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/shows/%d", showID), nil, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// SeatStatus fetches the non-available seats of a show. Seats missing from
// the result are available.
func (c *Client) SeatStatus(ctx context.Context, showID int) ([]api.SeatStatusRecord, error) {
	var resp api.SeatStatusResponse
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/bookings/seat-status/%d", showID), nil, &resp)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// LockSeats submits one atomic lock request for all selected seats.
func (c *Client) LockSeats(ctx context.Context, req api.LockRequest) (*api.LockResponse, error) {
	var resp api.LockResponse
	err := c.do(ctx, http.MethodPost, "/api/bookings/lock", req, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// CreateCheckoutSession posts the booking details and returns the hosted
// payment page URL the caller must redirect to.
func (c *Client) CreateCheckoutSession(ctx context.Context, req api.CreateCheckoutSessionRequest) (string, error) {
	var resp api.CreateCheckoutSessionResponse
	err := c.do(ctx, http.MethodPost, "/api/payments/create-checkout-session", req, &resp)
	if err != nil {
		return "", err
	}

	return resp.Url, nil
}

// ConfirmSession exchanges a checkout session id for the confirmed ticket.
func (c *Client) ConfirmSession(ctx context.Context, sessionID string) (*api.TicketResponse, error) {
	req := api.ConfirmSessionRequest{SessionID: sessionID}

	var resp api.TicketResponse
	err := c.do(ctx, http.MethodPost, "/api/payments/confirm-session", req, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer

	if body != nil {
		reqBody = new(bytes.Buffer)

		err := json.NewEncoder(reqBody).Encode(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-Id", uuid.NewString())

	session, err := c.store.Load()
	if err != nil {
		return err
	}

	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
		apiErr.RequestID = envelope.RequestId
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
