package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/logging"
	"github.com/google/uuid"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client for the shop API rooted at endpointURL.
func NewHTTPClient(endpointURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(endpointURL)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint url %q: scheme must be http or https", endpointURL)
	}
	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func (c *HTTPClient) do(ctx context.Context, method string, query url.Values, in, out any, path ...string) error {
	u := c.baseURL.JoinPath(path...)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", u.Path, "request_id", requestID, "error", err)
		return c.mapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return c.mapError(err)
	}
	c.log.Debug(ctx, "request done", "method", method, "path", u.Path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: bytes.TrimSpace(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// mapError turns transport failures into sentinels. Caller cancellation is
// returned unchanged so errors.Is(err, context.Canceled) keeps working.
func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Login posts credentials and decodes the user. Both a bare user object and
// the {"user": {...}, "message": "..."} envelope are accepted.
func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, nil, creds, &raw, "api", "auth", "login"); err != nil {
		return models.User{}, err
	}
	return decodeUser(raw)
}

func decodeUser(raw json.RawMessage) (models.User, error) {
	var envelope struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.User != nil && envelope.User.Valid() {
		return *envelope.User, nil
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil || !u.Valid() {
		return models.User{}, fmt.Errorf("%w: login payload carries no user", ErrMalformedResponse)
	}
	return u, nil
}

// Register posts registration data and returns the opaque success payload.
func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, nil, reg, &raw, "api", "auth", "register"); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *HTTPClient) GetCart(ctx context.Context, userID int64) (models.Cart, error) {
	var cart models.Cart
	q := url.Values{"isUserCart": {"true"}}
	if err := c.do(ctx, http.MethodGet, q, nil, &cart, "api", "cart", id(userID)); err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func (c *HTTPClient) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	q := url.Values{
		"quantity":   {strconv.Itoa(quantity)},
		"isUserCart": {"true"},
	}
	return c.do(ctx, http.MethodPost, q, nil, nil, "api", "cart", id(userID), "add", id(productID))
}

func (c *HTTPClient) RemoveItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, nil, nil, nil, "api", "cart", "item", id(itemID))
}

func (c *HTTPClient) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	q := url.Values{"quantity": {strconv.Itoa(quantity)}}
	return c.do(ctx, http.MethodPut, q, nil, nil, "api", "cart", "item", id(itemID))
}

func (c *HTTPClient) Purchase(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodPost, nil, nil, nil, "api", "cart", id(userID), "purchase")
}

// Close drops idle keep-alive connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
