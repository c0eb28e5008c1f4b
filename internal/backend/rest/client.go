// Package rest talks to a hosted PostgREST endpoint (the REST dialect served
// by Supabase) for the users and products tables.
package rest

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

	"github.com/Skotchmaster/inventory_dashboard/internal/backend"
	"github.com/Skotchmaster/inventory_dashboard/internal/models"
)

const (
	usersTable    = "users"
	productsTable = "products"

	mimeJSON         = "application/json"
	mimeSingleObject = "application/vnd.pgrst.object+json"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ backend.Client = (*Client)(nil)

// NewClient builds a client for baseURL (the project URL, without /rest/v1).
// A zero timeout leaves the transport default in place.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.Status)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.Status, e.Message)
}

func (c *Client) FindUserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("username", "eq."+username)
	q.Set("password", "eq."+password)

	var user models.User
	err := c.do(ctx, http.MethodGet, usersTable, q, nil, mimeSingleObject, &user)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "id.asc")

	var products []models.Product
	if err := c.do(ctx, http.MethodGet, productsTable, q, nil, mimeJSON, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	q := url.Values{}
	q.Set("select", "*")

	var prod models.Product
	if err := c.do(ctx, http.MethodPost, productsTable, q, fields, mimeSingleObject, &prod); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &prod, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	q := idFilter(id)
	q.Set("select", "*")

	var prod models.Product
	if err := c.do(ctx, http.MethodPatch, productsTable, q, patch, mimeSingleObject, &prod); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return &prod, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, productsTable, idFilter(id), nil, mimeJSON, nil); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// Ping checks that the products table answers with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")
	if err := c.do(ctx, http.MethodGet, productsTable, q, nil, mimeJSON, nil); err != nil {
		return fmt.Errorf("ping backend: %w", err)
	}
	return nil
}

func idFilter(id int64) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	return q
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any, accept string, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", mimeJSON)
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, accept)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error body into *APIError. PostgREST answers 406 when a
// single-object request matched no row; that case is reported as ErrNotFound.
func decodeError(resp *http.Response, accept string) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(data) > 0 {
		if err := json.Unmarshal(data, apiErr); err != nil {
			apiErr.Message = string(data)
		}
	}

	if resp.StatusCode == http.StatusNotAcceptable && accept == mimeSingleObject {
		return fmt.Errorf("%w: %s", backend.ErrNotFound, apiErr.Error())
	}
	return apiErr
}
