// Package catalog implements the outbound client for the upstream
// catalog REST API: product listing, tags, favorites and order
// history.
package catalog

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
	"strings"
	"time"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
	"github.com/kiogloss/storefront/pkg/retry"
)

var (
	_ port.CatalogProvider   = (*Client)(nil)
	_ port.FavoritesProvider = (*Client)(nil)
	_ port.OrdersProvider    = (*Client)(nil)
)

var ErrUnexpectedStatus = errors.New("unexpected upstream status")

type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("%s %d", ErrUnexpectedStatus, e.code)
}

func (e statusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
	retryDelay         = 200 * time.Millisecond
)

type Opt func(*Client)

func TimeoutOpt(d time.Duration) Opt {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func MaxAttemptsOpt(n int) Opt {
	return func(c *Client) {
		c.retry.MaxAttempts = n
	}
}

// Client talks to the upstream catalog over HTTP. Transient transport
// errors and 5xx responses are retried; 4xx responses are not.
type Client struct {
	http    *http.Client
	baseURL string
	retry   retry.RetryConfig
}

func New(baseURL string, opts ...Opt) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		retry: retry.RetryConfig{
			MaxAttempts: defaultMaxAttempts,
			Backoff:     retry.LinearBackoff(retryDelay),
			ShouldRetry: retryable,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListProducts(
	ctx context.Context, q domain.ListingQuery, bearer string,
) (domain.ProductPage, error) {
	const op = "catalog.Client.ListProducts"

	raw, err := c.get(ctx, "/products", q.Values(), bearer)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}

	page, err := decodeProductPage(raw)
	if err != nil {
		return domain.ProductPage{}, fmt.Errorf("%s: %w", op, err)
	}
	return page, nil
}

func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	const op = "catalog.Client.ListTags"

	raw, err := c.get(ctx, "/tags", nil, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tags, err := decodeTags(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tags, nil
}

func (c *Client) AddFavorite(
	ctx context.Context, productID, accountID int64, bearer string,
) error {
	const op = "catalog.Client.AddFavorite"

	body := favoritePayload{Product: productID, Account: accountID}
	if _, err := c.send(ctx, http.MethodPost, "/favorites", body, bearer); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) ListFavorites(
	ctx context.Context, accountID int64, bearer string,
) ([]domain.WishlistEntry, error) {
	const op = "catalog.Client.ListFavorites"

	path := "/accounts/" + strconv.FormatInt(accountID, 10) + "/favorites"
	raw, err := c.get(ctx, path, nil, bearer)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var resp favoritesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.toDomain(), nil
}

func (c *Client) RemoveFavorite(
	ctx context.Context, favoriteID int64, bearer string,
) error {
	const op = "catalog.Client.RemoveFavorite"

	path := "/favorites/" + strconv.FormatInt(favoriteID, 10)
	if _, err := c.send(ctx, http.MethodDelete, path, nil, bearer); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) ListOrders(
	ctx context.Context, q domain.OrdersQuery, bearer string,
) (domain.OrderPage, error) {
	const op = "catalog.Client.ListOrders"

	raw, err := c.get(ctx, "/user/orders", q.Values(), bearer)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("%s: %w", op, err)
	}

	var resp ordersResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.OrderPage{}, fmt.Errorf("%s: %w", op, err)
	}
	return resp.toDomain(), nil
}

func (c *Client) get(
	ctx context.Context, path string, query url.Values, bearer string,
) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, u, nil, bearer)
}

func (c *Client) send(
	ctx context.Context, method, path string, body any, bearer string,
) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}
	return c.do(ctx, method, c.baseURL+path, payload, bearer)
}

func (c *Client) do(
	ctx context.Context, method, u string, body []byte, bearer string,
) ([]byte, error) {
	return retry.DoWithResult(ctx, c.retry, func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, statusError{resp.StatusCode}
		}
		return data, nil
	})
}

// retryable keeps transport errors and 5xx responses in the retry
// loop; anything the upstream answered deliberately is final.
func retryable(err error) bool {
	var se statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	return true
}
