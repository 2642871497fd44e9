// Package catalog is the client of the remote product API and of its cart
// service.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/irsalhamdi/shop-state/core/cart"
	"github.com/irsalhamdi/shop-state/core/product"
	"github.com/sirupsen/logrus"
)

type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	log     logrus.FieldLogger
}

func New(baseURL string, timeout time.Duration, cache Cache, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cache:   cache,
		log:     log,
	}
}

// List fetches the default product listing.
func (c *Client) List(ctx context.Context) ([]product.Product, error) {
	return c.page(ctx, "/products")
}

// Search fetches the products matching q. A blank query lists everything.
func (c *Client) Search(ctx context.Context, q string) ([]product.Product, error) {
	if strings.TrimSpace(q) == "" {
		return c.List(ctx)
	}
	return c.page(ctx, "/products/search?q="+url.QueryEscape(q))
}

// Fetch fetches a single product. A product the catalog does not know
// yields product.ErrNotFound.
func (c *Client) Fetch(ctx context.Context, id product.ID) (product.Product, error) {
	var p product.Product
	path := "/products/" + strconv.Itoa(int(id))
	if err := c.cached(ctx, path, &p); err != nil {
		return product.Product{}, fmt.Errorf("fetching product[%d]: %w", id, err)
	}
	return p, nil
}

// AddToCart posts lines to the remote cart of userID and returns the cart
// the service answers with, normalized.
func (c *Client) AddToCart(ctx context.Context, userID int, lines []cart.ItemNew) (cart.Cart, error) {
	body := struct {
		UserID   int            `json:"userId"`
		Products []cart.ItemNew `json:"products"`
	}{userID, lines}

	b, err := json.Marshal(body)
	if err != nil {
		return cart.Cart{}, fmt.Errorf("encoding cart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/carts/add", bytes.NewReader(b))
	if err != nil {
		return cart.Cart{}, fmt.Errorf("building cart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return cart.Cart{}, fmt.Errorf("adding to remote cart of user[%d]: %w", userID, err)
	}

	var rc cart.Remote
	if err := json.Unmarshal(raw, &rc); err != nil {
		return cart.Cart{}, fmt.Errorf("%w: %v", cart.ErrMalformedPayload, err)
	}

	return rc.Normalize()
}

func (c *Client) page(ctx context.Context, path string) ([]product.Product, error) {
	var pg product.Page
	if err := c.cached(ctx, path, &pg); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	if pg.Products == nil {
		pg.Products = []product.Product{}
	}
	return pg.Products, nil
}

// cached decodes the body found under path, from the cache when possible.
func (c *Client) cached(ctx context.Context, path string, val interface{}) error {
	if raw, ok := c.cache.Get(ctx, path); ok {
		if err := json.Unmarshal(raw, val); err == nil {
			return nil
		}
		c.log.WithField("key", path).Warn("discarding undecodable cache entry")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	raw, err := c.do(req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, val); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	c.cache.Set(ctx, path, raw)
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":     req.Method,
		"url":        req.URL.String(),
		"statuscode": resp.StatusCode,
		"since":      time.Since(start).Nanoseconds(),
	}).Debug("catalog request")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, product.ErrNotFound
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return raw, nil
}
