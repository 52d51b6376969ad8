package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

// CatalogAPI is the slice of the catalog/sales backend the storefront uses.
type CatalogAPI interface {
	ListSellerProducts(ctx context.Context, caller Caller) ([]models.Product, error)
	GetSellerProduct(ctx context.Context, caller Caller, productID string) (*models.Product, error)
	CreateSellerProduct(ctx context.Context, caller Caller, in models.ProductInput) (*models.Product, error)
	UpdateSellerProduct(ctx context.Context, caller Caller, productID string, in models.ProductInput) (*models.Product, error)
	DeleteSellerProduct(ctx context.Context, caller Caller, productID string) error
	ListSellerSales(ctx context.Context, caller Caller) ([]models.Sale, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	CreateOrder(ctx context.Context, caller Caller, order OrderRequest) (*models.CheckoutResult, error)
}

// OrderRequest is the order placed on checkout.
type OrderRequest struct {
	Items          []models.CartItem `json:"items"`
	Total          float64           `json:"total"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
}

const (
	upstreamPageSize = 100
	// Upper bound on pages fetched for one dashboard list.
	maxUpstreamPages = 50
)

type CatalogClient struct {
	gateway *GatewayClient
}

func NewCatalogClient(gateway *GatewayClient) *CatalogClient {
	return &CatalogClient{gateway: gateway}
}

func sellerPath(sellerID string, rest string) string {
	return "/sellers/" + url.PathEscape(sellerID) + rest
}

type pageMeta struct {
	Total int `json:"total"`
}

// fetchAll walks the backend's paginated list until a short page, the
// reported total, or maxUpstreamPages.
func fetchAll[T any](ctx context.Context, g *GatewayClient, path string, headers http.Header, pick func(raw listEnvelope[T]) []T) ([]T, error) {
	var all []T
	for page := 1; page <= maxUpstreamPages; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("perPage", strconv.Itoa(upstreamPageSize))

		var env listEnvelope[T]
		if err := g.DoJSON(ctx, http.MethodGet, path, q, headers, nil, &env); err != nil {
			return nil, err
		}
		batch := pick(env)
		all = append(all, batch...)

		if len(batch) < upstreamPageSize || (env.Meta.Total > 0 && len(all) >= env.Meta.Total) {
			break
		}
	}
	if all == nil {
		all = []T{}
	}
	return all, nil
}

type listEnvelope[T any] struct {
	Products []T      `json:"products"`
	Sales    []T      `json:"sales"`
	Meta     pageMeta `json:"meta"`
}

func (c *CatalogClient) ListSellerProducts(ctx context.Context, caller Caller) ([]models.Product, error) {
	return fetchAll(ctx, c.gateway, sellerPath(caller.UserID, "/products"), caller.Headers(),
		func(env listEnvelope[models.Product]) []models.Product { return env.Products })
}

func (c *CatalogClient) ListSellerSales(ctx context.Context, caller Caller) ([]models.Sale, error) {
	return fetchAll(ctx, c.gateway, sellerPath(caller.UserID, "/sales"), caller.Headers(),
		func(env listEnvelope[models.Sale]) []models.Sale { return env.Sales })
}

func (c *CatalogClient) GetSellerProduct(ctx context.Context, caller Caller, productID string) (*models.Product, error) {
	var out models.Product
	path := sellerPath(caller.UserID, "/products/"+url.PathEscape(productID))
	if err := c.gateway.DoJSON(ctx, http.MethodGet, path, nil, caller.Headers(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) CreateSellerProduct(ctx context.Context, caller Caller, in models.ProductInput) (*models.Product, error) {
	var out models.Product
	if err := c.gateway.DoJSON(ctx, http.MethodPost, sellerPath(caller.UserID, "/products"), nil, caller.Headers(), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) UpdateSellerProduct(ctx context.Context, caller Caller, productID string, in models.ProductInput) (*models.Product, error) {
	var out models.Product
	path := sellerPath(caller.UserID, "/products/"+url.PathEscape(productID))
	if err := c.gateway.DoJSON(ctx, http.MethodPut, path, nil, caller.Headers(), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) DeleteSellerProduct(ctx context.Context, caller Caller, productID string) error {
	path := sellerPath(caller.UserID, "/products/"+url.PathEscape(productID))
	return c.gateway.DoJSON(ctx, http.MethodDelete, path, nil, caller.Headers(), nil, nil)
}

func (c *CatalogClient) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var out models.Product
	if err := c.gateway.DoJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) CreateOrder(ctx context.Context, caller Caller, order OrderRequest) (*models.CheckoutResult, error) {
	headers := caller.Headers()
	if order.IdempotencyKey != "" {
		headers.Set("Idempotency-Key", order.IdempotencyKey)
	}
	var out models.CheckoutResult
	if err := c.gateway.DoJSON(ctx, http.MethodPost, "/orders", nil, headers, order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
