package controllers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/middleware"
)

const homeProductsPerPage = "12"

// Headers passed through to the backend on proxied requests. Cookies and
// the browser's Authorization header are not forwarded as-is.
var forwardedHeaders = []string{"Accept", "Accept-Language", "Content-Type", "X-Request-ID"}

// BFFController serves the storefront pages that are plain reads from the
// backend: home, product pages, categories and the buyer profile.
type BFFController struct {
	gateway *clients.GatewayClient
	logger  *zap.Logger
}

func NewBFFController(gateway *clients.GatewayClient, logger *zap.Logger) *BFFController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BFFController{gateway: gateway, logger: logger}
}

func (b *BFFController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type fetchResult struct {
	data map[string]interface{}
	err  error
}

// fetch runs one backend GET in the background.
func (b *BFFController) fetch(ctx context.Context, path string, query url.Values, headers http.Header) <-chan fetchResult {
	ch := make(chan fetchResult, 1)
	go func() {
		var data map[string]interface{}
		err := b.gateway.DoJSON(ctx, http.MethodGet, path, query, headers, nil, &data)
		ch <- fetchResult{data: data, err: err}
	}()
	return ch
}

// Home loads products and categories concurrently.
func (b *BFFController) Home(c *gin.Context) {
	ctx := c.Request.Context()

	productsQuery := cloneQuery(c.Request.URL.Query())
	if productsQuery.Get("perPage") == "" {
		productsQuery.Set("perPage", homeProductsPerPage)
	}
	headers := b.headers(c)

	productsCh := b.fetch(ctx, "/products", productsQuery, headers)
	categoriesCh := b.fetch(ctx, "/categories", nil, headers)
	products, categories := <-productsCh, <-categoriesCh

	if products.err != nil || categories.err != nil {
		b.logger.Warn("home fan-out failed",
			zap.NamedError("products", products.err),
			zap.NamedError("categories", categories.err),
		)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      "failed to load home data",
			"products":   errorString(products.err),
			"categories": errorString(categories.err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   products.data,
		"categories": categories.data,
		"timestamp":  time.Now().UTC(),
	})
}

// Profile loads the buyer's profile and recent orders concurrently.
func (b *BFFController) Profile(c *gin.Context) {
	if _, ok := caller(c); !ok {
		return
	}
	ctx := c.Request.Context()

	ordersQuery := url.Values{}
	ordersQuery.Set("page", "1")
	ordersQuery.Set("perPage", orDefault(c.Query("ordersPerPage"), "5"))
	headers := b.headers(c)

	profileCh := b.fetch(ctx, "/users/profile", nil, headers)
	ordersCh := b.fetch(ctx, "/orders", ordersQuery, headers)
	profile, orders := <-profileCh, <-ordersCh

	if profile.err != nil {
		apperrors.Respond(c, clients.ToAppError(profile.err))
		return
	}
	if orders.err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "failed to load profile data",
			"profile": errorString(profile.err),
			"orders":  errorString(orders.err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":   profile.data,
		"orders":    orders.data,
		"timestamp": time.Now().UTC(),
	})
}

// Proxy forwards the request to path unchanged. ":name" segments in path are
// filled from the route parameters.
func (b *BFFController) Proxy(method, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, err := clients.ReadJSONBody(c.Request)
		if err != nil {
			apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "invalid request body", err))
			return
		}

		target := expandPath(path, c.Params)
		resp, err := b.gateway.Do(c.Request.Context(), method, target, c.Request.URL.Query(), b.headers(c), clients.BodyFromBytes(bodyBytes))
		if err != nil {
			b.logger.Warn("proxy request failed", zap.String("method", method), zap.String("path", target), zap.Error(err))
			apperrors.Respond(c, clients.ToAppError(&clients.UpstreamError{Method: method, Path: target, Err: err}))
			return
		}

		if err := clients.CopyResponse(c.Writer, resp); err != nil {
			b.logger.Warn("failed to copy upstream response", zap.String("path", target), zap.Error(err))
		}
	}
}

func (b *BFFController) ProductByID(c *gin.Context) {
	b.Proxy(http.MethodGet, "/products/:id")(c)
}

// headers builds the backend headers: a safe subset of the browser's plus
// the caller identity when the route is authenticated.
func (b *BFFController) headers(c *gin.Context) http.Header {
	h := http.Header{}
	for _, k := range forwardedHeaders {
		if v := c.GetHeader(k); v != "" {
			h.Set(k, v)
		}
	}
	if cl, err := middleware.GetCaller(c); err == nil {
		for k, v := range cl.Headers() {
			h[k] = v
		}
	}
	return h
}

func expandPath(path string, params gin.Params) string {
	if !strings.Contains(path, ":") {
		return path
	}
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = url.PathEscape(params.ByName(part[1:]))
		}
	}
	return strings.Join(parts, "/")
}

func cloneQuery(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
