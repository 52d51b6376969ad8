package controllers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
	"github.com/Brutalvik/smartai-shopping-sub000/services"
)

const dateLayout = "2006-01-02"

// RequestValidator parses dashboard query strings. Malformed values are
// reported with the offending parameter name; semantic checks such as
// min <= max are left to the listing engine.
type RequestValidator struct{}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

func (rv *RequestValidator) ParseSalesRequest(c *gin.Context) (services.SalesRequest, error) {
	var req services.SalesRequest
	var err error

	req.Filter.Search = strings.TrimSpace(c.Query("search"))
	for _, s := range splitQuery(c.Query("status")) {
		status := models.SaleStatus(strings.ToLower(s))
		if !models.ValidSaleStatus(status) {
			return req, fmt.Errorf("invalid value for 'status': %q", s)
		}
		req.Filter.Statuses = append(req.Filter.Statuses, status)
	}
	if req.Filter.From, err = parseTime(c, "from", false); err != nil {
		return req, err
	}
	if req.Filter.To, err = parseTime(c, "to", true); err != nil {
		return req, err
	}
	if req.Filter.MinAmount, err = parseFloat(c, "minAmount"); err != nil {
		return req, err
	}
	if req.Filter.MaxAmount, err = parseFloat(c, "maxAmount"); err != nil {
		return req, err
	}

	req.Sort = c.Query("sort")
	req.Columns = splitQuery(c.Query("columns"))
	req.Page, req.PerPage, err = rv.ParsePagination(c)
	return req, err
}

func (rv *RequestValidator) ParseProductsRequest(c *gin.Context) (services.ProductsRequest, error) {
	var req services.ProductsRequest
	var err error

	req.Filter.Search = strings.TrimSpace(c.Query("search"))
	req.Filter.Categories = splitQuery(c.Query("category"))
	for _, s := range splitQuery(c.Query("status")) {
		status := models.ProductStatus(strings.ToLower(s))
		if status != models.ProductActive && status != models.ProductDraft {
			return req, fmt.Errorf("invalid value for 'status': %q", s)
		}
		req.Filter.Statuses = append(req.Filter.Statuses, status)
	}
	if req.Filter.MinPrice, err = parseFloat(c, "minPrice"); err != nil {
		return req, err
	}
	if req.Filter.MaxPrice, err = parseFloat(c, "maxPrice"); err != nil {
		return req, err
	}
	if raw := strings.TrimSpace(c.Query("in_stock")); raw != "" {
		v, perr := strconv.ParseBool(raw)
		if perr != nil {
			return req, fmt.Errorf("invalid boolean value for 'in_stock'")
		}
		req.Filter.InStock = &v
	}

	req.Sort = c.Query("sort")
	req.Columns = splitQuery(c.Query("columns"))
	req.Page, req.PerPage, err = rv.ParsePagination(c)
	return req, err
}

// ParsePagination reads page and perPage. Missing values are zero so the
// saved view or the defaults apply; out-of-range values are clamped later.
func (rv *RequestValidator) ParsePagination(c *gin.Context) (int, int, error) {
	page, err := parseInt(c, "page")
	if err != nil {
		return 0, 0, err
	}
	perPage, err := parseInt(c, "perPage")
	if err != nil {
		return 0, 0, err
	}
	return page, perPage, nil
}

func parseInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number for '%s'", key)
	}
	return v, nil
}

func parseFloat(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid number for '%s'", key)
	}
	return &v, nil
}

// parseTime accepts RFC 3339 or a plain date. A plain date used as an upper
// bound covers the whole day.
func parseTime(c *gin.Context, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date for '%s', expected YYYY-MM-DD or RFC 3339", key)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func splitQuery(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
