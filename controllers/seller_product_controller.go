package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	"github.com/Brutalvik/smartai-shopping-sub000/services"
)

type ProductServiceAPI interface {
	Get(ctx context.Context, caller clients.Caller, productID string) (*models.Product, error)
	Create(ctx context.Context, caller clients.Caller, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, caller clients.Caller, productID string, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, caller clients.Caller, productID string) error
	UploadURL(ctx context.Context, caller clients.Caller, filename, contentType string, expires time.Duration) (*services.UploadURL, error)
}

// SellerProductController serves the seller's product pages. The list is the
// products dashboard table.
type SellerProductController struct {
	products  ProductServiceAPI
	dashboard DashboardServiceAPI
	validator *RequestValidator
}

func NewSellerProductController(products ProductServiceAPI, dashboard DashboardServiceAPI) *SellerProductController {
	return &SellerProductController{products: products, dashboard: dashboard, validator: NewRequestValidator()}
}

func (ctrl *SellerProductController) List(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	req, err := ctrl.validator.ParseProductsRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	table, err := ctrl.dashboard.Products(c.Request.Context(), cl, req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (ctrl *SellerProductController) Get(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	product, err := ctrl.products.Get(c.Request.Context(), cl, c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *SellerProductController) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var in models.ProductInput
	if !bindJSON(c, &in) {
		return
	}
	product, err := ctrl.products.Create(c.Request.Context(), cl, in)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (ctrl *SellerProductController) Update(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var in models.ProductInput
	if !bindJSON(c, &in) {
		return
	}
	product, err := ctrl.products.Update(c.Request.Context(), cl, c.Param("id"), in)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (ctrl *SellerProductController) Delete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	if err := ctrl.products.Delete(c.Request.Context(), cl, c.Param("id")); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// UploadURL presigns an image upload. expires is in seconds and capped at
// the maximum upload expiry.
func (ctrl *SellerProductController) UploadURL(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	contentType := c.Query("content_type")
	if contentType == "" {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "content_type is required", nil))
		return
	}

	var expires time.Duration
	if raw := c.Query("expires"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 0 {
			badRequest(c, fmt.Errorf("invalid number for 'expires'"))
			return
		}
		// clamp before converting so huge values cannot overflow Duration
		if maxSecs := int(services.MaxUploadExpiry / time.Second); secs > maxSecs {
			secs = maxSecs
		}
		expires = time.Duration(secs) * time.Second
	}

	up, err := ctrl.products.UploadURL(c.Request.Context(), cl, c.Query("filename"), contentType, expires)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"upload_url": up.URL,
		"method":     http.MethodPut,
		"key":        up.Key,
		"headers":    up.Headers,
		"expires_at": up.ExpiresAt,
		"expires_in": int(time.Until(up.ExpiresAt).Round(time.Second).Seconds()),
	})
}
