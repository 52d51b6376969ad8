package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

const IdempotencyHeader = "Idempotency-Key"

type CartServiceAPI interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error)
	Clear(ctx context.Context, userID string) error
	Checkout(ctx context.Context, caller clients.Caller, idempotencyKey string) (*models.CheckoutResult, error)
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CartController struct {
	service CartServiceAPI
}

func NewCartController(service CartServiceAPI) *CartController {
	return &CartController{service: service}
}

func (ctrl *CartController) Get(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	cart, err := ctrl.service.Get(c.Request.Context(), cl.UserID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart.View())
}

// AddItem defaults a missing quantity to one.
func (ctrl *CartController) AddItem(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req addItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	cart, err := ctrl.service.AddItem(c.Request.Context(), cl.UserID, req.ProductID, req.Quantity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart.View())
}

func (ctrl *CartController) SetQuantity(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req setQuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	cart, err := ctrl.service.SetQuantity(c.Request.Context(), cl.UserID, c.Param("product_id"), *req.Quantity)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart.View())
}

func (ctrl *CartController) RemoveItem(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	cart, err := ctrl.service.RemoveItem(c.Request.Context(), cl.UserID, c.Param("product_id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart.View())
}

func (ctrl *CartController) Clear(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	if err := ctrl.service.Clear(c.Request.Context(), cl.UserID); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

// Checkout answers 201 for a new order and 200 when an earlier checkout with
// the same Idempotency-Key is replayed.
func (ctrl *CartController) Checkout(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	result, err := ctrl.service.Checkout(c.Request.Context(), cl, c.GetHeader(IdempotencyHeader))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, result)
}
