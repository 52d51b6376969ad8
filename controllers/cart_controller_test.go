package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	"github.com/Brutalvik/smartai-shopping-sub000/services"
)

var testBuyer = clients.Caller{UserID: "buyer-1", Role: models.RoleBuyer, AccessToken: "tok"}

func newCartRouter(svc *MockCartService) *gin.Engine {
	ctrl := NewCartController(svc)
	r := gin.New()
	g := r.Group("/bff/cart", as(testBuyer))
	g.GET("", ctrl.Get)
	g.DELETE("", ctrl.Clear)
	g.POST("/items", ctrl.AddItem)
	g.PUT("/items/:product_id", ctrl.SetQuantity)
	g.DELETE("/items/:product_id", ctrl.RemoveItem)
	g.POST("/checkout", ctrl.Checkout)
	return r
}

func lampCart(qty int) *models.Cart {
	return &models.Cart{UserID: "buyer-1", Items: []models.CartItem{{ProductID: "p1", Name: "Lamp", Price: 10, Quantity: qty}}}
}

func TestCartController_Items(t *testing.T) {
	svc := new(MockCartService)
	svc.On("AddItem", mock.Anything, "buyer-1", "p1", 1).Return(lampCart(1), nil)
	svc.On("SetQuantity", mock.Anything, "buyer-1", "p1", 0).Return(&models.Cart{UserID: "buyer-1"}, nil)
	svc.On("RemoveItem", mock.Anything, "buyer-1", "p9").Return(nil, services.ErrItemNotInCart)
	r := newCartRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/bff/cart/items", `{"product_id":"p1"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subtotal":10`)
	assert.Contains(t, w.Body.String(), `"item_count":1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPut, "/bff/cart/items/p1", `{"quantity":0}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPut, "/bff/cart/items/p1", `{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/bff/cart/items/p9", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.AssertExpectations(t)
}

func TestCartController_GetAndClear(t *testing.T) {
	svc := new(MockCartService)
	svc.On("Get", mock.Anything, "buyer-1").Return(lampCart(3), nil)
	svc.On("Clear", mock.Anything, "buyer-1").Return(nil)
	r := newCartRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bff/cart", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subtotal":30`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/bff/cart", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartController_Checkout(t *testing.T) {
	svc := new(MockCartService)
	svc.On("Checkout", mock.Anything, testBuyer, "k1").Return(&models.CheckoutResult{OrderID: "o1", Total: 20, Status: "pending"}, nil).Once()
	svc.On("Checkout", mock.Anything, testBuyer, "k1").Return(&models.CheckoutResult{OrderID: "o1", Status: "accepted", Replayed: true}, nil).Once()
	svc.On("Checkout", mock.Anything, testBuyer, "").Return(nil, services.ErrCartEmpty)
	r := newCartRouter(svc)

	checkout := func(key string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bff/cart/checkout", nil)
		if key != "" {
			req.Header.Set(IdempotencyHeader, key)
		}
		r.ServeHTTP(w, req)
		return w
	}

	w := checkout("k1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"order_id":"o1"`)

	w = checkout("k1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"replayed":true`)

	w = checkout("")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"cart is empty"}`, w.Body.String())
}
