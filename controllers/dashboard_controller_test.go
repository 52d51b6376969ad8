package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Brutalvik/smartai-shopping-sub000/listing"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	"github.com/Brutalvik/smartai-shopping-sub000/services"
)

func newDashboardRouter(svc *MockDashboardService) *gin.Engine {
	ctrl := NewDashboardController(svc)
	r := gin.New()
	g := r.Group("/bff/seller/dashboard", as(testSeller))
	g.GET("/sales", ctrl.Sales)
	g.GET("/products", ctrl.Products)
	g.GET("/summary", ctrl.Summary)
	g.GET("/views/:view", ctrl.GetView)
	g.PUT("/views/:view", ctrl.SaveView)
	g.DELETE("/views/:view", ctrl.ResetView)
	return r
}

func TestDashboardSales(t *testing.T) {
	svc := new(MockDashboardService)
	table := listing.Table{
		Columns: []listing.Column{{Key: "id", Label: "Order"}},
		Rows:    []listing.Row{{"id": "s1"}},
		Meta:    listing.Meta{Page: 1, PerPage: 10, Total: 1, TotalPages: 1},
	}
	svc.On("Sales", mock.Anything, testSeller, mock.MatchedBy(func(req services.SalesRequest) bool {
		return req.Sort == "-date" && req.PerPage == 10 && len(req.Filter.Statuses) == 1
	})).Return(table, nil)

	w := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bff/seller/dashboard/sales?status=paid&sort=-date&perPage=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rows":[{"id":"s1"}]`)
	assert.Contains(t, w.Body.String(), `"totalPages":1`)
	svc.AssertExpectations(t)
}

func TestDashboardSales_BadQuery(t *testing.T) {
	svc := new(MockDashboardService)

	w := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bff/seller/dashboard/sales?minAmount=abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "minAmount")
	svc.AssertNotCalled(t, "Sales", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardProducts_ServiceError(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Products", mock.Anything, testSeller, mock.Anything).Return(listing.Table{}, services.ErrUnknownView)

	w := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bff/seller/dashboard/products", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardSummary(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Summary", mock.Anything, testSeller).Return(&services.DashboardSummary{
		Products: listing.ProductSummary{Total: 3},
	}, nil)

	w := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bff/seller/dashboard/summary", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"products":`)
}

func TestDashboardViews(t *testing.T) {
	svc := new(MockDashboardService)
	saved := &models.DashboardViewResponse{View: models.DashboardSales, Columns: []string{"id"}, Sort: "-amount", PerPage: 50}
	svc.On("SaveView", mock.Anything, "seller-1", models.DashboardSales, models.DashboardViewRequest{Columns: []string{"id"}, Sort: "-amount", PerPage: 50}).
		Return(saved, nil)
	svc.On("GetView", mock.Anything, "seller-1", models.DashboardKind("orders")).Return(nil, services.ErrUnknownView)
	svc.On("ResetView", mock.Anything, "seller-1", models.DashboardSales).Return(nil, services.ErrViewsNotAvailable)
	r := newDashboardRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/bff/seller/dashboard/views/sales", strings.NewReader(`{"columns":["id"],"sort":"-amount","per_page":50}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"view":"sales","columns":["id"],"sort":"-amount","per_page":50}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/bff/seller/dashboard/views/sales", strings.NewReader(`{"per_page":500}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bff/seller/dashboard/views/orders", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/bff/seller/dashboard/views/sales", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDashboard_RequiresCaller(t *testing.T) {
	ctrl := NewDashboardController(new(MockDashboardService))
	r := gin.New()
	r.GET("/sales", ctrl.Sales)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sales", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
