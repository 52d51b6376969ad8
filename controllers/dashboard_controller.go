package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/listing"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	"github.com/Brutalvik/smartai-shopping-sub000/services"
)

type DashboardServiceAPI interface {
	Sales(ctx context.Context, caller clients.Caller, req services.SalesRequest) (listing.Table, error)
	Products(ctx context.Context, caller clients.Caller, req services.ProductsRequest) (listing.Table, error)
	Summary(ctx context.Context, caller clients.Caller) (*services.DashboardSummary, error)
	GetView(ctx context.Context, sellerID string, kind models.DashboardKind) (*models.DashboardViewResponse, error)
	SaveView(ctx context.Context, sellerID string, kind models.DashboardKind, req models.DashboardViewRequest) (*models.DashboardViewResponse, error)
	ResetView(ctx context.Context, sellerID string, kind models.DashboardKind) (*models.DashboardViewResponse, error)
}

type DashboardController struct {
	service   DashboardServiceAPI
	validator *RequestValidator
}

func NewDashboardController(service DashboardServiceAPI) *DashboardController {
	return &DashboardController{service: service, validator: NewRequestValidator()}
}

func (ctrl *DashboardController) Sales(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	req, err := ctrl.validator.ParseSalesRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	table, err := ctrl.service.Sales(c.Request.Context(), cl, req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (ctrl *DashboardController) Products(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	req, err := ctrl.validator.ParseProductsRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	table, err := ctrl.service.Products(c.Request.Context(), cl, req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

func (ctrl *DashboardController) Summary(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	summary, err := ctrl.service.Summary(c.Request.Context(), cl)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (ctrl *DashboardController) GetView(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	view, err := ctrl.service.GetView(c.Request.Context(), cl.UserID, models.DashboardKind(c.Param("view")))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ctrl *DashboardController) SaveView(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req models.DashboardViewRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := ctrl.service.SaveView(c.Request.Context(), cl.UserID, models.DashboardKind(c.Param("view")), req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ctrl *DashboardController) ResetView(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	view, err := ctrl.service.ResetView(c.Request.Context(), cl.UserID, models.DashboardKind(c.Param("view")))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
