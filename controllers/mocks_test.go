package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	"github.com/Brutalvik/smartai-shopping-sub000/listing"
	"github.com/Brutalvik/smartai-shopping-sub000/middleware"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	"github.com/Brutalvik/smartai-shopping-sub000/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSeller = clients.Caller{UserID: "seller-1", Email: "s@example.com", Role: models.RoleSeller, AccessToken: "tok"}

// as stands in for the auth middleware.
func as(cl clients.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, cl.UserID)
		c.Set(middleware.EmailContextKey, cl.Email)
		c.Set(middleware.RoleContextKey, cl.Role)
		c.Set(middleware.TokenContextKey, cl.AccessToken)
		c.Next()
	}
}

type MockOnboardingService struct {
	mock.Mock
}

func (m *MockOnboardingService) flow(args mock.Arguments) (*models.OnboardingFlow, error) {
	f, _ := args.Get(0).(*models.OnboardingFlow)
	return f, args.Error(1)
}

func (m *MockOnboardingService) Start(ctx context.Context) (*models.OnboardingFlow, error) {
	return m.flow(m.Called(ctx))
}

func (m *MockOnboardingService) Get(ctx context.Context, flowID string) (*models.OnboardingFlow, error) {
	return m.flow(m.Called(ctx, flowID))
}

func (m *MockOnboardingService) Restart(ctx context.Context, flowID string) (*models.OnboardingFlow, error) {
	return m.flow(m.Called(ctx, flowID))
}

func (m *MockOnboardingService) View(flow *models.OnboardingFlow) models.OnboardingView {
	return flow.View()
}

func (m *MockOnboardingService) SubmitEmail(ctx context.Context, flowID, email string) (*models.OnboardingFlow, error) {
	return m.flow(m.Called(ctx, flowID, email))
}

func (m *MockOnboardingService) SubmitPassword(ctx context.Context, flowID, password string) (*models.OnboardingFlow, error) {
	return m.flow(m.Called(ctx, flowID, password))
}

func (m *MockOnboardingService) SubmitRegistration(ctx context.Context, flowID, name, password string) (*models.OnboardingFlow, error) {
	return m.flow(m.Called(ctx, flowID, name, password))
}

func (m *MockOnboardingService) BeginSocial(ctx context.Context, flowID, provider string) (*models.OnboardingFlow, error) {
	return m.flow(m.Called(ctx, flowID, provider))
}

func (m *MockOnboardingService) CompleteSocial(ctx context.Context, flowID, state, code string) (*models.OnboardingFlow, error) {
	return m.flow(m.Called(ctx, flowID, state, code))
}

func (m *MockOnboardingService) SelectRole(ctx context.Context, flowID, role string) (*models.OnboardingFlow, error) {
	return m.flow(m.Called(ctx, flowID, role))
}

func (m *MockOnboardingService) SubmitSellerProfile(ctx context.Context, flowID string, profile models.SellerProfile) (*models.OnboardingFlow, error) {
	return m.flow(m.Called(ctx, flowID, profile))
}

type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) CheckEmail(ctx context.Context, email string) (*models.EmailLookup, error) {
	args := m.Called(ctx, email)
	v, _ := args.Get(0).(*models.EmailLookup)
	return v, args.Error(1)
}

func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	args := m.Called(ctx, email, password)
	v, _ := args.Get(0).(*models.AuthResult)
	return v, args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	args := m.Called(ctx, name, email, password)
	v, _ := args.Get(0).(*models.AuthResult)
	return v, args.Error(1)
}

func (m *MockAuthAPI) SocialExchange(ctx context.Context, provider, code, redirectURI string) (*models.AuthResult, error) {
	args := m.Called(ctx, provider, code, redirectURI)
	v, _ := args.Get(0).(*models.AuthResult)
	return v, args.Error(1)
}

func (m *MockAuthAPI) SetRole(ctx context.Context, accessToken, role string) (*models.User, error) {
	args := m.Called(ctx, accessToken, role)
	v, _ := args.Get(0).(*models.User)
	return v, args.Error(1)
}

func (m *MockAuthAPI) CreateSellerProfile(ctx context.Context, accessToken string, profile models.SellerProfile) error {
	return m.Called(ctx, accessToken, profile).Error(0)
}

func (m *MockAuthAPI) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	v, _ := args.Get(0).(*models.TokenPair)
	return v, args.Error(1)
}

func (m *MockAuthAPI) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthAPI) Me(ctx context.Context, accessToken string) (*models.User, error) {
	args := m.Called(ctx, accessToken)
	v, _ := args.Get(0).(*models.User)
	return v, args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Sales(ctx context.Context, caller clients.Caller, req services.SalesRequest) (listing.Table, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(listing.Table), args.Error(1)
}

func (m *MockDashboardService) Products(ctx context.Context, caller clients.Caller, req services.ProductsRequest) (listing.Table, error) {
	args := m.Called(ctx, caller, req)
	return args.Get(0).(listing.Table), args.Error(1)
}

func (m *MockDashboardService) Summary(ctx context.Context, caller clients.Caller) (*services.DashboardSummary, error) {
	args := m.Called(ctx, caller)
	v, _ := args.Get(0).(*services.DashboardSummary)
	return v, args.Error(1)
}

func (m *MockDashboardService) GetView(ctx context.Context, sellerID string, kind models.DashboardKind) (*models.DashboardViewResponse, error) {
	args := m.Called(ctx, sellerID, kind)
	v, _ := args.Get(0).(*models.DashboardViewResponse)
	return v, args.Error(1)
}

func (m *MockDashboardService) SaveView(ctx context.Context, sellerID string, kind models.DashboardKind, req models.DashboardViewRequest) (*models.DashboardViewResponse, error) {
	args := m.Called(ctx, sellerID, kind, req)
	v, _ := args.Get(0).(*models.DashboardViewResponse)
	return v, args.Error(1)
}

func (m *MockDashboardService) ResetView(ctx context.Context, sellerID string, kind models.DashboardKind) (*models.DashboardViewResponse, error) {
	args := m.Called(ctx, sellerID, kind)
	v, _ := args.Get(0).(*models.DashboardViewResponse)
	return v, args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Get(ctx context.Context, caller clients.Caller, productID string) (*models.Product, error) {
	args := m.Called(ctx, caller, productID)
	v, _ := args.Get(0).(*models.Product)
	return v, args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, caller clients.Caller, in models.ProductInput) (*models.Product, error) {
	args := m.Called(ctx, caller, in)
	v, _ := args.Get(0).(*models.Product)
	return v, args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, caller clients.Caller, productID string, in models.ProductInput) (*models.Product, error) {
	args := m.Called(ctx, caller, productID, in)
	v, _ := args.Get(0).(*models.Product)
	return v, args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, caller clients.Caller, productID string) error {
	return m.Called(ctx, caller, productID).Error(0)
}

func (m *MockProductService) UploadURL(ctx context.Context, caller clients.Caller, filename, contentType string, expires time.Duration) (*services.UploadURL, error) {
	args := m.Called(ctx, caller, filename, contentType, expires)
	v, _ := args.Get(0).(*services.UploadURL)
	return v, args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*models.Cart, error) {
	v, _ := args.Get(0).(*models.Cart)
	return v, args.Error(1)
}

func (m *MockCartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID))
}

func (m *MockCartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID, productID, quantity))
}

func (m *MockCartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID, productID, quantity))
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	return m.cart(m.Called(ctx, userID, productID))
}

func (m *MockCartService) Clear(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockCartService) Checkout(ctx context.Context, caller clients.Caller, idempotencyKey string) (*models.CheckoutResult, error) {
	args := m.Called(ctx, caller, idempotencyKey)
	v, _ := args.Get(0).(*models.CheckoutResult)
	return v, args.Error(1)
}
