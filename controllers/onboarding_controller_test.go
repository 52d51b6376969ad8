package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/middleware"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	"github.com/Brutalvik/smartai-shopping-sub000/services"
)

func newOnboardingRouter(svc *MockOnboardingService) *gin.Engine {
	ctrl := NewOnboardingController(svc, CookieSettings{}, 30*time.Minute, nil)
	r := gin.New()
	g := r.Group("/bff/onboarding")
	g.POST("/start", ctrl.Start)
	g.GET("", ctrl.Get)
	g.POST("/restart", ctrl.Restart)
	g.POST("/email", ctrl.SubmitEmail)
	g.POST("/password", ctrl.SubmitPassword)
	g.POST("/register", ctrl.Register)
	g.POST("/social", ctrl.BeginSocial)
	g.GET("/social/callback", ctrl.SocialCallback)
	g.POST("/role", ctrl.SelectRole)
	g.POST("/seller-profile", ctrl.SubmitSellerProfile)
	return r
}

func flowRequest(method, path, body, flowID string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if flowID != "" {
		req.AddCookie(&http.Cookie{Name: FlowCookie, Value: flowID})
	}
	return req
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestOnboarding_StartSetsFlowCookie(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("Start", mock.Anything).Return(&models.OnboardingFlow{ID: "flow-1", Step: models.StepEmail}, nil)

	w := httptest.NewRecorder()
	newOnboardingRouter(svc).ServeHTTP(w, flowRequest(http.MethodPost, "/bff/onboarding/start", "", ""))

	assert.Equal(t, http.StatusCreated, w.Code)
	cookie := cookieNamed(w, FlowCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, "flow-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1800, cookie.MaxAge)

	var view models.OnboardingView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, models.StepEmail, view.Step)
}

func TestOnboarding_MissingFlow(t *testing.T) {
	svc := new(MockOnboardingService)

	w := httptest.NewRecorder()
	newOnboardingRouter(svc).ServeHTTP(w, flowRequest(http.MethodPost, "/bff/onboarding/email", `{"email":"a@b.co"}`, ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"flow not found"}`, w.Body.String())
	svc.AssertNotCalled(t, "SubmitEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestOnboarding_FlowIDFromHeader(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("SubmitEmail", mock.Anything, "flow-9", "a@b.co").
		Return(&models.OnboardingFlow{ID: "flow-9", Step: models.StepRegister, Email: "a@b.co"}, nil)

	req := flowRequest(http.MethodPost, "/bff/onboarding/email", `{"email":"a@b.co"}`, "")
	req.Header.Set(FlowHeader, "flow-9")
	w := httptest.NewRecorder()
	newOnboardingRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"register"`)
	svc.AssertExpectations(t)
}

func TestOnboarding_StepRefreshesFlowCookie(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("SubmitEmail", mock.Anything, "flow-1", "a@b.co").
		Return(&models.OnboardingFlow{ID: "flow-1", Step: models.StepPassword, Email: "a@b.co"}, nil)

	w := httptest.NewRecorder()
	newOnboardingRouter(svc).ServeHTTP(w, flowRequest(http.MethodPost, "/bff/onboarding/email", `{"email":"a@b.co"}`, "flow-1"))

	assert.Equal(t, http.StatusOK, w.Code)
	cookie := cookieNamed(w, FlowCookie)
	require.NotNil(t, cookie, "cookie lifetime follows the flow's sliding TTL")
	assert.Equal(t, "flow-1", cookie.Value)
	assert.Equal(t, 1800, cookie.MaxAge)
}

func TestOnboarding_ExpiredFlowClearsCookie(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("Get", mock.Anything, "old").Return(nil, services.ErrFlowNotFound)

	w := httptest.NewRecorder()
	newOnboardingRouter(svc).ServeHTTP(w, flowRequest(http.MethodGet, "/bff/onboarding", "", "old"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	cookie := cookieNamed(w, FlowCookie)
	require.NotNil(t, cookie)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestOnboarding_InvalidTransition(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("SubmitPassword", mock.Anything, "flow-1", "Secret#123").
		Return(nil, apperrors.Wrap(services.ErrInvalidTransition, assert.AnError))

	w := httptest.NewRecorder()
	newOnboardingRouter(svc).ServeHTTP(w, flowRequest(http.MethodPost, "/bff/onboarding/password", `{"password":"Secret#123"}`, "flow-1"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotContains(t, w.Body.String(), "Secret#123")
}

func TestOnboarding_CompleteSetsSession(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("SelectRole", mock.Anything, "flow-1", "buyer").Return(&models.OnboardingFlow{
		ID:     "flow-1",
		Step:   models.StepComplete,
		Role:   "buyer",
		User:   &models.User{ID: "u1", Email: "a@b.co", Role: "buyer"},
		Tokens: &models.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
	}, nil)

	w := httptest.NewRecorder()
	newOnboardingRouter(svc).ServeHTTP(w, flowRequest(http.MethodPost, "/bff/onboarding/role", `{"role":"buyer"}`, "flow-1"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acc", cookieNamed(w, middleware.AccessTokenCookie).Value)
	assert.Equal(t, "ref", cookieNamed(w, middleware.RefreshTokenCookie).Value)
	assert.Equal(t, -1, cookieNamed(w, FlowCookie).MaxAge)

	body := w.Body.String()
	assert.Contains(t, body, `"step":"complete"`)
	assert.Contains(t, body, `"id":"u1"`)
	assert.NotContains(t, body, "acc", "tokens only travel in cookies")
}

func TestOnboarding_SellerProfileBinding(t *testing.T) {
	svc := new(MockOnboardingService)

	w := httptest.NewRecorder()
	newOnboardingRouter(svc).ServeHTTP(w, flowRequest(http.MethodPost, "/bff/onboarding/seller-profile", `{"store_name":"x"}`, "flow-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.On("SubmitSellerProfile", mock.Anything, "flow-1", models.SellerProfile{StoreName: "Lamp Shop", Country: "CA"}).
		Return(&models.OnboardingFlow{ID: "flow-1", Step: models.StepComplete}, nil)
	w = httptest.NewRecorder()
	newOnboardingRouter(svc).ServeHTTP(w, flowRequest(http.MethodPost, "/bff/onboarding/seller-profile", `{"store_name":"Lamp Shop","country":"CA"}`, "flow-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, cookieNamed(w, middleware.AccessTokenCookie))
}

func TestOnboarding_SocialCallback(t *testing.T) {
	svc := new(MockOnboardingService)
	r := newOnboardingRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, flowRequest(http.MethodGet, "/bff/onboarding/social/callback?state=s1", "", "flow-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, flowRequest(http.MethodGet, "/bff/onboarding/social/callback?error=access_denied", "", "flow-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "access_denied")

	svc.On("CompleteSocial", mock.Anything, "flow-1", "s1", "c1").
		Return(&models.OnboardingFlow{ID: "flow-1", Step: models.StepRole, Provider: "google"}, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, flowRequest(http.MethodGet, "/bff/onboarding/social/callback?state=s1&code=c1", "", "flow-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"role"`)
}

func TestOnboarding_RestartWithoutFlow(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("Restart", mock.Anything, "").Return(&models.OnboardingFlow{ID: "flow-2", Step: models.StepEmail}, nil)

	w := httptest.NewRecorder()
	newOnboardingRouter(svc).ServeHTTP(w, flowRequest(http.MethodPost, "/bff/onboarding/restart", "", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "flow-2", cookieNamed(w, FlowCookie).Value)
}
