package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	"github.com/Brutalvik/smartai-shopping-sub000/services"
)

// OnboardingServiceAPI is the wizard state machine the controller drives.
type OnboardingServiceAPI interface {
	Start(ctx context.Context) (*models.OnboardingFlow, error)
	Get(ctx context.Context, flowID string) (*models.OnboardingFlow, error)
	Restart(ctx context.Context, flowID string) (*models.OnboardingFlow, error)
	View(flow *models.OnboardingFlow) models.OnboardingView
	SubmitEmail(ctx context.Context, flowID, email string) (*models.OnboardingFlow, error)
	SubmitPassword(ctx context.Context, flowID, password string) (*models.OnboardingFlow, error)
	SubmitRegistration(ctx context.Context, flowID, name, password string) (*models.OnboardingFlow, error)
	BeginSocial(ctx context.Context, flowID, provider string) (*models.OnboardingFlow, error)
	CompleteSocial(ctx context.Context, flowID, state, code string) (*models.OnboardingFlow, error)
	SelectRole(ctx context.Context, flowID, role string) (*models.OnboardingFlow, error)
	SubmitSellerProfile(ctx context.Context, flowID string, profile models.SellerProfile) (*models.OnboardingFlow, error)
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type socialRequest struct {
	Provider string `json:"provider" binding:"required"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

type OnboardingController struct {
	service OnboardingServiceAPI
	cookies CookieSettings
	ttl     time.Duration
	logger  *zap.Logger
}

func NewOnboardingController(service OnboardingServiceAPI, cookies CookieSettings, ttl time.Duration, logger *zap.Logger) *OnboardingController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnboardingController{service: service, cookies: cookies, ttl: ttl, logger: logger}
}

// Start opens a new flow and hands its id to the browser as a cookie.
func (ctrl *OnboardingController) Start(c *gin.Context) {
	flow, err := ctrl.service.Start(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	ctrl.cookies.SetFlow(c, flow.ID, ctrl.ttl)
	c.JSON(http.StatusCreated, ctrl.service.View(flow))
}

func (ctrl *OnboardingController) Get(c *gin.Context) {
	id, ok := ctrl.flowID(c)
	if !ok {
		return
	}
	flow, err := ctrl.service.Get(c.Request.Context(), id)
	if err != nil {
		ctrl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.service.View(flow))
}

// Restart throws the current flow away. A missing or expired flow simply
// starts a new one.
func (ctrl *OnboardingController) Restart(c *gin.Context) {
	flow, err := ctrl.service.Restart(c.Request.Context(), flowID(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	ctrl.cookies.SetFlow(c, flow.ID, ctrl.ttl)
	c.JSON(http.StatusOK, ctrl.service.View(flow))
}

func (ctrl *OnboardingController) SubmitEmail(c *gin.Context) {
	var req emailRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.step(c, func(ctx context.Context, id string) (*models.OnboardingFlow, error) {
		return ctrl.service.SubmitEmail(ctx, id, req.Email)
	})
}

func (ctrl *OnboardingController) SubmitPassword(c *gin.Context) {
	var req passwordRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.step(c, func(ctx context.Context, id string) (*models.OnboardingFlow, error) {
		return ctrl.service.SubmitPassword(ctx, id, req.Password)
	})
}

func (ctrl *OnboardingController) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.step(c, func(ctx context.Context, id string) (*models.OnboardingFlow, error) {
		return ctrl.service.SubmitRegistration(ctx, id, req.Name, req.Password)
	})
}

func (ctrl *OnboardingController) BeginSocial(c *gin.Context) {
	var req socialRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.step(c, func(ctx context.Context, id string) (*models.OnboardingFlow, error) {
		return ctrl.service.BeginSocial(ctx, id, req.Provider)
	})
}

// SocialCallback finishes a social sign-in with the state and code the
// identity provider redirected back with.
func (ctrl *OnboardingController) SocialCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "social sign-in failed: "+reason, nil))
		return
	}
	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "state and code are required", nil))
		return
	}
	ctrl.step(c, func(ctx context.Context, id string) (*models.OnboardingFlow, error) {
		return ctrl.service.CompleteSocial(ctx, id, state, code)
	})
}

func (ctrl *OnboardingController) SelectRole(c *gin.Context) {
	var req roleRequest
	if !bindJSON(c, &req) {
		return
	}
	ctrl.step(c, func(ctx context.Context, id string) (*models.OnboardingFlow, error) {
		return ctrl.service.SelectRole(ctx, id, req.Role)
	})
}

func (ctrl *OnboardingController) SubmitSellerProfile(c *gin.Context) {
	var req models.SellerProfile
	if !bindJSON(c, &req) {
		return
	}
	ctrl.step(c, func(ctx context.Context, id string) (*models.OnboardingFlow, error) {
		return ctrl.service.SubmitSellerProfile(ctx, id, req)
	})
}

// step runs one transition and renders the resulting screen. Completing the
// flow swaps the flow cookie for the session cookies.
func (ctrl *OnboardingController) step(c *gin.Context, run func(ctx context.Context, flowID string) (*models.OnboardingFlow, error)) {
	id, ok := ctrl.flowID(c)
	if !ok {
		return
	}
	flow, err := run(c.Request.Context(), id)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	if flow.Step == models.StepComplete {
		if flow.Tokens != nil {
			ctrl.cookies.SetSession(c, *flow.Tokens)
		}
		ctrl.cookies.ClearFlow(c)
	} else {
		// each save extends the flow in Redis; keep the cookie alive as long
		ctrl.cookies.SetFlow(c, flow.ID, ctrl.ttl)
	}
	c.JSON(http.StatusOK, ctrl.service.View(flow))
}

func (ctrl *OnboardingController) flowID(c *gin.Context) (string, bool) {
	id := flowID(c)
	if id == "" {
		apperrors.Respond(c, services.ErrFlowNotFound)
		return "", false
	}
	return id, true
}

// fail clears the flow cookie once the flow is gone so the browser starts over.
func (ctrl *OnboardingController) fail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrFlowNotFound) {
		ctrl.cookies.ClearFlow(c)
	}
	if apperrors.StatusCode(err) >= http.StatusInternalServerError {
		ctrl.logger.Error("onboarding step failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	apperrors.Respond(c, err)
}
