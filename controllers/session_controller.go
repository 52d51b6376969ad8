package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	"github.com/Brutalvik/smartai-shopping-sub000/common/auth"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/middleware"
	"github.com/Brutalvik/smartai-shopping-sub000/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionController handles direct login, logout, token refresh and the
// "am I signed in" check. Tokens live in HTTP-only cookies.
type SessionController struct {
	auth      clients.AuthAPI
	validator *auth.TokenValidator
	cookies   CookieSettings
	logger    *zap.Logger
}

func NewSessionController(authAPI clients.AuthAPI, validator *auth.TokenValidator, cookies CookieSettings, logger *zap.Logger) *SessionController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionController{auth: authAPI, validator: validator, cookies: cookies, logger: logger}
}

func (ctrl *SessionController) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	email, err := services.NormalizeEmail(req.Email)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	result, err := ctrl.auth.Login(c.Request.Context(), email, req.Password)
	if err != nil {
		if clients.IsStatus(err, http.StatusUnauthorized) {
			apperrors.Respond(c, apperrors.ErrInvalidCredentials)
			return
		}
		apperrors.Respond(c, clients.ToAppError(err))
		return
	}

	ctrl.cookies.SetSession(c, result.Tokens)
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "user": result.User})
}

// Logout revokes the refresh token when there is one. Cookies are cleared
// even if the backend call fails.
func (ctrl *SessionController) Logout(c *gin.Context) {
	if refresh, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && refresh != "" {
		if err := ctrl.auth.Logout(c.Request.Context(), refresh); err != nil {
			ctrl.logger.Warn("failed to revoke refresh token", zap.Error(err))
		}
	}
	ctrl.cookies.ClearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (ctrl *SessionController) Refresh(c *gin.Context) {
	refresh, _ := c.Cookie(middleware.RefreshTokenCookie)
	if refresh == "" {
		var req refreshRequest
		_ = c.ShouldBindJSON(&req)
		refresh = req.RefreshToken
	}
	if refresh == "" {
		apperrors.Respond(c, apperrors.New(http.StatusUnauthorized, "refresh token missing", nil))
		return
	}

	tokens, err := ctrl.auth.Refresh(c.Request.Context(), refresh)
	if err != nil {
		if clients.IsStatus(err, http.StatusUnauthorized) {
			ctrl.cookies.ClearSession(c)
			apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidToken, err))
			return
		}
		apperrors.Respond(c, clients.ToAppError(err))
		return
	}

	ctrl.cookies.SetSession(c, *tokens)
	c.JSON(http.StatusOK, gin.H{"message": "token refreshed"})
}

// Status never fails for a signed-out caller; it answers
// {"authenticated": false} instead.
func (ctrl *SessionController) Status(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	if _, err := ctrl.validator.Identify(token); err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	user, err := ctrl.auth.Me(c.Request.Context(), token)
	if err != nil {
		if clients.IsStatus(err, http.StatusUnauthorized) {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		apperrors.Respond(c, clients.ToAppError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
}
