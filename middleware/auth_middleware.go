package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	"github.com/Brutalvik/smartai-shopping-sub000/common/auth"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
)

const (
	UserContextKey     = "userID"
	EmailContextKey    = "userEmail"
	RoleContextKey     = "userRole"
	TokenContextKey    = "accessToken"
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// AuthMiddleware accepts an access token from the Authorization header or
// the access_token cookie and stores the caller identity on the context.
func AuthMiddleware(validator *auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			apperrors.Respond(c, apperrors.Wrap(apperrors.ErrUnauthorized, errors.New("missing access token")))
			return
		}

		id, err := validator.Identify(token)
		if err != nil {
			apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInvalidToken, err))
			return
		}

		c.Set(UserContextKey, id.UserID)
		c.Set(EmailContextKey, id.Email)
		c.Set(RoleContextKey, id.Role)
		c.Set(TokenContextKey, token)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleContextKey) != role {
			apperrors.Respond(c, apperrors.Wrap(apperrors.ErrForbidden, errors.New("requires role "+role)))
			return
		}
		c.Next()
	}
}

// BearerToken returns the token from "Authorization: Bearer ..." or, failing
// that, from the access_token cookie.
func BearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return ""
	}
	if v, err := c.Cookie(AccessTokenCookie); err == nil {
		return v
	}
	return ""
}

func GetUserID(c *gin.Context) (string, error) {
	val, exists := c.Get(UserContextKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	userID, ok := val.(string)
	if !ok || userID == "" {
		return "", errors.New("user ID has invalid type in context")
	}
	return userID, nil
}

// GetCaller builds the identity backend calls are made with.
func GetCaller(c *gin.Context) (clients.Caller, error) {
	userID, err := GetUserID(c)
	if err != nil {
		return clients.Caller{}, err
	}
	return clients.Caller{
		UserID:      userID,
		Email:       c.GetString(EmailContextKey),
		Role:        c.GetString(RoleContextKey),
		AccessToken: c.GetString(TokenContextKey),
	}, nil
}
