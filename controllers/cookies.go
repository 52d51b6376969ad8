package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Brutalvik/smartai-shopping-sub000/middleware"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

const (
	FlowCookie = "onboarding_id"
	// FlowHeader lets non-browser clients carry the flow id without cookies.
	FlowHeader = "X-Onboarding-ID"

	accessTokenMaxAge  = 15 * 60
	refreshTokenMaxAge = 7 * 24 * 60 * 60
)

// CookieSettings controls the attributes of every cookie the BFF sets.
type CookieSettings struct {
	Domain string
	Secure bool
}

func (s CookieSettings) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", s.Domain, s.Secure, true)
}

// SetSession stores the token pair as HTTP-only cookies.
func (s CookieSettings) SetSession(c *gin.Context, tokens models.TokenPair) {
	s.set(c, middleware.AccessTokenCookie, tokens.AccessToken, accessTokenMaxAge)
	if tokens.RefreshToken != "" {
		s.set(c, middleware.RefreshTokenCookie, tokens.RefreshToken, refreshTokenMaxAge)
	}
}

func (s CookieSettings) ClearSession(c *gin.Context) {
	s.set(c, middleware.AccessTokenCookie, "", -1)
	s.set(c, middleware.RefreshTokenCookie, "", -1)
}

func (s CookieSettings) SetFlow(c *gin.Context, flowID string, ttl time.Duration) {
	s.set(c, FlowCookie, flowID, int(ttl.Seconds()))
}

func (s CookieSettings) ClearFlow(c *gin.Context) {
	s.set(c, FlowCookie, "", -1)
}

// flowID reads the onboarding flow id from the cookie or the header.
func flowID(c *gin.Context) string {
	if v, err := c.Cookie(FlowCookie); err == nil && v != "" {
		return v
	}
	return c.GetHeader(FlowHeader)
}
