package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/middleware"
)

// bindJSON binds the request body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apperrors.Respond(c, apperrors.New(http.StatusBadRequest, "invalid request body: "+err.Error(), err))
		return false
	}
	return true
}

func badRequest(c *gin.Context, err error) {
	apperrors.Respond(c, apperrors.New(http.StatusBadRequest, err.Error(), err))
}

// caller answers 401 when the auth middleware did not run.
func caller(c *gin.Context) (clients.Caller, bool) {
	cl, err := middleware.GetCaller(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrUnauthorized, err))
		return clients.Caller{}, false
	}
	return cl, true
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
