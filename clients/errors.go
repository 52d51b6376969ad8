package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
)

// UpstreamError is a failed call to the backend: either a transport error
// (Status 0) or a non-2xx answer.
type UpstreamError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("upstream %s %s failed: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("upstream %s %s: status=%d message=%s", e.Method, e.Path, e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func newUpstreamStatusError(resp *http.Response, body []byte) *UpstreamError {
	e := &UpstreamError{Status: resp.StatusCode}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		e.Path = resp.Request.URL.Path
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Message = payload.Error
		if e.Message == "" {
			e.Message = payload.Message
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}

// IsStatus reports whether err is an upstream answer with the given status.
func IsStatus(err error, status int) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Status == status
}

// ToAppError maps an upstream failure onto the status the browser should
// see. Client errors keep the backend's message; everything else becomes a
// generic gateway error.
func ToAppError(err error) error {
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return err
	}

	msg := ue.Message
	switch {
	case ue.Status == 0 && errors.Is(ue.Err, context.DeadlineExceeded):
		return apperrors.New(http.StatusGatewayTimeout, "Upstream service timed out", err)
	case ue.Status == 0:
		return apperrors.Wrap(apperrors.ErrBadGateway, err)
	case ue.Status == http.StatusUnprocessableEntity:
		return apperrors.New(http.StatusBadRequest, orDefault(msg, "Invalid input"), err)
	case ue.Status >= 400 && ue.Status < 500:
		return apperrors.New(ue.Status, orDefault(msg, http.StatusText(ue.Status)), err)
	default:
		return apperrors.Wrap(apperrors.ErrBadGateway, err)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
