package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/items/:id", "204"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/items/:id", "204"))

	assert.Equal(t, before+1, after)
}

func TestHandler_ExposesCustomCollectors(t *testing.T) {
	RecordCacheLookup("sales", true)
	RecordOnboardingTransition("email", "register")
	RecordUpstream(http.MethodGet, 0)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `storefront_dashboard_cache_lookups_total{kind="sales",result="hit"}`))
	assert.True(t, strings.Contains(body, `storefront_onboarding_transitions_total{from="email",to="register"}`))
	assert.True(t, strings.Contains(body, `storefront_upstream_requests_total{method="GET",status="error"}`))
}
