package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	domainpricing "hotelbooking/internal/domain/pricing"
)

func TestObserveCountsOutcomes(t *testing.T) {
	m := New("test")
	m.Observe("command", "booking.create", time.Millisecond, nil)
	m.Observe("command", "booking.create", time.Millisecond, errors.New("boom"))
	m.Observe("command", "booking.create", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.dispatchTotal.WithLabelValues("command", "booking.create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatchTotal.WithLabelValues("command", "booking.create", "error")))
}

func TestPricingFallbackByBranch(t *testing.T) {
	m := New("test")
	m.PricingFallback(domainpricing.Input{BranchID: "blr"}, errors.New("store down"))
	m.PricingFallback(domainpricing.Input{}, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pricingFallbacks.WithLabelValues("blr")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pricingFallbacks.WithLabelValues("unknown")))
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")
	r := gin.New()
	r.Use(m.Gin())
	r.GET("/rooms/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rooms/r-1", nil))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_request_duration_seconds_count{method="GET",route="/rooms/:id",service="test",status="200"} 1`)
}
