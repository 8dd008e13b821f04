//go:build unit

package middleware_test

import (
	"net/http"
	nethttptest "net/http/httptest"
	"strings"
	"testing"
	"time"

	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/tests/common/httptest"
	"reservation-engine/tests/common/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func chain(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := testutil.DiscardLogger()
	router.Use(middleware.Recovery(logger), middleware.RequestLogger(logger), middleware.ErrorHandler())
	router.GET("/x", handlers...)
	return router
}

func TestRequestID(t *testing.T) {
	router := chain(func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	t.Run("generated when absent", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/x", nil, "")
		id := rec.Header().Get("X-Request-ID")
		assert.NotEmpty(t, id)
		assert.Equal(t, id, rec.Body.String())
	})

	t.Run("upstream id is reused", func(t *testing.T) {
		rec := httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/x", nil, "", map[string]string{"X-Request-ID": "lb-42.a_b"})
		assert.Equal(t, "lb-42.a_b", rec.Header().Get("X-Request-ID"))
	})

	t.Run("unsafe upstream id is replaced", func(t *testing.T) {
		for _, bad := range []string{"has space", "new\x7fline", strings.Repeat("a", 65)} {
			rec := httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/x", nil, "", map[string]string{"X-Request-ID": bad})
			assert.NotEqual(t, bad, rec.Header().Get("X-Request-ID"))
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		}
	})
}

func TestErrorHandler(t *testing.T) {
	t.Run("recorded error goes through the taxonomy", func(t *testing.T) {
		router := chain(func(c *gin.Context) {
			_ = c.Error(errs.Wrap(errs.ErrNotFound, "reservation"))
		})
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/x", nil, "")
		httptest.AssertErrorCode(t, rec, http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("handler that writes nothing is a 500", func(t *testing.T) {
		router := chain(func(*gin.Context) {})
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/x", nil, "")
		httptest.AssertErrorCode(t, rec, http.StatusInternalServerError, "INTERNAL")
	})

	t.Run("explicit status without body is kept", func(t *testing.T) {
		router := chain(func(c *gin.Context) { c.Status(http.StatusNoContent) })
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/x", nil, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		router := chain(func(*gin.Context) { panic("boom") })
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/x", nil, "")
		httptest.AssertErrorCode(t, rec, http.StatusInternalServerError, "INTERNAL")
	})
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        time.Hour,
	}
	router := gin.New()
	router.Use(middleware.NewCORSMiddleware(cfg, testutil.DiscardLogger()))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := nethttptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := nethttptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	exposed := strings.ToLower(rec.Header().Get("Access-Control-Expose-Headers"))
	assert.Contains(t, exposed, "retry-after")
	assert.Contains(t, exposed, "x-request-id")
}
