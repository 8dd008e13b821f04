//go:build unit

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/jwt"
	"reservation-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "middleware-test-secret"

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	auth := middleware.NewAuthMiddleware(jwt.NewService(testSecret, time.Hour))

	whoami := func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	}
	router.GET("/me", auth.RequireAuth(), whoami)
	router.GET("/admin", auth.RequireAuth(), auth.RequireStaff(), whoami)
	router.GET("/misconfigured", auth.RequireStaff(), whoami)
	return router
}

func token(t *testing.T, secret string, ttl time.Duration, id uuid.UUID, role user.Role) string {
	t.Helper()
	tok, err := jwt.NewService(secret, ttl).GenerateToken(id, role)
	assert.NoError(t, err)
	return tok
}

func TestRequireAuth(t *testing.T) {
	router := authRouter()
	id := uuid.New()

	t.Run("valid token sets the actor", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, token(t, testSecret, time.Hour, id, user.RoleCustomer))

		var body struct {
			ID   uuid.UUID `json:"id"`
			Role string    `json:"role"`
		}
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.Equal(t, id, body.ID)
		assert.Equal(t, "customer", body.Role)
	})

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{"missing token", "", "Access token required"},
		{"garbage token", "not-a-jwt", "Invalid or expired token"},
		{"wrong secret", token(t, "other-secret", time.Hour, id, user.RoleCustomer), "Invalid or expired token"},
		{"expired token", token(t, testSecret, -time.Hour, id, user.RoleCustomer), "Invalid or expired token"},
		{"unknown role", token(t, testSecret, time.Hour, id, user.Role("guest")), "Invalid token claims"},
		{"nil subject", token(t, testSecret, time.Hour, uuid.Nil, user.RoleCustomer), "Invalid token claims"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.PerformRequest(t, router, http.MethodGet, "/me", nil, tt.token)
			httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, tt.message)
			httptest.AssertErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHENTICATED")
		})
	}
}

func TestRequireStaff(t *testing.T) {
	router := authRouter()

	tests := []struct {
		role   user.Role
		status int
	}{
		{user.RoleOperator, http.StatusOK},
		{user.RoleAdmin, http.StatusOK},
		{user.RoleCustomer, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			rec := httptest.PerformRequest(t, router, http.MethodGet, "/admin", nil, token(t, testSecret, time.Hour, uuid.New(), tt.role))
			if tt.status == http.StatusOK {
				httptest.AssertSuccessResponse(t, rec, http.StatusOK, nil)
				return
			}
			httptest.AssertErrorCode(t, rec, tt.status, "FORBIDDEN")
		})
	}

	t.Run("without RequireAuth it fails closed", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/misconfigured", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
	})
}
