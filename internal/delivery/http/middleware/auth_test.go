package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"shop-service/internal/domain/entities"
)

type stubVerifier map[string]entities.Identity

func (s stubVerifier) Verify(raw string) (entities.Identity, error) {
	if identity, ok := s[raw]; ok {
		return identity, nil
	}
	return entities.Identity{}, errors.New("bad token")
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/me", Authenticate(stubVerifier{"good": {UserID: "u1", IsSeller: true}}), func(c *gin.Context) {
		identity := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"user": identity.UserID, "seller": identity.IsSeller})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", wantStatus: http.StatusOK},
		{name: "uppercase scheme", header: "BEARER good", wantStatus: http.StatusOK},
		{name: "scheme without token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantError: "invalid_request"},
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized, wantError: "invalid_request"},
		{name: "wrong scheme", header: "Basic good", wantStatus: http.StatusUnauthorized, wantError: "invalid_request"},
		{name: "rejected token", header: "Bearer bad", wantStatus: http.StatusUnauthorized, wantError: "invalid_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), tt.wantError)
			} else {
				assert.JSONEq(t, `{"user":"u1","seller":true}`, w.Body.String())
			}
		})
	}
}

func TestIdentityFrom_Unauthenticated(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, IdentityFrom(c).Authenticated())
}
