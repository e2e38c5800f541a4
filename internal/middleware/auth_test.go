package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aicreat-gateway/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(secret), func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "token": middleware.Token(c)})
	})
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := do(newRouter(), "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-123", body["user_id"])
	assert.Equal(t, token, body["token"])
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired := signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "user-123"})
	noSub := signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"role": "authenticated"})
	wrongAlg := signToken(t, jwt.SigningMethodHS512, []byte(secret), jwt.MapClaims{"sub": "user-123"})

	tests := []struct {
		name    string
		header  string
		wantErr string
		wantMsg string
	}{
		{"missing header", "", "missing authorization header", ""},
		{"wrong scheme", "Basic abc", "invalid authorization header format", ""},
		{"empty token", "Bearer  ", "empty token", ""},
		{"malformed", "Bearer not.a.jwt", "invalid token", "token is malformed"},
		{"expired", "Bearer " + expired, "invalid token", "token has expired"},
		{"wrong key", "Bearer " + wrongKey, "invalid token", "token signature is invalid"},
		{"wrong algorithm", "Bearer " + wrongAlg, "invalid token", "token signature is invalid"},
		{"no subject", "Bearer " + noSub, "missing user id in token", ""},
	}

	r := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.header)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantErr, body["error"])
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["message"])
			}
		})
	}
}
