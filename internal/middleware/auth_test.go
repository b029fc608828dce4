package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdulra7ma/social-media-app/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func authTestRouter(mgr *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", JWTAuth(mgr), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "username": GetUsername(c)})
	})
	return router
}

func TestJWTAuth(t *testing.T) {
	mgr := jwt.NewManager("middleware-test-secret", 15, 60)
	router := authTestRouter(mgr)

	token, err := mgr.GenerateAccessToken(7, "alice")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
}

func TestJWTAuth_Rejections(t *testing.T) {
	mgr := jwt.NewManager("middleware-test-secret", 15, 60)
	router := authTestRouter(mgr)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuth_RefreshTokenNotUsableAsBearer(t *testing.T) {
	mgr := jwt.NewManager("middleware-test-secret", 15, 60)
	router := authTestRouter(mgr)

	refresh, err := mgr.GenerateRefreshToken(7)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	mgr := jwt.NewManager("middleware-test-secret", 15, 60)
	other := jwt.NewManager("another-secret", 15, 60)
	router := authTestRouter(mgr)

	token, err := other.GenerateAccessToken(7, "alice")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
