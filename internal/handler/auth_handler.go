package handler

import (
	"errors"
	"net/http"

	"github.com/abdulra7ma/social-media-app/internal/common"
	"github.com/abdulra7ma/social-media-app/internal/middleware"
	"github.com/abdulra7ma/social-media-app/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	user, err := h.service.Signup(&req)
	if errors.Is(err, common.ErrUserAlreadyExists) {
		common.ErrorResponse(c, 409, "Username already taken", err)
		return
	}
	if errors.Is(err, common.ErrEmailTaken) {
		common.ErrorResponse(c, 409, "Email already in use", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Signup failed", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: user})
}

// Signin handles POST /api/v1/auth/signin.
// The refresh token travels as an httpOnly cookie; the body carries
// only the access token and user.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req service.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	response, err := h.service.Signin(&req)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, 401, "Invalid credentials", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Signin failed", err)
		return
	}

	h.setRefreshTokenCookie(c, response.RefreshToken)

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{
			"access_token": response.AccessToken,
			"user":         response.User,
		},
	})
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		common.ErrorResponse(c, 400, "Refresh token not found in cookie", nil)
		return
	}

	tokens, err := h.service.Refresh(refreshToken)
	if errors.Is(err, common.ErrInvalidToken) {
		h.clearRefreshTokenCookie(c)
		common.ErrorResponse(c, 401, "Invalid refresh token", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Token refresh failed", err)
		return
	}

	h.setRefreshTokenCookie(c, tokens.RefreshToken)

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{
			"access_token": tokens.AccessToken,
		},
	})
}

// Me handles GET /api/v1/auth/me (requires JWT)
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.CurrentUser(middleware.GetUserID(c))
	if errors.Is(err, common.ErrUserNotFound) {
		common.ErrorResponse(c, 404, "User not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to load user", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{Data: user})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearRefreshTokenCookie(c)

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{"message": "Logged out successfully"},
	})
}

// setRefreshTokenCookie sets the refresh token as an httpOnly cookie
func (h *AuthHandler) setRefreshTokenCookie(c *gin.Context, token string) {
	maxAge := 7 * 24 * 60 * 60
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("refresh_token", token, maxAge, "/", "", true, true)
}

// clearRefreshTokenCookie removes the refresh token cookie
func (h *AuthHandler) clearRefreshTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("refresh_token", "", -1, "/", "", true, true)
}
